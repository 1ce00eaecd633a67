package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC (the default).
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, defaultField otherwise.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"total_price":  true,
	"status":       true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"created_at":  true,
	"verified_at": true,
	"amount":      true,
	"status":      true,
	"reference":   true,
}

// UserSortFields contains allowed sort fields for customers
var UserSortFields = map[string]bool{
	"created_at": true,
	"email":      true,
	"full_name":  true,
}

// orderClause builds "field DIR" from a filter against a whitelist
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(orderBy, allowed, defaultField) + " " + ValidateSortOrder(orderDir)
}

// likePattern lowercases and wraps a search term for a LIKE comparison
func likePattern(term string) string {
	term = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(strings.TrimSpace(term)))
	return "%" + term + "%"
}

// normalizePage applies defaults and caps to a page request
func normalizePage(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
