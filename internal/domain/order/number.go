package order

import (
	"fmt"
	"time"

	"github.com/mbvogue/storefront/internal/domain/shared"
)

// NewOrderNumber returns MBV-YYYYMMDD-XXXXXX for the given day
func NewOrderNumber(now time.Time) (string, error) {
	suffix, err := shared.RandomCode(6)
	if err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return fmt.Sprintf("MBV-%s-%s", now.UTC().Format("20060102"), suffix), nil
}
