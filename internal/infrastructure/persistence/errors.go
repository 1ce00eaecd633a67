package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation detects duplicate-key errors from postgres and sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// first loads a single row matching cond, mapping a miss to notFound.
func first[M any](ctx context.Context, db *gorm.DB, notFound error, cond string, args ...any) (*M, error) {
	var m M
	err := db.WithContext(ctx).Where(cond, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// requireAffected turns a zero-row write into notFound.
func requireAffected(result *gorm.DB, notFound error) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
