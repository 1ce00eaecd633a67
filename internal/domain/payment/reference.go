package payment

import (
	"context"
	"fmt"

	"github.com/mbvogue/storefront/internal/domain/shared"
)

const (
	// ReferenceLength is the number of characters in a payment reference
	ReferenceLength = 16
	// MaxReferenceAttempts bounds collision retries
	MaxReferenceAttempts = 10
)

// ReferenceExists reports whether a reference is already stored
type ReferenceExists func(ctx context.Context, reference string) (bool, error)

// GenerateReference returns a fresh 16 character reference that exists() does
// not know about. It gives up with ErrDuplicateReference after
// MaxReferenceAttempts collisions.
func GenerateReference(ctx context.Context, exists ReferenceExists) (string, error) {
	return generateReference(ctx, exists, func() (string, error) { return shared.RandomCode(ReferenceLength) })
}

func generateReference(ctx context.Context, exists ReferenceExists, next func() (string, error)) (string, error) {
	for attempt := 0; attempt < MaxReferenceAttempts; attempt++ {
		ref, err := next()
		if err != nil {
			return "", fmt.Errorf("generate payment reference: %w", err)
		}
		taken, err := exists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("check payment reference: %w", err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", shared.ErrDuplicateReference
}
