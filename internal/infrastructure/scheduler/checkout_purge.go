package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CheckoutPurgeTaskName names the expired checkout purge
const CheckoutPurgeTaskName = "purge-expired-checkouts"

// CheckoutPurger deletes pending checkouts past their expiry
type CheckoutPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// CheckoutPurgeTask deletes expired pending checkouts every interval
func CheckoutPurgeTask(purger CheckoutPurger, interval time.Duration, logger *zap.Logger) Task {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Task{
		Name:     CheckoutPurgeTaskName,
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("Expired checkouts purged", zap.Int64("count", n))
			}
			return nil
		},
	}
}
