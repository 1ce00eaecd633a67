package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database owns the gorm handle shared by every repository
type Database struct {
	DB *gorm.DB
}

type dbOptions struct {
	gorm   *gorm.Config
	logger *zap.Logger
	sleep  func(context.Context, time.Duration) error
}

// Option customizes how NewDatabase connects
type Option func(*dbOptions)

// WithLogger routes SQL logging through l
func WithLogger(l gormlogger.Interface) Option {
	return func(o *dbOptions) { o.gorm.Logger = l }
}

// WithStartupLogger reports connection attempts to log
func WithStartupLogger(log *zap.Logger) Option {
	return func(o *dbOptions) { o.logger = log }
}

// NewDatabase opens the postgres pool. Postgres is often still starting when
// the storefront boots under compose, so the first ping is retried
// cfg.ConnectAttempts times, cfg.ConnectBackoff apart.
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	o := dbOptions{
		gorm: &gorm.Config{
			Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
			SkipDefaultTransaction: true,
			TranslateError:         true,
		},
		logger: zap.NewNop(),
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), o.gorm)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	d := &Database{DB: db}
	if err := d.waitReady(ctx, max(cfg.ConnectAttempts, 1), cfg.ConnectBackoff, o); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) waitReady(ctx context.Context, attempts int, backoff time.Duration, o dbOptions) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = d.Ping(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		o.logger.Warn("Database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Int("of", attempts),
			zap.Error(err))
		if serr := o.sleep(ctx, backoff); serr != nil {
			return fmt.Errorf("ping database: %w", serr)
		}
	}
	return fmt.Errorf("ping database after %d attempts: %w", attempts, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping is the readiness check used by /health
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
