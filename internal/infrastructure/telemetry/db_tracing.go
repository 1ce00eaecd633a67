package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartedKey = "storefront:query_started"

type DBTracingConfig struct {
	Enabled bool // otelgorm spans per statement
	// LogFullSQL keeps bound variables in span statements (never in production:
	// they include e-mails and phone numbers)
	LogFullSQL      bool
	SlowQueryThresh time.Duration
	DBSystem        string
}

// DBTracingPlugin is a gorm.Plugin that times every statement. It feeds the
// query duration histogram and the slow query counter, and when tracing is on
// it installs otelgorm and annotates the statement span with table, rows and
// slowness.
type DBTracingPlugin struct {
	config  DBTracingConfig
	logger  *zap.Logger
	metrics *Metrics
}

func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// WithMetrics records query timings on m
func (p *DBTracingPlugin) WithMetrics(m *Metrics) *DBTracingPlugin {
	p.metrics = m
	return p
}

func (p *DBTracingPlugin) Name() string { return "storefront:db_instrumentation" }

// Initialize is called by db.Use. With neither tracing nor metrics it
// registers nothing.
func (p *DBTracingPlugin) Initialize(db *gorm.DB) error {
	if !p.config.Enabled && p.metrics == nil {
		p.logger.Debug("Database instrumentation disabled")
		return nil
	}

	if p.config.Enabled {
		opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
		if !p.config.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("storefront:before_create", markStart),
		cb.Create().After("gorm:create").Register("storefront:after_create", p.observe("create")),
		cb.Query().Before("gorm:query").Register("storefront:before_query", markStart),
		cb.Query().After("gorm:query").Register("storefront:after_query", p.observe("query")),
		cb.Update().Before("gorm:update").Register("storefront:before_update", markStart),
		cb.Update().After("gorm:update").Register("storefront:after_update", p.observe("update")),
		cb.Delete().Before("gorm:delete").Register("storefront:before_delete", markStart),
		cb.Delete().After("gorm:delete").Register("storefront:after_delete", p.observe("delete")),
		cb.Row().Before("gorm:row").Register("storefront:before_row", markStart),
		cb.Row().After("gorm:row").Register("storefront:after_row", p.observe("row")),
		cb.Raw().Before("gorm:raw").Register("storefront:before_raw", markStart),
		cb.Raw().After("gorm:raw").Register("storefront:after_raw", p.observe("raw")),
	); err != nil {
		return err
	}

	p.logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", p.config.Enabled),
		zap.Bool("metrics", p.metrics != nil),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(queryStartedKey, time.Now())
}

func (p *DBTracingPlugin) observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		started, ok := db.InstanceGet(queryStartedKey)
		if !ok {
			return
		}
		elapsed := time.Since(started.(time.Time))
		slow := elapsed > p.config.SlowQueryThresh
		table := db.Statement.Table

		if p.metrics != nil {
			p.metrics.QueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
			if slow {
				p.metrics.SlowQueries.WithLabelValues(table).Inc()
			}
		}

		if db.Statement.Context == nil {
			return
		}
		span := trace.SpanFromContext(db.Statement.Context)
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(
			attribute.String("db.sql.table", table),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)
		if err := db.Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if slow {
			span.SetAttributes(attribute.Bool("db.slow_query", true))
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

var _ gorm.Plugin = (*DBTracingPlugin)(nil)
