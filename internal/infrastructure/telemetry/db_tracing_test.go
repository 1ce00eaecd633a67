package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedModel{}))
	return db
}

func TestDBTracingPlugin_Defaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{}, nil)
	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", p.config.DBSystem)
	assert.Equal(t, "storefront:db_instrumentation", p.Name())
}

func TestDBTracingPlugin_DisabledWithoutMetrics(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Use(NewDBTracingPlugin(DBTracingConfig{}, nil)))
	assert.Nil(t, db.Callback().Query().Get("storefront:after_query"))
}

func TestDBTracingPlugin_TracesQueries(t *testing.T) {
	recorder := withRecorder(t)
	db := setupTestDB(t)
	require.NoError(t, db.Use(NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, nil)))

	ctx, span := Start(context.Background(), "catalog", "seed")
	require.NoError(t, db.WithContext(ctx).Create(&tracedModel{Name: "scarf"}).Error)
	span.End()

	ended := recorder.Ended()
	require.GreaterOrEqual(t, len(ended), 2, "parent span plus at least one db span")
	var sawTable bool
	for _, s := range ended {
		for _, kv := range s.Attributes() {
			if kv.Key == "db.sql.table" && kv.Value.AsString() == "traced_models" {
				sawTable = true
			}
		}
	}
	assert.True(t, sawTable)
}

func TestDBTracingPlugin_Metrics(t *testing.T) {
	db := setupTestDB(t)
	m := NewMetrics()
	require.NoError(t, db.Use(NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Nanosecond}, nil).WithMetrics(m)))

	require.NoError(t, db.Create(&tracedModel{Name: "dress"}).Error)
	var got []tracedModel
	require.NoError(t, db.Find(&got).Error)

	assert.GreaterOrEqual(t, testutil.ToFloat64(m.SlowQueries.WithLabelValues("traced_models")), 2.0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.QueryDuration))
}
