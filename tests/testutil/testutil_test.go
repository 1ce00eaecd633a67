package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)

	assert.NotNil(t, mockDB.DB)
	mockDB.ExpectationsWereMet(t)
}

func TestNewSQLiteDB(t *testing.T) {
	type row struct {
		ID   uint
		Name string
	}
	db := NewSQLiteDB(t, &row{})

	require.NoError(t, db.Create(&row{Name: "a"}).Error)
	var count int64
	require.NoError(t, db.Model(&row{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNewTestUUID_Stable(t *testing.T) {
	assert.Equal(t, NewTestUUID("x"), NewTestUUID("x"))
	assert.NotEqual(t, NewTestUUID("x"), NewTestUUID("y"))
}

func TestServeJSON(t *testing.T) {
	r := gin.New()
	r.POST("/echo", func(c *gin.Context) {
		var in map[string]string
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": "INVALID_REQUEST"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": in})
	})

	w := ServeJSON(r, http.MethodPost, "/echo", `{"a":"b"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"a": "b"}, DecodeData[map[string]string](t, w))

	w = ServeJSON(r, http.MethodPost, "/echo", `not json`, nil)
	assert.Equal(t, "INVALID_REQUEST", ErrorCode(t, w))
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("Thing")
	event := NewTestEvent("Thing")

	require.NoError(t, h.Handle(context.Background(), event))
	assert.True(t, WaitForEventCount(t, h, 1, time.Second))
	assert.Equal(t, "Thing", h.Handled()[0].EventType())

	h.FailWith(assert.AnError)
	assert.ErrorIs(t, h.Handle(context.Background(), event), assert.AnError)
}
