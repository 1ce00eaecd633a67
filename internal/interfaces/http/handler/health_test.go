package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{"no dependencies", nil, http.StatusOK, `"status":"healthy"`},
		{"all up", map[string]Pinger{"database": up, "redis": up}, http.StatusOK, `"redis":"ok"`},
		{"one down", map[string]Pinger{"database": up, "redis": down}, http.StatusServiceUnavailable, `"redis":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/health", "")
			NewHealthHandler(tt.checks).Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}

	t.Run("hides the failure cause", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/health", "")
		NewHealthHandler(map[string]Pinger{"database": down}).Health(c)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}
