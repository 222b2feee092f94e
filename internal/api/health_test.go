// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package api_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell/internal/api"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/* TestHealth_Liveness verifies the liveness probe is unconditional. */
func TestHealth_Liveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, quietLogger())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/* TestHealth_Readiness verifies the readiness probe reflects dependency state. */
func TestHealth_Readiness(t *testing.T) {
	type report struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name  string `json:"name"`
				IsOK  bool   `json:"ok"`
				Error string `json:"error,omitempty"`
			} `json:"checks"`
		} `json:"data"`
	}

	tests := []struct {
		name       string
		deps       api.HealthDependencies
		wantCode   int
		wantStatus string
	}{
		{
			name: "all healthy",
			deps: api.HealthDependencies{
				CheckDatabase: func() error { return nil },
				CheckCache:    func() error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
		{
			name: "database down",
			deps: api.HealthDependencies{
				CheckDatabase: func() error { return errors.New("connection refused") },
				CheckCache:    func() error { return nil },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
		{
			name: "cache down",
			deps: api.HealthDependencies{
				CheckDatabase: func() error { return nil },
				CheckCache:    func() error { return errors.New("redis timeout") },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
		{
			name:       "nil probes count as healthy",
			deps:       api.HealthDependencies{},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, quietLogger())

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, recorder.Code)

			var body report
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Data.Status)
			assert.Len(t, body.Data.Checks, 2)
		})
	}
}
