// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

// Package api contains the health check handlers for liveness and readiness probes.
package api

import (
	"log/slog"
	"net/http"

	"github.com/inkwellapp/inkwell/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// checkResult is one dependency's entry in the readiness report.
type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
//
// Both the database and the cache must answer a ping, since the account
// service cannot log anyone in without Postgres nor queue mail without Redis.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := []checkResult{
		handler.check("postgres", handler.dependencies.CheckDatabase),
		handler.check("redis", handler.dependencies.CheckCache),
	}

	status := "ready"
	for _, result := range results {
		if !result.IsOK {
			status = "degraded"
			break
		}
	}

	if status != "ready" {
		// respond.OK always sends 200, so set the status line first.
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(http.StatusServiceUnavailable)
	}

	respond.OK(writer, map[string]any{
		"status": status,
		"checks": results,
	})
}

// check runs a single dependency probe. A nil probe counts as healthy so
// partial wiring in tests does not fail readiness.
func (handler *healthHandler) check(name string, probe func() error) checkResult {
	result := checkResult{Name: name, IsOK: true}
	if probe == nil {
		return result
	}

	if err := probe(); err != nil {
		result.IsOK = false
		result.Error = err.Error()
		handler.logger.Error("readiness_check_failed",
			slog.String("dependency", name),
			slog.Any("error", err),
		)
	}
	return result
}
