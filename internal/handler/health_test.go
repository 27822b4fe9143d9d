package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name           string
		background     HealthChecker
		cache          HealthChecker
		wantCode       int
		wantStatus     string
		wantBackground string
		wantRedis      string
	}{
		{
			name:           "all healthy",
			background:     &mockHealthChecker{},
			cache:          &mockHealthChecker{},
			wantCode:       http.StatusOK,
			wantStatus:     "ok",
			wantBackground: "ok",
			wantRedis:      "ok",
		},
		{
			name:           "background missing",
			background:     &mockHealthChecker{err: errors.New("open bg.png: no such file or directory")},
			cache:          &mockHealthChecker{},
			wantCode:       http.StatusServiceUnavailable,
			wantStatus:     "unhealthy",
			wantBackground: "error: open bg.png: no such file or directory",
			wantRedis:      "ok",
		},
		{
			name:           "redis down",
			background:     &mockHealthChecker{},
			cache:          &mockHealthChecker{err: errors.New("connection refused")},
			wantCode:       http.StatusServiceUnavailable,
			wantStatus:     "unhealthy",
			wantBackground: "ok",
			wantRedis:      "error: connection refused",
		},
		{
			name:           "redis not configured",
			background:     &mockHealthChecker{},
			wantCode:       http.StatusOK,
			wantStatus:     "ok",
			wantBackground: "ok",
			wantRedis:      "not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.background, tt.cache)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			h.Readyz(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if response.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, response.Status)
			}
			if response.Checks["background"] != tt.wantBackground {
				t.Errorf("background check = %q, want %q", response.Checks["background"], tt.wantBackground)
			}
			if response.Checks["redis"] != tt.wantRedis {
				t.Errorf("redis check = %q, want %q", response.Checks["redis"], tt.wantRedis)
			}
		})
	}
}
