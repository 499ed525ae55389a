package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		ping       func(ctx context.Context) error
		wantStatus int
		wantBody   string
	}{
		{name: "no ping", wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "ping ok", ping: func(context.Context) error { return nil }, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "ping fails", ping: func(context.Context) error { return errors.New("down") }, wantStatus: http.StatusServiceUnavailable, wantBody: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/health", NewHealthHandler("sqlite", tt.ping).Health)

			rec := doRequest(r, "GET", "/api/health", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			result := parseJSON(t, rec)
			if result["status"] != tt.wantBody || result["storage"] != "sqlite" {
				t.Errorf("unexpected body %v", result)
			}
		})
	}
}
