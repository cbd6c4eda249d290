package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ledger/internal/core"
	"ledger/internal/log"
)

func TestWriteErrorLogsInternalFailures(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
		wantLog    []string
	}{
		{
			name:       "persistence failure on create",
			method:     http.MethodPost,
			err:        &core.PersistenceError{Key: "ledger", Err: errors.New("disk full")},
			wantStatus: http.StatusInternalServerError,
			wantLog:    []string{"error_type=persistence_error", "operation=create", "disk full"},
		},
		{
			name:       "corrupt state on read",
			method:     http.MethodGet,
			err:        fmt.Errorf("load: %w", &core.CorruptStateError{Key: "ledger", Err: errors.New("bad json")}),
			wantStatus: http.StatusInternalServerError,
			wantLog:    []string{"error_type=corrupt_state_error", "operation=read"},
		},
		{
			name:       "unknown failure on delete",
			method:     http.MethodDelete,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantLog:    []string{"error_type=internal_error", "operation=delete"},
		},
		{
			name:       "validation is not logged",
			method:     http.MethodPut,
			err:        &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentHTTP, Output: &buf})
			h := log.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, tt.err)
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/api/transactions", nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			out := buf.String()
			if len(tt.wantLog) == 0 {
				if out != "" {
					t.Errorf("unexpected log output: %s", out)
				}
				return
			}
			for _, want := range tt.wantLog {
				if !strings.Contains(out, want) {
					t.Errorf("log %q missing %q", out, want)
				}
			}
			if strings.Contains(rr.Body.String(), "disk full") {
				t.Errorf("internal error text leaked: %s", rr.Body.String())
			}
		})
	}
}
