package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		remoteAddr string
		expected   int
	}{
		{"ipv4 loopback", "127.0.0.1:5173", http.StatusNoContent},
		{"ipv6 loopback", "[::1]:5173", http.StatusNoContent},
		{"lan", "192.168.1.20:5173", http.StatusForbidden},
		{"garbage", "somewhere", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()

			LocalOnly(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
