package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewaresExcludePaths(t *testing.T) {
	var mwRan bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mwRan = true
			next.ServeHTTP(w, r)
		})
	}

	handler := MiddlewaresExcludePaths(mw, "/users/", "/login/")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		path      string
		wantMwRun bool
	}{
		{"/users/", false},
		{"/login/", false},
		{"/expenses/", true},
		{"/categories/3/", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			mwRan = false
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", tc.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.wantMwRun, mwRan)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/expenses/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
