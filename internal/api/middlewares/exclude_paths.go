package middlewares

import (
	"net/http"
	"strings"
)

type Middleware func(http.Handler) http.Handler

// MiddlewaresExcludePaths applies a middleware to every request except those
// whose path matches one of the excluded prefixes.
func MiddlewaresExcludePaths(middleware Middleware, paths ...string) Middleware {
	return func(next http.Handler) http.Handler {
		wrapped := middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range paths {
				if r.URL.Path == p || strings.HasPrefix(r.URL.Path, strings.TrimSuffix(p, "/")+"/") {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
