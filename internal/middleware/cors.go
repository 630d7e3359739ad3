package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowHeaders = "Authorization, Content-Type, X-Locale, Accept-Language, " + RequestIDHeader
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsMaxAge       = "600"
)

// CORS allows browser calls from the listed origins. A "*" entry admits any
// origin without credentials. Preflight requests are answered here and never
// reach the router.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(allowedOrigins))
	anyOrigin := false
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			anyOrigin = true
			continue
		}
		if origin != "" {
			allow[origin] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if origin != "" {
				h := w.Header()
				h.Add("Vary", "Origin")
				_, listed := allow[origin]
				switch {
				case listed:
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Credentials", "true")
				case anyOrigin:
					h.Set("Access-Control-Allow-Origin", "*")
				}
				if listed || anyOrigin {
					h.Set("Access-Control-Expose-Headers", RequestIDHeader)
					if preflight {
						h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
						h.Set("Access-Control-Allow-Methods", corsAllowMethods)
						h.Set("Access-Control-Max-Age", corsMaxAge)
					}
				}
			}

			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
