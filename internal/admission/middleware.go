package admission

import (
	"net/http"

	"github.com/charmbracelet/log"

	"gatekeeper/internal/auth"
)

// Middleware wraps a handler with the admission pipeline. Denied requests are
// answered here and never reach the inner handler.
func Middleware(pipeline *Pipeline) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := auth.UserIDFromRequest(r) // 0 when anonymous

			decision := pipeline.Admit(r.Context(), Request{
				RemoteAddr:   r.RemoteAddr,
				ForwardedFor: r.Header.Get("X-Forwarded-For"),
				Path:         r.URL.Path,
				Method:       r.Method,
				UserID:       userID,
			})

			if decision.Err != nil {
				// The request goes through, but the audit trail has a
				// gap; keep that loud.
				log.Error("admission: request log write failed", "path", r.URL.Path, "error", decision.Err)
			}

			if !decision.Allowed {
				switch decision.Status {
				case http.StatusTooManyRequests:
					http.Error(w, "Too many requests. Try again later.", http.StatusTooManyRequests)
				default:
					http.Error(w, "Forbidden: Your IP is blocked.", http.StatusForbidden)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
