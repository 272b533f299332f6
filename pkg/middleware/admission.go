package middleware

import (
	"encoding/json"
	"net/http"

	"auth-backend/pkg/admission"

	"go.uber.org/zap"
)

// Admission runs the perimeter policy engine before anything else. Denied
// requests are answered directly; no handler or side effect runs.
func Admission(engine *admission.Engine, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := engine.Evaluate(r)
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("Request denied at perimeter",
				zap.String("reason", string(decision.Reason)),
				zap.String("path", r.URL.Path),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(decision.Status())
			json.NewEncoder(w).Encode(map[string]string{"message": decision.Message})
		})
	}
}
