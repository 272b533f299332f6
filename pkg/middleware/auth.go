package middleware

import (
	"net/http"

	"auth-backend/pkg/token"
	"auth-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// Session validates the session cookie on protected routes and puts the
// authenticated user id into the request context. A missing cookie and an
// invalid token are logged differently but both end the request.
func Session(codec *token.Codec, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				logger.Warn("Session cookie missing",
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Unauthorized access")
				return
			}

			userID, err := codec.VerifySession(cookie.Value)
			if err != nil {
				logger.Warn("Session token rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseForbidden(w, "Invalid token")
				return
			}

			id, err := uuid.Parse(userID)
			if err != nil {
				logger.Warn("Session token carries malformed subject",
					zap.String("subject", userID))
				utils.ResponseForbidden(w, "Invalid token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
