package wire

import (
	"auth-backend/internal/adaptor"
	"auth-backend/pkg/middleware"
	"auth-backend/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	codec *token.Codec,
	log *zap.Logger,
) {
	r.Route("/api/auth", func(r chi.Router) {
		// Public routes
		r.Post("/signup", handler.Auth.Signup)
		r.Post("/login", handler.Auth.Login)

		// Session-protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(codec, log))

			r.Post("/verify-email", handler.Auth.VerifyEmail)
			r.Post("/forgot-password", handler.Auth.ForgotPassword)
			r.Post("/reset-password/{token}", handler.Auth.ResetPassword)
			r.Post("/logout", handler.Auth.Logout)
			r.Get("/me", handler.User.Me)
		})
	})
}
