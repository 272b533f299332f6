package wire

import (
	"net/http"
	"time"

	"auth-backend/internal/adaptor"
	"auth-backend/internal/data/repository"
	"auth-backend/internal/metrics"
	"auth-backend/internal/usecase"
	"auth-backend/pkg/admission"
	"auth-backend/pkg/mailer"
	"auth-backend/pkg/middleware"
	"auth-backend/pkg/token"
	"auth-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring constructs every component from config and connects them: codec,
// mailer, admission engine, services, handlers, router.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	codec := token.NewCodec(config.JWT.Secret, config.JWT.Expiry())
	mail := mailer.NewSMTPSender(config.Email, logger)
	engine := admission.NewEngine(admission.Config{
		Capacity:       config.Admission.Capacity,
		RefillTokens:   config.Admission.RefillTokens,
		RefillInterval: time.Duration(config.Admission.RefillIntervalSec) * time.Second,
	})

	service := usecase.NewService(repo, codec, mail, config, logger)
	handler := adaptor.NewHandler(service, codec, config, logger)

	metrics.MustRegister()

	router := setupRouter(handler, codec, engine, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	codec *token.Codec,
	engine *admission.Engine,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware; admission runs last so denied requests are still
	// logged and counted, but never reach a handler.
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(metrics.Middleware())
	r.Use(middleware.Admission(engine, logger))

	wireAuth(r, handler, codec, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
