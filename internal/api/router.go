package api

import (
	"net/http"
	"time"

	"campus_media/internal/api/handler"
	"campus_media/internal/api/middleware"
	"campus_media/internal/app/service"
	"campus_media/internal/common/security"
	"campus_media/internal/domain/model"
	"campus_media/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(
	cfg RouterConfig,
	authService *service.AuthService,
	mediaService *service.MediaService,
	tokens *security.TokenIssuer,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(m.Middleware)
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", m.Handler())

	// Signup and login (public)
	r.Route("/admin", handler.NewAuthHandler(authService, model.KindAdmin).RegisterRoutes)
	r.Route("/student", handler.NewAuthHandler(authService, model.KindStudent).RegisterRoutes)

	// Media creation (bearer token)
	mediaHandler := handler.NewMediaHandler(mediaService)
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator(tokens, m))
		mediaHandler.RegisterRoutes(protected)
	})

	return r
}
