package web

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pluxo-backend/internal/infra/payment"
	"pluxo-backend/internal/usecase"
)

// Limiter is what the rate-limit middleware needs from the Redis limiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

type Server struct {
	checkoutUC   usecase.CheckoutUseCase
	activationUC usecase.ActivationUseCase
	userUC       usecase.UserUseCase
	predictionUC usecase.PredictionUseCase
	adminUC      usecase.AdminUseCase

	verifier *payment.IPNVerifier
	auth     *AuthManager
	limiter  Limiter
	log      *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	activationUC usecase.ActivationUseCase,
	userUC usecase.UserUseCase,
	predictionUC usecase.PredictionUseCase,
	adminUC usecase.AdminUseCase,
	verifier *payment.IPNVerifier,
	auth *AuthManager,
	limiter Limiter,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		checkoutUC:   checkoutUC,
		activationUC: activationUC,
		userUC:       userUC,
		predictionUC: predictionUC,
		adminUC:      adminUC,
		verifier:     verifier,
		auth:         auth,
		limiter:      limiter,
		log:          &l,
	}
}

// Routes builds the router. The webhook stays outside auth and rate
// limiting: the provider calls it, and a throttled delivery would just burn
// retries.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(TraceID)
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhooks/nowpayments", s.handleIPN)

		r.With(s.RateLimit(30, time.Minute)).Post("/predictions/generate", s.handlePredictionGenerate)

		r.Group(func(r chi.Router) {
			r.Use(s.Authenticate)
			r.With(s.RateLimit(100, time.Minute)).Get("/user/me", s.handleMe)
			r.Post("/checkout/initiate", s.handleCheckoutInitiate)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.RequireAdmin)
				r.Get("/users", s.handleAdminListUsers)
				r.Post("/users/{id}/vip", s.handleAdminGrantVIP)
				r.Delete("/users/{id}/vip", s.handleAdminRevokeVIP)
			})
		})
	})

	return r
}
