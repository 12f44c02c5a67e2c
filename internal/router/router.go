package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-academics/internal/academic"
	"github.com/ovaphlow/pitchfork/service-academics/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-academics/internal/auth"
	"github.com/ovaphlow/pitchfork/service-academics/internal/chat"
	"github.com/ovaphlow/pitchfork/service-academics/internal/semester"
	"github.com/ovaphlow/pitchfork/service-academics/internal/user"
	"github.com/ovaphlow/pitchfork/service-academics/pkg/utilities"
)

// Pinger reports store liveness for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the handlers and settings the router mounts.
type Deps struct {
	Logger     *zap.SugaredLogger
	Store      Pinger
	Gate       *auth.Gate
	Users      *user.Handler
	Semesters  *semester.Handler
	Academics  *academic.Handler
	Chat       *chat.Handler
	CORSOrigin string
	Production bool
	// AuthRateLimit is the per-IP request budget per minute on /api/auth.
	AuthRateLimit int
}

// New builds the HTTP handler tree.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		RequestID,
		LoggingMiddleware(d.Logger),
		middleware.Recoverer,
		SecurityHeaders(d.Production, d.Logger),
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{d.CORSOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders:   []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	r.Get("/health", health(d.Store, d.Logger))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	limit := d.AuthRateLimit
	if limit <= 0 {
		limit = 20
	}
	authLimiter := httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utilities.WriteJSON(w, http.StatusTooManyRequests, utilities.ErrorBody{Error: "Too many requests, try again later.", Kind: "rate_limited"})
		}),
	)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", d.Users.Register)
			r.With(authLimiter).Post("/login", d.Users.Login)
			r.With(d.Gate.Authenticate).Post("/change-password", d.Users.ChangePassword)
		})
		r.With(d.Gate.Authenticate).Post("/chat", d.Chat.Post)
		r.Route("/semesters", func(r chi.Router) {
			r.Get("/", d.Semesters.List)
			r.Get("/current", d.Semesters.Current)
		})
		d.Academics.Routes(r, d.Gate.Authenticate)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utilities.WriteError(w, d.Logger, r, apperr.NotFound("route not found"))
	})
	return r
}

func health(store Pinger, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.PingContext(ctx); err != nil {
			logger.Warnw("health check failed", "err", err)
			utilities.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		utilities.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
