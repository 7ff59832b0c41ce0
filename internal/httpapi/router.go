package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourbooking/internal/api"
	"tourbooking/internal/audit"
	"tourbooking/internal/booking"
	"tourbooking/internal/catalog"
	"tourbooking/internal/dashboard"
	"tourbooking/internal/favorite"
	"tourbooking/internal/identity"
	"tourbooking/internal/review"
	"tourbooking/internal/webhook"
	"tourbooking/pkg/config"
)

type Dependencies struct {
	Cfg config.Config
	DB  *pgxpool.Pool
}

func NewRouter(deps Dependencies) http.Handler {
	profiles := identity.NewRepository(deps.DB)
	authn := identity.Authenticator{
		Secret:   deps.Cfg.Auth.JWTSecret,
		Audience: deps.Cfg.Auth.Audience,
		Profiles: profiles,
	}

	packages := catalog.NewService(catalog.NewRepository(deps.DB))
	favorites := favorite.NewService(favorite.NewRepository(deps.DB))
	reviews := review.NewService(review.NewRepository(deps.DB))
	bookings := booking.NewService(booking.NewRepository(deps.DB), packages)

	return newRouter(deps.Cfg, authn, services{
		packages:  packages,
		favorites: favorites,
		reviews:   reviews,
		bookings:  bookings,
		audit:     audit.NewRepository(deps.DB),
		payments:  webhook.NewRepository(deps.DB),
	})
}

type services struct {
	packages  *catalog.Service
	favorites *favorite.Service
	reviews   *review.Service
	bookings  *booking.Service
	audit     audit.Lister
	payments  webhook.Processor
}

func newRouter(cfg config.Config, authn api.Authenticator, s services) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(api.Metrics)
	r.Use(api.CORS(cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	catalogHandlers := catalog.Handlers{Packages: s.packages, Ratings: s.reviews, Favorites: s.favorites}
	favoriteHandlers := favorite.Handlers{Favorites: s.favorites}
	reviewHandlers := review.Handlers{Reviews: s.reviews}
	bookingHandlers := booking.Handlers{Bookings: s.bookings}
	dashboardHandlers := dashboard.Handlers{Dashboard: dashboard.Service{
		Favorites: s.favorites,
		Bookings:  s.bookings,
		Reviews:   s.reviews,
	}}
	auditHandlers := audit.Handlers{Entries: s.audit}
	webhookHandler := webhook.Handler{Secret: cfg.PaymentWebhookSecret, Processor: s.payments}

	// v1
	r.Route("/v1", func(r chi.Router) {
		// Signature-verified, no session.
		r.Post("/webhooks/payments", webhookHandler.ServeHTTP)

		r.Group(func(r chi.Router) {
			// Anonymous requests pass; each operation decides what it requires.
			r.Use(api.SessionAuth(authn))

			r.Get("/me", dashboard.Me)
			r.Get("/me/dashboard", dashboardHandlers.Get)
			r.Get("/me/favorites", favoriteHandlers.ListMine)
			r.Get("/me/bookings", bookingHandlers.ListMine)
			r.Get("/me/reviews", reviewHandlers.ListMine)

			r.Get("/packages", catalogHandlers.List)
			r.Post("/packages", catalogHandlers.Create)
			r.Get("/packages/{id}", catalogHandlers.Get)
			r.Put("/packages/{id}", catalogHandlers.Update)
			r.Delete("/packages/{id}", catalogHandlers.Delete)

			r.Post("/packages/{id}/favorite", favoriteHandlers.Toggle)
			r.Put("/packages/{id}/favorite", favoriteHandlers.Add)
			r.Delete("/packages/{id}/favorite", favoriteHandlers.Remove)

			r.Get("/packages/{id}/reviews", reviewHandlers.ListByPackage)
			r.Post("/packages/{id}/reviews", reviewHandlers.Submit)

			r.Post("/packages/{id}/bookings", bookingHandlers.Create)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Get("/bookings/{id}/events", bookingHandlers.Events)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/bookings", bookingHandlers.ListAll)
				r.Patch("/bookings/{id}/status", bookingHandlers.PatchStatus)
				r.Get("/audit", auditHandlers.List)
			})
		})
	})

	return r
}
