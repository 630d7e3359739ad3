package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pawsconnect/internal/http/handlers"
	"pawsconnect/internal/middleware"
)

// Options configures the cross-cutting middleware around the API routes.
type Options struct {
	JWTSecret string
	// JWTKeys verifies asymmetric Supabase tokens; nil accepts HS256 only.
	JWTKeys       middleware.KeySource
	CORSOrigins   []string
	DefaultLocale string
	CountryLookup middleware.CountryLookup
	// RateLimit is applied to /api/v1; nil disables it.
	RateLimit func(http.Handler) http.Handler
	// StaticDir serves locally stored uploads under /static when set.
	StaticDir string
	Logger    zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID(opts.Logger),
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		r.Get("/fundraising", app.CampaignsList)
		r.Get("/fundraising/{id}", app.CampaignsGet)
		r.Get("/fundraising/{id}/donations", app.DonationsList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWTWithKeys(opts.JWTSecret, opts.JWTKeys))

			r.Post("/fundraising", app.CampaignsCreate)
			r.Post("/fundraising/{id}/donations", app.DonationsCreate)
			r.Delete("/fundraising/{id}/donations/{donationId}", app.DonationsDelete)

			r.Post("/uploads/donation-screenshot", app.UploadDonationScreenshot)
			r.Post("/ocr/donation-receipt", app.OCRDonationReceipt)

			r.Post("/global-chat/viewers", app.ChatMarkViewed)
			r.Get("/global-chat/viewers", app.ChatViewers)

			r.Get("/notifications", app.NotificationsList)
			r.Post("/notifications/{id}/read", app.NotificationsMarkRead)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(app.Roles))

				r.Patch("/fundraising/{id}/status", app.CampaignsUpdateStatus)
				r.Post("/fundraising/{id}/reconcile", app.CampaignsReconcile)

				r.Post("/adoption/{id}/reject", app.AdoptionReject)
				r.Post("/adoption/{id}/approve", app.AdoptionApprove)

				r.Post("/users/{id}/semi-verify", app.UsersSemiVerify)
				r.Post("/users/{id}/verify", app.UsersVerify)
				r.Post("/users/{id}/reject", app.UsersReject)
			})
		})
	})

	return r
}
