package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/wayfarer-travel/wayfarer-api/internal/app/activities"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/attachments"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/itinerary"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/stays"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/transport"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/trips"
	"github.com/wayfarer-travel/wayfarer-api/internal/app/users"
)

// Services bundles the application services the router exposes.
type Services struct {
	Users       *users.Service
	Trips       *trips.Service
	Activities  *activities.Service
	Stays       *stays.Service
	Transport   *transport.Service
	Itinerary   *itinerary.Service
	Attachments *attachments.Service
}

type Options struct {
	Log            *slog.Logger
	AuthMiddleware func(http.Handler) http.Handler
	AllowedOrigins []string
}

// NewRouter constructs the API HTTP router. All /api/v1 routes run behind
// the auth middleware and the user-resolving middleware; /healthz stays open
// for infra checks.
func NewRouter(svcs Services, opts Options) http.Handler {
	h := &handlers{svcs: svcs}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Log != nil {
		r.Use(NewRequestLogger(opts.Log))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Debug-Subject"},
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}
		r.Use(NewUserMiddleware(svcs.Users))

		r.Get("/users/me", h.getMe)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.listTrips)
			r.Post("/", h.createTrip)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", h.getTrip)
				r.Patch("/", h.updateTrip)
				r.Delete("/", h.deleteTrip)

				r.Get("/itinerary", h.getItinerary)

				r.Get("/activities", h.listActivities)
				r.Post("/activities", h.createActivity)

				r.Get("/accommodations", h.listAccommodations)
				r.Post("/accommodations", h.createAccommodation)

				r.Get("/transportation", h.listTransportation)
				r.Post("/transportation/flights", h.createFlight)
				r.Post("/transportation/trains", h.createTrain)
				r.Post("/transportation/generic", h.createGeneric)

				r.Get("/attachments", h.listAttachments)
				r.Post("/attachments", h.uploadAttachment)
			})
		})

		r.Route("/activities/{activityID}", func(r chi.Router) {
			r.Get("/", h.getActivity)
			r.Patch("/", h.updateActivity)
			r.Delete("/", h.deleteActivity)
		})

		r.Route("/accommodations/{accommodationID}", func(r chi.Router) {
			r.Get("/", h.getAccommodation)
			r.Patch("/", h.updateAccommodation)
			r.Delete("/", h.deleteAccommodation)
		})

		r.Route("/transportation", func(r chi.Router) {
			r.Get("/{transportationID}", h.getTransportation)
			r.Delete("/{transportationID}", h.deleteTransportation)
			r.Put("/flights/{transportationID}", h.updateFlight)
			r.Put("/trains/{transportationID}", h.updateTrain)
			r.Put("/generic/{transportationID}", h.updateGeneric)
		})

		r.Route("/attachments/{attachmentID}", func(r chi.Router) {
			r.Get("/", h.downloadAttachment)
			r.Delete("/", h.deleteAttachment)
		})
	})

	return r
}

type handlers struct {
	svcs Services
}
