package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/Tough-Day/conference-invites/app"
	"github.com/Tough-Day/conference-invites/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/health", health)
	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// public form endpoints
	api.Get("/conferences/{slug}", GetConferenceBySlug(app))
	api.Post("/submissions", SubmitForm(app))
	api.Post("/analytics/track", TrackEvent(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD conference + schema reconciliation
		r.Post("/conferences", CreateConference(app))
		r.Get("/conferences", ListConferences(app))
		r.Get("/conferences/id/{id}", GetConferenceById(app))
		r.Put("/conferences/{id}", UpdateConference(app))
		r.Delete("/conferences/{id}", DeleteConference(app))
		r.Get("/conferences/{id}/qrcode", ConferenceQRCode(app))

		r.Get("/submissions/conference/{conferenceId}", ListSubmissions(app))
		r.Get("/submissions/conference/{conferenceId}/export/csv", ExportSubmissionsCSV(app))
		r.Post("/submissions/conference/{conferenceId}/export/hubspot", ExportSubmissionsHubSpot(app))
		r.Delete("/submissions/{id}", DeleteSubmission(app))

		r.Get("/analytics/conference/{conferenceId}", GetConferenceAnalytics(app))
		r.Get("/analytics/overview", GetAnalyticsOverview(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
