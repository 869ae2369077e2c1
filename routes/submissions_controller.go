package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Tough-Day/conference-invites/app"
	"github.com/Tough-Day/conference-invites/export"
	"github.com/Tough-Day/conference-invites/httpx"
)

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "conferenceId")

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		total, err := countSubmissions(r.Context(), app.DB, conferenceID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions.count", err)
			return
		}

		submissions, err := loadSubmissions(r.Context(), app.DB, conferenceID, limit, offset)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		if limit <= 0 {
			limit = total
		}
		render.JSON(w, r, map[string]any{
			"submissions": submissions,
			"total":       total,
			"limit":       limit,
			"offset":      offset,
		})
	}
}

func DeleteSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submissionID := chi.URLParam(r, "id")

		res, err := app.ExecContext(r.Context(),
			`DELETE FROM submission WHERE id = ?`,
			submissionID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_submission", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_submission.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_submission", submissionID)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ExportSubmissionsCSV(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "conferenceId")

		submissions, err := loadSubmissions(r.Context(), app.DB, conferenceID, 0, 0)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		csv, err := export.ToCSV(submissions)
		if err != nil {
			httpx.LogInternalError(w, "export.csv", err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="submissions-%s.csv"`, conferenceID))
		w.Write([]byte(csv))
	}
}

// ExportSubmissionsHubSpot pushes a conference's submissions to HubSpot.
// The export is a pure side-effect producer: a failure here says nothing
// about the stored submissions.
func ExportSubmissionsHubSpot(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "conferenceId")

		submissions, err := loadSubmissions(r.Context(), app.DB, conferenceID, 0, 0)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		err = app.HubSpot.ExportContacts(r.Context(), submissions)
		if err != nil {
			httpx.LogInternalError(w, "export.hubspot", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"message": fmt.Sprintf("successfully exported %d submissions to HubSpot", len(submissions)),
		})
	}
}
