package routes

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/Tough-Day/conference-invites/app"
	"github.com/Tough-Day/conference-invites/form"
	"github.com/Tough-Day/conference-invites/httpx"
	"github.com/Tough-Day/conference-invites/log"
	"github.com/Tough-Day/conference-invites/model"
	"github.com/Tough-Day/conference-invites/workerpool"
)

// GetConferenceBySlug serves the public form definition: conference branding
// plus the active fields only, in display order.
func GetConferenceBySlug(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		conference, err := getConference(r.Context(), app.DB, "slug", slug)
		if err != nil {
			httpx.LogFault(w, r, "get_conference", err)
			return
		}
		conference.FormFields, err = loadFields(r.Context(), app.DB, conference.ID, true)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference.fields", err)
			return
		}

		render.JSON(w, r, conference)
	}
}

type submissionRequest struct {
	ConferenceID string         `json:"conferenceId"`
	FormData     map[string]any `json:"formData"`
}

// SubmitForm accepts a public form submission. The payload is validated for
// required active fields only and stored verbatim. The FORM_SUBMIT analytics
// fact is written off the request path: its failure never reaches the
// submitter.
func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := submissionRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		conference, err := getConference(r.Context(), app.DB, "id", req.ConferenceID)
		if err != nil {
			httpx.LogFault(w, r, "get_conference", err)
			return
		}
		if !conference.IsActive {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "submit.conference_inactive",
				"this conference is no longer accepting submissions")
			return
		}

		fields, err := loadFields(r.Context(), app.DB, conference.ID, false)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference.fields", err)
			return
		}

		err = form.ValidateSubmission(fields, req.FormData)
		if err != nil {
			httpx.LogFault(w, r, "submit.required_fields", err)
			return
		}

		formData, err := json.Marshal(req.FormData)
		if err != nil {
			httpx.LogInternalError(w, "submit.marshal", err)
			return
		}

		submission := model.Submission{
			ID:           uuid.NewString(),
			ConferenceID: conference.ID,
			FormData:     req.FormData,
			SubmittedAt:  time.Now(),
			IPAddress:    clientIP(r.RemoteAddr),
			UserAgent:    r.UserAgent(),
		}
		_, err = app.ExecContext(r.Context(), `
			INSERT INTO submission (id, conference_id, form_data, submitted_at, ip_address, user_agent)
			VALUES (?, ?, ?, ?, ?, ?)`,
			submission.ID, submission.ConferenceID, string(formData),
			submission.SubmittedAt, submission.IPAddress, submission.UserAgent,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_submission", err)
			return
		}

		// best effort, never rolls back the submission
		trackEvent(app, conference.ID, model.EventFormSubmit, nil)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, submission)
	}
}

// clientIP strips the port from a remote address, keeping IPv6 addresses
// intact. Addresses without a port pass through unchanged.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// trackEvent appends an analytics fact asynchronously. The request context
// is not used: the fact should land even after the response is flushed.
func trackEvent(app app.App, conferenceID string, eventType model.EventType, metadata map[string]any) {
	app.Pool.Submit(workerpool.WithRetry(3, 200*time.Millisecond, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := insertAnalyticsEvent(ctx, app.DB, model.AnalyticsEvent{
			ConferenceID: conferenceID,
			EventType:    eventType,
			Metadata:     metadata,
		})
		return err
	}))
}
