package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/Tough-Day/conference-invites/app"
	"github.com/Tough-Day/conference-invites/fault"
	"github.com/Tough-Day/conference-invites/form"
	"github.com/Tough-Day/conference-invites/httpx"
	"github.com/Tough-Day/conference-invites/log"
	"github.com/Tough-Day/conference-invites/model"
	"github.com/Tough-Day/conference-invites/qr"
)

type conferenceRequest struct {
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	Description      string               `json:"description"`
	FormInstructions string               `json:"formInstructions"`
	LogoURL          string               `json:"logoUrl"`
	PrimaryColor     string               `json:"primaryColor"`
	IsActive         *bool                `json:"isActive"`
	SchemaVersion    int                  `json:"schemaVersion"`
	FormFields       []form.IncomingField `json:"formFields"`
}

func CreateConference(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := conferenceRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Name == "" || req.Slug == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.missing_name_or_slug")
			return
		}

		// A fresh conference has no submissions, so creation is the
		// reconciler's fast path against an empty field set.
		plan, err := form.Reconcile(nil, 0, req.FormFields)
		if err != nil {
			httpx.LogFault(w, r, "create_conference.fields", err)
			return
		}

		formURL := app.BaseURL + "/form/" + req.Slug
		shortURL := app.ShortURL.Shorten(r.Context(), formURL)

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		conferenceID := uuid.NewString()
		_, err = tx.ExecContext(r.Context(), `
			INSERT INTO conference (
				id, slug, name, description, form_instructions,
				logo_url, primary_color, form_url, short_url, is_active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			conferenceID, req.Slug, req.Name, req.Description, req.FormInstructions,
			req.LogoURL, req.PrimaryColor, formURL, shortURL,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_conference", err)
			return
		}

		err = applyPlan(r.Context(), tx, conferenceID, plan)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_conference.fields", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_conference.commit", err)
			return
		}

		conference, err := getConference(r.Context(), app.DB, "id", conferenceID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference", err)
			return
		}
		conference.FormFields, err = loadFields(r.Context(), app.DB, conferenceID, false)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference.fields", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, conference)
	}
}

func ListConferences(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT`+conferenceColumns+`
			FROM conference
			ORDER BY created_at DESC`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conferences", err)
			return
		}
		defer rows.Close()

		conferences := []model.Conference{}
		for rows.Next() {
			c := model.Conference{}
			err = rows.Scan(
				&c.ID, &c.Slug, &c.Name, &c.Description, &c.FormInstructions,
				&c.LogoURL, &c.PrimaryColor, &c.FormURL, &c.ShortURL, &c.IsActive, &c.SchemaVersion, &c.CreatedAt,
			)
			if err != nil {
				httpx.LogInternalError(w, "db.get_conferences.scan", err)
				return
			}
			conferences = append(conferences, c)
		}
		if err = rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_conferences.rows", err)
			return
		}

		for i := range conferences {
			conferences[i].FormFields, err = loadFields(r.Context(), app.DB, conferences[i].ID, false)
			if err != nil {
				httpx.LogInternalError(w, "db.get_conferences.fields", err)
				return
			}
			n, err := countSubmissions(r.Context(), app.DB, conferences[i].ID)
			if err != nil {
				httpx.LogInternalError(w, "db.get_conferences.count", err)
				return
			}
			conferences[i].SubmissionCount = &n
		}

		render.JSON(w, r, conferences)
	}
}

func GetConferenceById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "id")

		conference, err := getConference(r.Context(), app.DB, "id", conferenceID)
		if err != nil {
			httpx.LogFault(w, r, "get_conference", err)
			return
		}
		conference.FormFields, err = loadFields(r.Context(), app.DB, conferenceID, false)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference.fields", err)
			return
		}

		render.JSON(w, r, conference)
	}
}

// UpdateConference rewrites a conference's attributes and, when a field list
// is supplied, reconciles it against the stored schema. The reconciliation
// runs entirely inside one transaction: a failure leaves the prior schema
// authoritative, and the response echoes the schema that was committed.
func UpdateConference(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "id")

		req := conferenceRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(r.Context(), `
			UPDATE conference
			SET
				name = ?,
				description = ?,
				form_instructions = ?,
				logo_url = ?,
				primary_color = ?,
				is_active = ?,
				schema_version = schema_version + 1
			WHERE	id = ?
				AND schema_version = ?`,
			req.Name, req.Description, req.FormInstructions,
			req.LogoURL, req.PrimaryColor, isActive,
			conferenceID, req.SchemaVersion,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_conference", err)
			return
		}
		// optimistic lock: a concurrent edit bumped the version first
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_conference.verify", err)
			return
		}
		if n < 1 {
			if _, err := getConference(r.Context(), tx, "id", conferenceID); errors.Is(err, fault.ErrNotFound) {
				httpx.LogNotFound(w, "update_conference", conferenceID)
			} else {
				httpx.LogFault(w, r, "update_conference.version", fault.ErrConflict)
			}
			return
		}

		if req.FormFields != nil {
			existing, err := loadFields(r.Context(), tx, conferenceID, false)
			if err != nil {
				httpx.LogInternalError(w, "db.update_conference.fields", err)
				return
			}
			submissionCount, err := countSubmissions(r.Context(), tx, conferenceID)
			if err != nil {
				httpx.LogInternalError(w, "db.update_conference.count", err)
				return
			}

			plan, err := form.Reconcile(existing, submissionCount, req.FormFields)
			if err != nil {
				httpx.LogFault(w, r, "update_conference.reconcile", err)
				return
			}

			err = applyPlan(r.Context(), tx, conferenceID, plan)
			if err != nil {
				httpx.LogInternalError(w, "db.update_conference.apply", err)
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.update_conference.commit", err)
			return
		}

		conference, err := getConference(r.Context(), app.DB, "id", conferenceID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference", err)
			return
		}
		conference.FormFields, err = loadFields(r.Context(), app.DB, conferenceID, false)
		if err != nil {
			httpx.LogInternalError(w, "db.get_conference.fields", err)
			return
		}

		render.JSON(w, r, conference)
	}
}

func DeleteConference(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "id")

		// fields, submissions and analytics cascade with the conference
		res, err := app.ExecContext(r.Context(),
			`DELETE FROM conference WHERE id = ?`,
			conferenceID,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_conference", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_conference.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_conference", conferenceID)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ConferenceQRCode(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "id")

		conference, err := getConference(r.Context(), app.DB, "id", conferenceID)
		if err != nil {
			httpx.LogFault(w, r, "get_conference", err)
			return
		}

		url := conference.ShortURL
		if url == "" {
			url = conference.FormURL
		}
		if url == "" {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "qrcode.no_url")
			return
		}

		if r.URL.Query().Get("format") == "png" {
			png, err := qr.PNG(url)
			if err != nil {
				httpx.LogInternalError(w, "qrcode.render", err)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
			return
		}

		dataURL, err := qr.DataURL(url)
		if err != nil {
			httpx.LogInternalError(w, "qrcode.render", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"qrCode": dataURL,
			"url":    url,
		})
	}
}
