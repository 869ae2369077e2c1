package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Tough-Day/conference-invites/app"
	"github.com/Tough-Day/conference-invites/httpx"
	"github.com/Tough-Day/conference-invites/log"
	"github.com/Tough-Day/conference-invites/model"
)

type trackRequest struct {
	ConferenceID string          `json:"conferenceId"`
	EventType    model.EventType `json:"eventType"`
	Metadata     map[string]any  `json:"metadata"`
}

func TrackEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := trackRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if !req.EventType.Valid() {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "track.event_type",
				"unknown event type %q", req.EventType)
			return
		}

		event, err := insertAnalyticsEvent(r.Context(), app.DB, model.AnalyticsEvent{
			ConferenceID: req.ConferenceID,
			EventType:    req.EventType,
			Metadata:     req.Metadata,
		})
		if err != nil {
			httpx.LogInternalError(w, "db.insert_analytics", err)
			return
		}

		log.Debugf("analytics: tracked %s for conference %s", event.EventType, event.ConferenceID)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, event)
	}
}

type timelineEntry struct {
	Date      string `json:"date"`
	EventType string `json:"event_type"`
	Count     int    `json:"count"`
}

func GetConferenceAnalytics(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conferenceID := chi.URLParam(r, "conferenceId")
		start, end, ok := parseDateRange(r)
		if !ok {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_date_range")
			return
		}

		dateFilter := ""
		args := []any{conferenceID}
		if !start.IsZero() {
			dateFilter += ` AND timestamp >= ?`
			args = append(args, start)
		}
		if !end.IsZero() {
			dateFilter += ` AND timestamp <= ?`
			args = append(args, end)
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT event_type, COUNT(*)
			FROM analytics
			WHERE conference_id = ?`+dateFilter+`
			GROUP BY event_type`,
			args...,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_analytics", err)
			return
		}
		defer rows.Close()

		eventCounts := map[string]int{}
		for rows.Next() {
			var eventType string
			var count int
			if err = rows.Scan(&eventType, &count); err != nil {
				httpx.LogInternalError(w, "db.get_analytics.scan", err)
				return
			}
			eventCounts[eventType] = count
		}
		if err = rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_analytics.rows", err)
			return
		}

		subFilter := ""
		subArgs := []any{conferenceID}
		if !start.IsZero() {
			subFilter += ` AND submitted_at >= ?`
			subArgs = append(subArgs, start)
		}
		if !end.IsZero() {
			subFilter += ` AND submitted_at <= ?`
			subArgs = append(subArgs, end)
		}
		var submissionCount int
		err = app.QueryRowContext(r.Context(), `
			SELECT COUNT(*) FROM submission
			WHERE conference_id = ?`+subFilter,
			subArgs...,
		).Scan(&submissionCount)
		if err != nil {
			httpx.LogInternalError(w, "db.get_analytics.submissions", err)
			return
		}

		timelineRows, err := app.QueryContext(r.Context(), `
			SELECT DATE(timestamp), event_type, COUNT(*)
			FROM analytics
			WHERE conference_id = ?`+dateFilter+`
			GROUP BY DATE(timestamp), event_type
			ORDER BY DATE(timestamp) DESC
			LIMIT 30`,
			args...,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_analytics.timeline", err)
			return
		}
		defer timelineRows.Close()

		timeline := []timelineEntry{}
		for timelineRows.Next() {
			e := timelineEntry{}
			if err = timelineRows.Scan(&e.Date, &e.EventType, &e.Count); err != nil {
				httpx.LogInternalError(w, "db.get_analytics.timeline.scan", err)
				return
			}
			timeline = append(timeline, e)
		}
		if err = timelineRows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_analytics.timeline.rows", err)
			return
		}

		pageViews := eventCounts[string(model.EventPageView)]
		conversionRate := "0.00"
		if pageViews > 0 {
			conversionRate = fmt.Sprintf("%.2f", float64(submissionCount)/float64(pageViews)*100)
		}

		render.JSON(w, r, map[string]any{
			"eventCounts":     eventCounts,
			"submissionCount": submissionCount,
			"timeline":        timeline,
			"summary": map[string]any{
				"pageViews":      pageViews,
				"qrScans":        eventCounts[string(model.EventQRScan)],
				"submissions":    submissionCount,
				"conversionRate": conversionRate,
			},
		})
	}
}

func GetAnalyticsOverview(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var totalConferences, totalSubmissions, totalPageViews int

		err := app.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM conference`).
			Scan(&totalConferences)
		if err != nil {
			httpx.LogInternalError(w, "db.get_overview.conferences", err)
			return
		}
		err = app.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM submission`).
			Scan(&totalSubmissions)
		if err != nil {
			httpx.LogInternalError(w, "db.get_overview.submissions", err)
			return
		}
		err = app.QueryRowContext(r.Context(),
			`SELECT COUNT(*) FROM analytics WHERE event_type = ?`,
			model.EventPageView,
		).Scan(&totalPageViews)
		if err != nil {
			httpx.LogInternalError(w, "db.get_overview.page_views", err)
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT s.id, s.conference_id, s.submitted_at, c.name, c.slug
			FROM submission s
			INNER JOIN conference c ON (c.id = s.conference_id)
			ORDER BY s.submitted_at DESC
			LIMIT 10`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_overview.recent", err)
			return
		}
		defer rows.Close()

		type recentSubmission struct {
			ID           string    `json:"id"`
			ConferenceID string    `json:"conferenceId"`
			SubmittedAt  time.Time `json:"submittedAt"`
			Conference   struct {
				Name string `json:"name"`
				Slug string `json:"slug"`
			} `json:"conference"`
		}
		recent := []recentSubmission{}
		for rows.Next() {
			s := recentSubmission{}
			err = rows.Scan(&s.ID, &s.ConferenceID, &s.SubmittedAt, &s.Conference.Name, &s.Conference.Slug)
			if err != nil {
				httpx.LogInternalError(w, "db.get_overview.recent.scan", err)
				return
			}
			recent = append(recent, s)
		}
		if err = rows.Err(); err != nil {
			httpx.LogInternalError(w, "db.get_overview.recent.rows", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"totalConferences":  totalConferences,
			"totalSubmissions":  totalSubmissions,
			"totalPageViews":    totalPageViews,
			"recentSubmissions": recent,
		})
	}
}

func parseDateRange(r *http.Request) (start, end time.Time, ok bool) {
	ok = true
	if s := r.URL.Query().Get("startDate"); s != "" {
		start, ok = parseDate(s)
		if !ok {
			return
		}
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		end, ok = parseDate(s)
	}
	return
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
