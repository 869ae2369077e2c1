package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Tough-Day/conference-invites/fault"
	"github.com/Tough-Day/conference-invites/form"
	"github.com/Tough-Day/conference-invites/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx so loaders can run inside
// or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const conferenceColumns = `
	id, slug, name, description, form_instructions,
	logo_url, primary_color, form_url, short_url, is_active, schema_version, created_at`

func getConference(ctx context.Context, q querier, where string, arg any) (model.Conference, error) {
	c := model.Conference{}
	err := q.QueryRowContext(ctx, `
		SELECT`+conferenceColumns+`
		FROM conference
		WHERE `+where+` = ?`,
		arg,
	).Scan(
		&c.ID, &c.Slug, &c.Name, &c.Description, &c.FormInstructions,
		&c.LogoURL, &c.PrimaryColor, &c.FormURL, &c.ShortURL, &c.IsActive, &c.SchemaVersion, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fault.ErrNotFound
	}
	return c, err
}

func loadFields(ctx context.Context, q querier, conferenceID string, activeOnly bool) ([]model.FormField, error) {
	query := `
		SELECT
			id, conference_id, field_name, label, field_type, placeholder,
			required, field_order, validation, is_active, original_field_id
		FROM form_field
		WHERE conference_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY field_order`

	rows, err := q.QueryContext(ctx, query, conferenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []model.FormField{}
	for rows.Next() {
		f := model.FormField{}
		var validation string
		var originalID sql.NullString
		err = rows.Scan(
			&f.ID, &f.ConferenceID, &f.FieldName, &f.Label, &f.FieldType, &f.Placeholder,
			&f.Required, &f.Order, &validation, &f.IsActive, &originalID,
		)
		if err != nil {
			return nil, err
		}

		f.OriginalFieldID = originalID.String
		if validation != "" && validation != "null" {
			if err := json.Unmarshal([]byte(validation), &f.Validation); err != nil {
				return nil, err
			}
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func countSubmissions(ctx context.Context, q querier, conferenceID string) (n int, err error) {
	err = q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submission WHERE conference_id = ?`,
		conferenceID,
	).Scan(&n)
	return
}

func insertField(ctx context.Context, q querier, conferenceID string, f model.FormField) error {
	validation, err := json.Marshal(f.Validation)
	if err != nil {
		return err
	}

	var originalID any
	if f.OriginalFieldID != "" {
		originalID = f.OriginalFieldID
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO form_field (
			id, conference_id, field_name, label, field_type, placeholder,
			required, field_order, validation, is_active, original_field_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, conferenceID, f.FieldName, f.Label, f.FieldType, f.Placeholder,
		f.Required, f.Order, string(validation), f.IsActive, originalID,
	)
	return err
}

// applyPlan writes a reconciliation plan to the schema store. The caller
// owns the transaction: either every mutation lands or none does.
func applyPlan(ctx context.Context, tx *sql.Tx, conferenceID string, plan form.Plan) error {
	if plan.Replace {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM form_field WHERE conference_id = ?`,
			conferenceID,
		)
		if err != nil {
			return err
		}
		for _, f := range plan.Create {
			if err := insertField(ctx, tx, conferenceID, f); err != nil {
				return err
			}
		}
		return nil
	}

	for _, id := range plan.Retire {
		_, err := tx.ExecContext(ctx,
			`UPDATE form_field SET is_active = 0 WHERE id = ?`,
			id,
		)
		if err != nil {
			return err
		}
	}

	for _, f := range plan.Update {
		validation, err := json.Marshal(f.Validation)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE form_field
			SET label = ?, placeholder = ?, required = ?, field_order = ?, validation = ?
			WHERE id = ?`,
			f.Label, f.Placeholder, f.Required, f.Order, string(validation), f.ID,
		)
		if err != nil {
			return err
		}
	}

	for _, f := range plan.Create {
		if err := insertField(ctx, tx, conferenceID, f); err != nil {
			return err
		}
	}
	return nil
}

func insertAnalyticsEvent(ctx context.Context, q querier, event model.AnalyticsEvent) (model.AnalyticsEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var metadata any
	if event.Metadata != nil {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			return event, err
		}
		metadata = string(b)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO analytics (id, conference_id, event_type, metadata, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.ConferenceID, event.EventType, metadata, event.Timestamp,
	)
	return event, err
}

func loadSubmissions(ctx context.Context, q querier, conferenceID string, limit, offset int) ([]model.Submission, error) {
	query := `
		SELECT id, conference_id, form_data, submitted_at, ip_address, user_agent
		FROM submission
		WHERE conference_id = ?
		ORDER BY submitted_at DESC`
	args := []any{conferenceID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		s := model.Submission{}
		var formData string
		err = rows.Scan(&s.ID, &s.ConferenceID, &formData, &s.SubmittedAt, &s.IPAddress, &s.UserAgent)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(formData), &s.FormData); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}
