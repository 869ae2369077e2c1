package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tough-Day/conference-invites/config"
	"github.com/Tough-Day/conference-invites/database"
	"github.com/Tough-Day/conference-invites/form"
	"github.com/Tough-Day/conference-invites/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(config.Config{
		DBUrl: filepath.Join(t.TempDir(), "test.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestConference(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO conference (id, slug, name, form_url, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		id, "gophercon-"+id[:8], "GopherCon", "http://localhost:3000/form/gophercon",
	)
	require.NoError(t, err)
	return id
}

func applyInTx(t *testing.T, db *sql.DB, conferenceID string, plan form.Plan) {
	t.Helper()
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, applyPlan(ctx, tx, conferenceID, plan))
	require.NoError(t, tx.Commit())
}

func insertTestSubmission(t *testing.T, db *sql.DB, conferenceID string, formData map[string]any) {
	t.Helper()
	b, err := json.Marshal(formData)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO submission (id, conference_id, form_data, submitted_at)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), conferenceID, string(b), time.Now(),
	)
	require.NoError(t, err)
}

func TestApplyPlan_FastPathReplacesFieldSet(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	conferenceID := createTestConference(t, db)

	plan, err := form.Reconcile(nil, 0, []form.IncomingField{
		{FieldName: "name", Label: "Name", FieldType: model.FieldText, Required: true},
		{FieldName: "role", Label: "Role", FieldType: model.FieldText},
	})
	require.NoError(t, err)
	applyInTx(t, db, conferenceID, plan)

	fields, err := loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].FieldName)
	assert.Equal(t, "role", fields[1].FieldName)

	// a second no-submission edit replaces wholesale
	plan, err = form.Reconcile(fields, 0, []form.IncomingField{
		{FieldName: "email", Label: "Email", FieldType: model.FieldEmail, Required: true},
	})
	require.NoError(t, err)
	applyInTx(t, db, conferenceID, plan)

	fields, err = loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].FieldName)
	assert.True(t, fields[0].IsActive)
}

func TestApplyPlan_TypeChangePreservesSubmissionHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	conferenceID := createTestConference(t, db)

	plan, err := form.Reconcile(nil, 0, []form.IncomingField{
		{FieldName: "name", Label: "Name", FieldType: model.FieldText, Required: true},
		{FieldName: "role", Label: "Role", FieldType: model.FieldText},
	})
	require.NoError(t, err)
	applyInTx(t, db, conferenceID, plan)

	fields, err := loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)

	insertTestSubmission(t, db, conferenceID, map[string]any{
		"name": "Ada",
		"role": "speaker",
	})

	count, err := countSubmissions(ctx, db, conferenceID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// change role's type to a choice field
	plan, err = form.Reconcile(fields, count, []form.IncomingField{
		{ID: fields[0].ID, FieldName: "name", Label: "Name", FieldType: model.FieldText, Required: true},
		{ID: fields[1].ID, FieldName: "role", Label: "Role", FieldType: model.FieldSelect, Options: []string{"A", "B"}},
	})
	require.NoError(t, err)
	applyInTx(t, db, conferenceID, plan)

	all, err := loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byName := map[string]model.FormField{}
	for _, f := range all {
		byName[f.FieldName] = f
	}

	role := byName["role"]
	assert.False(t, role.IsActive, "type-changed field is retired, not deleted")
	assert.Equal(t, fields[1].ID, role.ID)

	roleV2 := byName["role_v2"]
	assert.True(t, roleV2.IsActive)
	assert.Equal(t, model.FieldSelect, roleV2.FieldType)
	assert.Equal(t, []string{"A", "B"}, roleV2.Validation.Options)
	assert.Equal(t, role.ID, roleV2.OriginalFieldID)

	active, err := loadFields(ctx, db, conferenceID, true)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// historical data is still addressable under the old fieldName
	submissions, err := loadSubmissions(ctx, db, conferenceID, 0, 0)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "speaker", submissions[0].FormData["role"])
}

func TestApplyPlan_RollbackLeavesSchemaIntact(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	conferenceID := createTestConference(t, db)

	plan, err := form.Reconcile(nil, 0, []form.IncomingField{
		{FieldName: "name", Label: "Name", FieldType: model.FieldText, Required: true},
	})
	require.NoError(t, err)
	applyInTx(t, db, conferenceID, plan)

	before, err := loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)

	insertTestSubmission(t, db, conferenceID, map[string]any{"name": "Ada"})

	plan, err = form.Reconcile(before, 1, []form.IncomingField{
		{ID: before[0].ID, FieldName: "name", Label: "Name", FieldType: model.FieldCheckbox},
	})
	require.NoError(t, err)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, applyPlan(ctx, tx, conferenceID, plan))
	require.NoError(t, tx.Rollback())

	after, err := loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)
	assert.Equal(t, before, after, "an aborted reconciliation must not leak partial state")
}

func TestLoadFields_OrderFollowsFieldOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	conferenceID := createTestConference(t, db)

	plan, err := form.Reconcile(nil, 0, []form.IncomingField{
		{FieldName: "c", Label: "C", FieldType: model.FieldText},
		{FieldName: "a", Label: "A", FieldType: model.FieldText},
		{FieldName: "b", Label: "B", FieldType: model.FieldText},
	})
	require.NoError(t, err)
	applyInTx(t, db, conferenceID, plan)

	fields, err := loadFields(ctx, db, conferenceID, false)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{fields[0].Order, fields[1].Order, fields[2].Order})
	assert.Equal(t, "c", fields[0].FieldName)
}
