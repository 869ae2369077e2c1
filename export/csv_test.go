package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tough-Day/conference-invites/model"
)

func TestToCSV_Empty(t *testing.T) {
	out, err := ToCSV(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestToCSV_UnionOfFieldNames(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	submissions := []model.Submission{
		{
			ID:          "s1",
			SubmittedAt: at,
			FormData:    map[string]any{"name": "Ada", "role": "speaker"},
		},
		{
			ID:          "s2",
			SubmittedAt: at,
			// submitted after a type-change edit: different key set
			FormData: map[string]any{"name": "Grace", "role_v2": "A"},
		},
	}

	out, err := ToCSV(submissions)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Submitted At,name,role,role_v2", lines[0])
	assert.Equal(t, "s1,2024-05-01T12:00:00Z,Ada,speaker,", lines[1])
	assert.Equal(t, "s2,2024-05-01T12:00:00Z,Grace,,A", lines[2])
}

func TestToCSV_EscapesSeparatorsAndQuotes(t *testing.T) {
	submissions := []model.Submission{
		{
			ID:          "s1",
			SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			FormData: map[string]any{
				"bio":   `likes "quotes", commas`,
				"langs": []any{"go", "rust"},
			},
		},
	}

	out, err := ToCSV(submissions)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"likes ""quotes"", commas"`)
	assert.Contains(t, lines[1], "go; rust")
}
