package export

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Tough-Day/conference-invites/model"
)

// ToCSV flattens submissions into CSV. Columns are the union of every field
// name seen across the submissions, in order of first appearance, so retired
// fields' historical values still get a column.
func ToCSV(submissions []model.Submission) (string, error) {
	if len(submissions) == 0 {
		return "", nil
	}

	var fields []string
	seen := map[string]bool{}
	for _, sub := range submissions {
		for _, name := range sortedKeys(sub.FormData) {
			if !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
		}
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := append([]string{"ID", "Submitted At"}, fields...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sub := range submissions {
		row := make([]string, 0, len(header))
		row = append(row, sub.ID, sub.SubmittedAt.UTC().Format(time.RFC3339))
		for _, name := range fields {
			row = append(row, stringify(sub.FormData[name]))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// map order is random; keep columns stable between exports
	sort.Strings(keys)
	return keys
}
