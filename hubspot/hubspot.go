package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Tough-Day/conference-invites/model"
)

const batchCreateURL = "https://api.hubapi.com/crm/v3/objects/contacts/batch/create"

type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type contact struct {
	Properties map[string]any `json:"properties"`
}

// ExportContacts batch-creates one HubSpot contact per submission, mapping
// the well-known form field names onto standard contact properties and
// passing everything else through as custom properties.
func (c *Client) ExportContacts(ctx context.Context, submissions []model.Submission) error {
	if c.apiKey == "" {
		return errors.New("HubSpot API key not configured")
	}

	contacts := make([]contact, 0, len(submissions))
	for _, sub := range submissions {
		props := map[string]any{
			"email":     firstOf(sub.FormData, "email"),
			"firstname": firstOf(sub.FormData, "firstName", "first_name"),
			"lastname":  firstOf(sub.FormData, "lastName", "last_name"),
			"company":   firstOf(sub.FormData, "company"),
		}
		for k, v := range sub.FormData {
			props[k] = v
		}
		contacts = append(contacts, contact{Properties: props})
	}

	body, err := json.Marshal(map[string]any{"inputs": contacts})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, batchCreateURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("HubSpot API returned %d", resp.StatusCode)
	}
	return nil
}

func firstOf(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return ""
}
