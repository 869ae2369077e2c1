package shorturl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Tough-Day/conference-invites/config"
	"github.com/Tough-Day/conference-invites/log"
)

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		endpoint: cfg.ShortURLEndpoint,
		apiKey:   cfg.ShortURLKey,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

type shortenResponse struct {
	ShortURL    string `json:"shortUrl"`
	OriginalURL string `json:"originalUrl"`
}

// Shorten asks the short URL service for a compact alias of longURL. The
// service is optional: when unconfigured or failing, the original URL is
// returned and the failure only logged.
func (c *Client) Shorten(ctx context.Context, longURL string) string {
	if c.endpoint == "" || c.apiKey == "" {
		log.Debug("short URL service not configured, keeping original URL")
		return longURL
	}

	body, err := json.Marshal(map[string]string{"url": longURL})
	if err != nil {
		log.Warnf("shorturl.marshal: %v", err)
		return longURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Warnf("shorturl.request: %v", err)
		return longURL
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("shorturl.call: %v", err)
		return longURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("shorturl.call: %v", fmt.Errorf("service returned %d", resp.StatusCode))
		return longURL
	}

	var out shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.ShortURL == "" {
		log.Warnf("shorturl.decode: %v", err)
		return longURL
	}
	return out.ShortURL
}
