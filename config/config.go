package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DBUrl       string
	BaseURL     string
	TokenSecret string
	TokenTTL    time.Duration
	AdminDomain string

	ShortURLEndpoint string
	ShortURLKey      string
	HubSpotKey       string

	CreateAdmin string
	Debug       bool
}

// ParseFlags reads configuration from command-line flags, with an optional
// .env file providing defaults for the secrets that should not appear in a
// process listing.
func ParseFlags() (cfg Config, err error) {
	_ = godotenv.Load()

	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.DBUrl, "db-url", "conferences.sqlite", "path to SQLite3 DB file (default conferences.sqlite)")
	flag.StringVar(&cfg.BaseURL, "base-url", envOr("FRONTEND_URL", "http://localhost:3000"), "public base URL for form links")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("TOKEN_SECRET"), "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 120, "token TTL in seconds (default 120)")
	flag.StringVar(&cfg.AdminDomain, "admin-domain", os.Getenv("ADMIN_DOMAIN"), "email domain allowed to log in (empty = any)")
	flag.StringVar(&cfg.ShortURLEndpoint, "shorturl-endpoint", os.Getenv("SHORT_URL_API_ENDPOINT"), "short URL service endpoint")
	flag.StringVar(&cfg.ShortURLKey, "shorturl-key", os.Getenv("SHORT_URL_API_KEY"), "short URL service API key")
	flag.StringVar(&cfg.HubSpotKey, "hubspot-key", os.Getenv("HUBSPOT_API_KEY"), "HubSpot private app token")
	flag.StringVar(&cfg.CreateAdmin, "create-admin", "", "create an admin user (email:password) and exit")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
