package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/Tough-Day/conference-invites/config"
	"github.com/Tough-Day/conference-invites/hubspot"
	"github.com/Tough-Day/conference-invites/shorturl"
	"github.com/Tough-Day/conference-invites/workerpool"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Pool     *workerpool.Pool
	ShortURL *shorturl.Client
	HubSpot  *hubspot.Client
}
