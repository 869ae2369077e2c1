package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Tough-Day/conference-invites/app"
	"github.com/Tough-Day/conference-invites/config"
	"github.com/Tough-Day/conference-invites/database"
	"github.com/Tough-Day/conference-invites/httpx"
	"github.com/Tough-Day/conference-invites/hubspot"
	"github.com/Tough-Day/conference-invites/log"
	"github.com/Tough-Day/conference-invites/routes"
	"github.com/Tough-Day/conference-invites/shorturl"
	"github.com/Tough-Day/conference-invites/workerpool"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	if cfg.CreateAdmin != "" {
		user, pass, ok := strings.Cut(cfg.CreateAdmin, ":")
		if !ok || user == "" || pass == "" {
			log.Fatal("main.create_admin: expected email:password")
		}
		if err := database.UpsertUser(db, user, pass); err != nil {
			log.Fatal("main.create_admin:", err)
		}
		log.Info("admin user created: " + user)
		return
	}

	poolCtx, stopPool := context.WithCancel(context.Background())
	pool := workerpool.New(poolCtx, 2, 256)
	defer func() {
		stopPool()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool.Shutdown(shutdownCtx)
	}()

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Pool:         pool,
		ShortURL:     shorturl.NewClient(cfg),
		HubSpot:      hubspot.NewClient(cfg.HubSpotKey),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
