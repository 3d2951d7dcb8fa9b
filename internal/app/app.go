package app

import (
	"log/slog"
	"net/http"

	"quintro/internal/auth"
	"quintro/internal/config"
	httphandler "quintro/internal/http"
	"quintro/internal/realtime"
	"quintro/internal/service"
	"quintro/internal/store"
)

// Boot wires sessions, the store, the hub and HTTP routes, and returns the handler with a cleanup hook
func Boot(cfg config.Config, logger *slog.Logger) (http.Handler, func() error, error) {
	// Initializes session signing under the data dir
	sessions, err := auth.LoadSessions(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	// Opens the game database
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}

	games := service.New(st, st, realtime.NewHub(), logger, service.Defaults{
		Width:       cfg.DefaultWidth,
		Height:      cfg.DefaultHeight,
		PlayerLimit: cfg.DefaultPlayerLimit,
	})

	// Builds the HTTP router
	h := httphandler.NewRouter(httphandler.New(games, sessions, logger))
	return h, st.Close, nil
}
