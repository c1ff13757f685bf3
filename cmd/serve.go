package main

import (
	"context"

	"github.com/desertthunder/banger/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}

	api := server.NewAPI(server.APIOpts{
		Songs:       r.catalog(r.config.Database.SongsPath),
		Stats:       r.catalog(r.config.Database.StatsPath),
		Logger:      r.logger,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
	})

	r.logger.Info("starting API",
		"songs", r.config.Database.SongsPath,
		"stats", r.config.Database.StatsPath,
		"addr", cfg.Addr(),
	)
	return server.NewServer(cfg.Addr(), api, r.logger).ListenAndServe(ctx)
}
