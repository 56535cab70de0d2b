package main

import (
	"context"

	"clicktrail/internal/platform/config"
	"clicktrail/internal/platform/logger"
	phttp "clicktrail/internal/platform/net/http"
	"clicktrail/internal/platform/store"

	"clicktrail/internal/services/api"
	"clicktrail/internal/session"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	trackerCfg := root.Prefix("TRACKER_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + optional CH touch log)
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "clicktrail",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled: chCfg.MayBool("ENABLED", false),
				URL:     chCfg.MayString("DBURL", ""),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// visitor session store (reads TRACKER_SESSION_COOKIE / TRACKER_SESSION_TTL)
	sessions := session.NewStore(
		trackerCfg.MayString("SESSION_COOKIE", session.DefaultCookieName),
		trackerCfg.MayDuration("SESSION_TTL", 0),
	)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         trackerCfg,
			Store:          st,
			Sessions:       sessions,
			Logger:         l,
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
