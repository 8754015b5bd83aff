// @title         RiskGate Ingestion API
// @version       0.1.0
// @description   Authenticated ingestion endpoints for financial record batches

package main

import (
	"context"

	"riskgate/internal/platform/config"
	"riskgate/internal/platform/logger"
	phttp "riskgate/internal/platform/net/http"
	"riskgate/internal/platform/net/middleware"
	"riskgate/internal/platform/store"

	ingestmod "riskgate/internal/services/ingest/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	blobCfg := root.Prefix("BLOB_")             // blobCfg lives under BLOB_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	// bring up logging early
	l := logger.Get()

	svcCfg := ingestmod.FromConf(root)

	// open the platform store (object store + CH event bus)
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "riskgate",
			Blob: store.BlobConfig{
				Enabled:   true,
				Backend:   store.BlobBackend(blobCfg.MayString("BACKEND", "fs")),
				Container: svcCfg.Container,
				FSRoot:    blobCfg.MayString("FS_ROOT", "./data"),
				PGURL:     root.Prefix("SERVICE_PGSQL_").MayString("DBURL", ""),
				MaxConns:  int32(blobCfg.MayInt("MAX_CONNS", 4)),
			},
			Bus: store.BusConfig{
				Enabled:    chCfg.MayBool("ENABLED", chCfg.MayString("DBURL", "") != ""),
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "riskgate",
				ClientTag:  "api",
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

	if err := st.Bootstrap(context.Background(), svcCfg.Topic); err != nil {
		l.Panic().Err(err).Msg("store bootstrap failed")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)
	r := srv.Router()

	r.Use(middleware.Defaults()...)
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{}))
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: apiCfg.MayStrings("CORS_ORIGINS", []string{"*"}),
	}))

	phttp.MountSwagger(r, apiCfg.MayBool("SWAGGER", true))
	phttp.MountProfiler(r, "/debug", apiCfg.MayBool("PROFILER", false))

	mod := ingestmod.New(st, svcCfg, ingestmod.WithVersion("0.1.0"))
	mod.MountRoutes(r)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
