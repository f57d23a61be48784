package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/webostools/tvbridge/internal/api"
	"github.com/webostools/tvbridge/internal/client"
	"github.com/webostools/tvbridge/internal/commands"
	"github.com/webostools/tvbridge/internal/config"
	"github.com/webostools/tvbridge/internal/keystore"
	"github.com/webostools/tvbridge/internal/logx"
	"github.com/webostools/tvbridge/internal/metrics"
	"github.com/webostools/tvbridge/internal/watchdog"
)

var (
	version   = "dev"
	buildSHA  = "unknown"
	buildDate = "unknown"
)

func main() {
	var cfg config.Config
	if err := cfg.BindFlags(); err != nil {
		logx.Log.Fatal().Err(err).Msg("load configuration")
	}
	flag.Parse()
	logx.Configure(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logx.Log.Fatal().Err(err).Msg("invalid configuration")
	}

	metrics.Register(prometheus.DefaultRegisterer)
	metrics.SetBuildInfo(version, buildSHA, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := keystore.New(cfg.KeyDir)
	tv := client.New(client.Options{
		Addr:        cfg.TVAddr,
		Port:        cfg.TVPort,
		TLS:         cfg.TLS,
		TLSInsecure: cfg.TLSInsecure,
	}, store)
	facade := commands.New(tv)
	wd := watchdog.New(facade, cfg.WatchdogInterval, cfg.WatchdogQuirkTriple)

	go func() {
		if err := tv.Run(ctx); err != nil && ctx.Err() == nil {
			logx.Log.Error().Err(err).Msg("tv session ended")
			stop()
		}
	}()

	if cfg.WatchdogOutput != "" {
		if err := wd.Start(cfg.WatchdogOutput); err != nil {
			logx.Log.Fatal().Err(err).Msg("start watchdog")
		}
	}
	defer wd.Stop()

	router := api.NewRouter(api.Deps{
		TV:       facade,
		Status:   tv.Status,
		Watchdog: wd,
		TVMAC:    cfg.TVMAC,
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	logx.Log.Info().Str("tv", cfg.TVAddr).Int("port", cfg.Port).Str("version", version).Msg("tvbridge starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logx.Log.Fatal().Err(err).Msg("http server exited")
	}
}
