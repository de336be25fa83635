package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncobase/gqltable/config"
	"github.com/ncobase/gqltable/handler"
	"github.com/ncobase/gqltable/log"
	"github.com/ncobase/gqltable/metrics"
	"github.com/ncobase/gqltable/query"
	"github.com/ncobase/gqltable/search"
	"github.com/ncobase/gqltable/snapshot"
	"github.com/ncobase/gqltable/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/gqltable/search/elasticsearch"
	_ "github.com/ncobase/gqltable/search/meilisearch"
	_ "github.com/ncobase/gqltable/search/opensearch"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve table records and page changes over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	cleanup, err := log.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer cleanup()
	log.SetVersion(version.Get().Version)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, err := snapshot.Open(ctx, cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf(ctx, "close snapshot store: %v", err)
		}
	}()

	adapters, err := search.OpenAdapters(cfg.Search)
	if err != nil {
		return err
	}
	client := search.NewClient(ctx, cfg.Search, adapters,
		search.WithCollector(m),
		search.WithDefaultPageSize(cfg.Table.PageSize),
	)
	if client.Engine() == "" {
		log.Warnf(ctx, "no healthy search engine among %d configured, records requests will fail", len(adapters))
	} else {
		log.Infof(ctx, "using search engine %s", client.Engine())
	}

	tz, err := cfg.Table.Location()
	if err != nil {
		return fmt.Errorf("table timezone: %w", err)
	}
	h := handler.New(handler.Options{
		Fetcher:        client,
		Store:          store,
		Serializer:     query.NewSerializer(query.WithLocation(tz)),
		Metrics:        m,
		Gatherer:       reg,
		PageSize:       cfg.Table.PageSize,
		Mode:           cfg.RunMode,
		DisableMetrics: !cfg.Server.Metrics,
	})

	config.Watch(func(c *config.Config) {
		log.StandardLogger().SetLevel(logrus.Level(c.Logger.Level))
		log.Infof(context.Background(), "configuration reloaded")
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof(ctx, "listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Infof(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
