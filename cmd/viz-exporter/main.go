// viz-exporter connects to a node, identifies the network, and serves chain
// health and RPC client metrics over HTTP for Prometheus to scrape.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	viz "github.com/vizchain/viz-go"
	"github.com/vizchain/viz-go/internal/config"
	"github.com/vizchain/viz-go/internal/log"
	"github.com/vizchain/viz-go/internal/metrics"
	"github.com/vizchain/viz-go/pkg/cache"
	"github.com/vizchain/viz-go/rpc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewSugar(cfg.Env, "viz-exporter")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting viz-exporter",
		"env", cfg.Env,
		"node", cfg.NodeURL,
		"addr", cfg.Exporter.HTTPAddr,
	)

	metricsObj, metricsHandler, err := metrics.Setup("viz-exporter")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	store, err := cache.New(cache.Config{
		Backend:  cache.Backend(cfg.Cache.Backend),
		RedisURL: cfg.Cache.RedisURL,
	})
	if err != nil {
		logger.Fatalw("Failed to setup cache", "error", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := viz.Dial(ctx, cfg.NodeURL,
		viz.WithDefaultAccount(cfg.DefaultAccount),
		viz.WithCache(metricsObj.InstrumentStore(store), cfg.Cache.AccountTTL),
		viz.WithLogger(logger),
		viz.WithRPCOptions(rpc.Options{
			ConnectTimeout: cfg.RPC.ConnectTimeout,
			CallTimeout:    cfg.RPC.CallTimeout,
			NumRetries:     &cfg.RPC.NumRetries,
			RateLimit:      rate.Limit(cfg.RPC.RateLimitRPS),
			Observer:       metricsObj,
			Logger:         logger,
		}),
	)
	if err != nil {
		logger.Fatalw("Failed to connect to node", "error", err)
	}
	defer client.Close()

	logger.Infow("Connected", "network", client.Params().Name, "chain_id", client.Params().ChainID)

	go pollHead(ctx, client, metricsObj, cfg.Exporter.PollInterval, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Exporter.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if _, err := client.Info(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Get("/v1/status", func(w http.ResponseWriter, req *http.Request) {
		dgp, err := client.Info(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"network":    client.Params().Name,
			"chain_id":   client.Params().ChainID,
			"properties": dgp,
		})
	})
	r.Handle("/metrics", metricsHandler)

	srv := &http.Server{
		Addr:              cfg.Exporter.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("Serving", "addr", cfg.Exporter.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalw("HTTP server failed", "error", err)
	}
	logger.Info("Shut down")
}

// pollHead keeps the head-block gauge fresh.
func pollHead(ctx context.Context, client *viz.Client, m *metrics.Metrics, interval time.Duration, logger *zap.SugaredLogger) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dgp, err := client.Info(ctx)
			if err != nil {
				logger.Warnw("head poll failed", "error", err)
				continue
			}
			m.RecordHeadBlock(int64(dgp.HeadBlockNumber))
		}
	}
}
