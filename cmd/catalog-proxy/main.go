// Command catalog-proxy serves a filtered, locale-normalized view of the
// KENO product catalog with an in-process TTL cache in front of the vendor.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/keno-tools/catalog-proxy/internal/config"
	"github.com/keno-tools/catalog-proxy/internal/server"
	"github.com/keno-tools/catalog-proxy/pkg/cache"
	"github.com/keno-tools/catalog-proxy/pkg/catalog"
	"github.com/keno-tools/catalog-proxy/pkg/keno"
	"github.com/keno-tools/catalog-proxy/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Loads .env if present; real env always wins.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		fallback := logging.NewLogger("main")
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	}).With().Str("component", "main").Logger()

	spec, err := cfg.Match.Spec()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid match configuration")
	}

	clientCfg := keno.DefaultConfig(cfg.APIKey)
	clientCfg.Endpoint = cfg.Endpoint
	clientCfg.Timeout = cfg.RequestTimeout.Std()
	clientCfg.MaxAttempts = cfg.MaxAttempts

	client, err := keno.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create vendor client")
	}

	store := cache.NewStore()
	resolver := catalog.NewResolver(client, store, cfg.CategoryTTL.Std(), cfg.Locale)
	pipeline := catalog.NewPipeline(client, store, cfg.ProductTTL.Std(), cfg.Locale)

	srv := server.New(cfg, resolver, pipeline, spec)

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout.Std() + 10*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("listen", cfg.Listen).
			Str("endpoint", cfg.Endpoint).
			Str("spec", spec.String()).
			Dur("category_ttl", cfg.CategoryTTL.Std()).
			Dur("product_ttl", cfg.ProductTTL.Std()).
			Msg("Starting catalog proxy")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
}

// loadConfig reads the optional config file, then applies env overrides and
// validates the result.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path != "" {
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if err := config.LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
