package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"kitchensim/internal/api"
	"kitchensim/internal/catalog"
	"kitchensim/internal/coach"
	"kitchensim/internal/config"
	"kitchensim/internal/database"
	"kitchensim/internal/evaluation"
	"kitchensim/internal/kitchen"
	"kitchensim/internal/logger"
	"kitchensim/internal/monitoring"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	issueToken  = flag.String("issue-token", "", "Print a 24h player token for this user id and exit")
)

func main() {
	flag.Parse()

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *issueToken != "" {
		token, err := api.IssueToken([]byte(cfg.Auth.JWTSecret), *issueToken, cfg.Catalog.StoreID, 24*time.Hour)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}
	level := logger.ParseLevel(cfg.LogLevel)
	logs := logger.New(level, nil)
	if level < logger.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	store, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, logs)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	cat, err := loadCatalog(cfg, store, logs)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Initialize metrics collector
	metricsCollector := evaluation.NewMetricsCollector()
	monitor := monitoring.NewMonitor()
	hub := api.NewHub(logs)

	sessions := api.NewSessionManager(cat, logs,
		api.WithStore(store),
		api.WithMonitor(monitor),
		api.WithMetrics(metricsCollector),
		api.WithHub(hub),
		api.WithRetention(cfg.Game.Retention),
		api.WithSessionOptions(sessionOptions(cfg)...),
	)

	// Initialize API server
	kitchenAPI := api.NewKitchenAPI(sessions, cat, hub, []byte(cfg.Auth.JWTSecret), logs, api.Options{
		Coach:   initializeCoach(cfg.Coach, logs),
		Monitor: monitor,
		Metrics: metricsCollector,
	})

	runner := kitchen.NewRunner(sessions, logs,
		kitchen.WithInterval(cfg.Game.TickInterval),
		kitchen.WithOnTick(sessions.AfterTick),
	)
	runner.Start(ctx)

	// Start metrics server
	metricsServer := newMetricsServer(cfg.MetricsPort, metricsCollector)
	go func() {
		logs.Info("Starting metrics server on port %d", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logs.Error("Metrics server error: %v", err)
		}
	}()

	// Start API server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: kitchenAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logs.Info("Shutting down servers...")
		runner.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logs.Error("API server shutdown error: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logs.Error("Metrics server shutdown error: %v", err)
		}

		cancel()
	}()

	logs.Info("Starting API server on port %d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("API server error: %v", err)
	}
	<-ctx.Done()
}

// loadConfig reads the config file, falling back to defaults when it does
// not exist. Flags given on the command line win over the file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config %s not found, using defaults", path)
		cfg = config.Default()
		cfg.ApplyEnv()
	} else if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "metrics-port":
			cfg.MetricsPort = *metricsPort
		}
	})
	return cfg, cfg.Validate()
}

// loadCatalog reads the store export when one is configured and mirrors it
// into the database; otherwise the catalog saved for the store is used.
func loadCatalog(cfg *config.Config, store *database.Store, logs *logger.Logger) (*catalog.Catalog, error) {
	cat := catalog.New()
	if cfg.Catalog.Path != "" {
		stats, err := cat.LoadFile(cfg.Catalog.Path)
		if err != nil && cat.Len() == 0 {
			return nil, err
		}
		if err != nil {
			logs.Warn("Some recipes were skipped: %v", err)
		}
		logs.Info("Loaded %d recipes, %d ingredients, %d seasonings from %s",
			stats.Recipes, stats.Ingredients, stats.Seasonings, cfg.Catalog.Path)
		if cfg.Catalog.StoreID != "" {
			if err := store.SaveCatalog(cfg.Catalog.StoreID, cat); err != nil {
				logs.Warn("Failed to save catalog for store %s: %v", cfg.Catalog.StoreID, err)
			}
		}
		return cat, nil
	}

	stats, err := store.LoadCatalog(cfg.Catalog.StoreID, cat)
	if err != nil {
		return nil, err
	}
	if stats.Recipes == 0 {
		return nil, fmt.Errorf("store %s has no recipes", cfg.Catalog.StoreID)
	}
	logs.Info("Loaded %d recipes for store %s from the database", stats.Recipes, cfg.Catalog.StoreID)
	return cat, nil
}

func sessionOptions(cfg *config.Config) []kitchen.Option {
	opts := []kitchen.Option{
		kitchen.WithThermalConfig(cfg.Game.Thermal),
		kitchen.WithWashTiming(cfg.Game.Wash),
		kitchen.WithEvaluator(evaluation.NewEvaluator(cfg.Game.Thresholds, cfg.Game.Weights)),
		kitchen.WithServedGrace(cfg.Game.ServedGrace),
	}
	if cfg.Game.TargetMenus > 0 {
		opts = append(opts, kitchen.WithTargetMenus(cfg.Game.TargetMenus))
	}
	return opts
}

// initializeCoach returns nil when no model is configured, which turns the
// written debrief off.
func initializeCoach(cfg coach.Config, logs *logger.Logger) *coach.Coach {
	cfg, err := cfg.Resolve()
	if err != nil {
		logs.Warn("Debrief provider %q: %v", cfg.Provider, err)
		return nil
	}
	if !cfg.Enabled() {
		logs.Info("No debrief model configured")
		return nil
	}
	model, err := coach.NewModel(cfg)
	if err != nil {
		logs.Warn("Failed to initialize debrief model: %v", err)
		return nil
	}
	return coach.New(model, cfg)
}

func newMetricsServer(port int, mc *evaluation.MetricsCollector) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(mc.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}
}
