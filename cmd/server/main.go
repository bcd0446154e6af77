/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the booking engine server. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read environment configuration, then command-line flag overrides
  2. Initialize SQLite store and seed default settings
  3. Assemble the engine and API handler
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

CONFIGURATION (environment, BOOKING_ prefix):
  BOOKING_PORT                    HTTP server port (default: 8080)
  BOOKING_DB_PATH                 SQLite database path (default: booking.db)
                                  Use ":memory:" for an in-memory database
  BOOKING_CURRENCY                Quote currency (default: EUR)
  BOOKING_DEFAULT_PRICE           Fallback nightly price (default: 100)
  BOOKING_DEPOSIT_PERCENT         Default deposit percentage (default: 30)
  BOOKING_EARLY_BIRD_ENABLED      Early-bird pricing on/off (default: false)
  BOOKING_EARLY_BIRD_WINDOW_DAYS  Early-bird window in days (default: 30)

COMMAND-LINE FLAGS:
  -port    Overrides BOOKING_PORT
  -db      Overrides BOOKING_DB_PATH

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/booking.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
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

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ohmevents/aiohm-booking-pro-sub004/api"
	"github.com/ohmevents/aiohm-booking-pro-sub004/booking"
	"github.com/ohmevents/aiohm-booking-pro-sub004/store/sqlite"
)

// Config is the server's environment configuration.
type Config struct {
	Port                int    `envconfig:"PORT" default:"8080"`
	DBPath              string `envconfig:"DB_PATH" default:"booking.db"`
	Currency            string `envconfig:"CURRENCY" default:"EUR"`
	DefaultPrice        string `envconfig:"DEFAULT_PRICE" default:"100"`
	DepositPercent      int    `envconfig:"DEPOSIT_PERCENT" default:"30"`
	EarlyBirdEnabled    bool   `envconfig:"EARLY_BIRD_ENABLED" default:"false"`
	EarlyBirdWindowDays int    `envconfig:"EARLY_BIRD_WINDOW_DAYS" default:"30"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg Config
	if err := envconfig.Process("booking", &cfg); err != nil {
		logger.Fatal("failed to read configuration", zap.Error(err))
	}

	// Flag overrides
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	st, err := sqlite.New(*dbPath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer st.Close()

	// Seed settings from configuration when the database carries none yet.
	if err := seedSettings(context.Background(), st, cfg); err != nil {
		logger.Warn("failed to seed settings", zap.Error(err))
	}

	// Assemble engine
	engine := booking.NewEngine(booking.Config{
		Statuses:  st,
		Overrides: st,
		Prices:    st,
		Units:     st,
		Settings:  st,
		Bookings:  st,
		Logger:    logger,
	})

	// Create router
	handler := api.NewHandler(engine, logger)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.Int("port", *port),
			zap.String("db", *dbPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// seedSettings writes the configured defaults when no settings row exists
// yet. An existing row wins: operators tune settings through the API.
func seedSettings(ctx context.Context, st *sqlite.Store, cfg Config) error {
	exists, err := st.HasSettings(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	price, err := decimal.NewFromString(cfg.DefaultPrice)
	if err != nil {
		price = booking.DefaultSettings().DefaultPrice
	}
	return st.PutSettings(ctx, booking.Settings{
		Currency:       cfg.Currency,
		DefaultPrice:   price,
		DepositPercent: cfg.DepositPercent,
		EarlyBird: booking.EarlyBirdPolicy{
			Enabled:    cfg.EarlyBirdEnabled,
			WindowDays: cfg.EarlyBirdWindowDays,
		},
	})
}
