package main

import (
	"context"
	"database/sql"
	"delivery-status-service/internal/adapters/ingest"
	"delivery-status-service/internal/adapters/repositories"
	"delivery-status-service/internal/api"
	"delivery-status-service/internal/config"
	"delivery-status-service/internal/logger"
	"delivery-status-service/internal/platform/db"
	"delivery-status-service/internal/ports"
	"delivery-status-service/internal/services"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Serve package routing and point-in-time delivery status",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// run is the application composition root.
// It wires the configured dataset source behind the engine and starts the HTTP server.
func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	fleet, err := cfg.Fleet.ToFleet()
	if err != nil {
		return fmt.Errorf("fleet: %w", err)
	}

	source, closeSource, err := openSource(ctx, cfg.Data)
	if err != nil {
		return err
	}
	defer closeSource()

	engine := services.NewEngine(source, fleet, services.WithLogger(logger.Component("engine")))

	// A bad dataset at startup is fatal; later reloads keep the last good snapshot.
	if _, err := engine.Reload(ctx); err != nil {
		return fmt.Errorf("initial planning run: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           api.NewRouter(engine),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("source", cfg.Data.Source).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openSource(ctx context.Context, cfg config.DataConfig) (ports.DatasetSource, func(), error) {
	switch cfg.Source {
	case "postgres":
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresDatasetSource(conn), closeDB(conn), nil
	default:
		return ingest.NewCSVSource(cfg.Dir), func() {}, nil
	}
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
}
