package main

import (
	"context"
	"delivery-status-service/internal/adapters/ingest"
	"delivery-status-service/internal/adapters/repositories"
	"delivery-status-service/internal/config"
	"delivery-status-service/internal/logger"
	"delivery-status-service/internal/platform/db"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:           "dbtool",
	Short:         "Manage the Postgres dataset tables",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the addresses, distances and packages tables",
	RunE:  initSchema,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the tables and load them from the CSV files",
	RunE:  seed,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	seedCmd.Flags().StringVar(&dataDir, "dir", "", "CSV directory (defaults to data.dir)")
	rootCmd.AddCommand(initCmd, seedCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	if strings.TrimSpace(cfg.Data.DatabaseURL) == "" {
		return nil, fmt.Errorf("data.database_url (or DATABASE_URL) is required")
	}
	return cfg, nil
}

func initSchema(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, cfg.Data.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")
	return nil
}

func seed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := dataDir
	if dir == "" {
		dir = cfg.Data.Dir
	}

	recs, err := ingest.NewCSVSource(dir).LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	// Building the dataset validates the rows before anything is written.
	if _, err := recs.Dataset(); err != nil {
		return fmt.Errorf("validate csv: %w", err)
	}

	conn, err := db.Open(ctx, cfg.Data.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	log.Info().Str("dir", dir).Msg("seeding database")
	if err := repositories.SeedFromRecords(ctx, conn, recs); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().
		Int("addresses", len(recs.Addresses)).
		Int("packages", len(recs.Packages)).
		Msg("seeding complete")
	return nil
}
