package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rankforge/site-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	envPath  string
	logLevel string
)

// rootCmd serves the API when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "site-backend",
	Short: "Content management API for the agency website",
	Long: `site-backend serves the admin content API (articles, authors, categories,
images and redirections) together with the public contact, newsletter and tool routes.

Without a subcommand it behaves like "serve".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", "", "Path of the .env file (overrides ENV_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "zerolog level (overrides LOG_LEVEL)")
}

// loadConfig reads the configuration and sets up the global logger from it.
func loadConfig(ctx context.Context) (map[string]string, error) {
	if envPath != "" {
		os.Setenv("ENV_PATH", envPath)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(c)
	return c, nil
}

func setupLogging(c map[string]string) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := logLevel
	if level == "" {
		level = config.GetString(c, "LOG_LEVEL", "info")
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}

	if config.GetString(c, "APP_ENV", "production") == "local" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Caller().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "site-backend").Logger()
}
