package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rankforge/site-backend/api"
	"github.com/rankforge/site-backend/config"
	"github.com/rankforge/site-backend/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server until SIGINT or SIGTERM, then drain connections for up to
SHUTDOWN_TIMEOUT_SECONDS (default 30).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply schema migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log.Info().Msg("Initializing app...")

	gormDB, err := openDatabase(c)
	if err != nil {
		return err
	}
	db := database.New(gormDB)
	if migrateOnStart || config.GetBool(c, "AUTO_MIGRATE", false) {
		if err := db.Migrate(); err != nil {
			return err
		}
		log.Info().Msg("schema migrated")
	}

	deps, err := buildDependencies(ctx, c, db)
	if err != nil {
		return err
	}

	server, err := api.NewServer(deps, c)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		errChannel := make(chan error, 1)
		go server.Start(errChannel)
		select {
		case err := <-errChannel:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Closing server")
		server.ShutdownGracefully(config.GetSeconds(c, "SHUTDOWN_TIMEOUT_SECONDS", 30))
		return nil
	})

	return g.Wait()
}
