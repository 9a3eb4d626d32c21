package commands

import (
	"os"

	"github.com/rankforge/site-backend/database"
	"github.com/rankforge/site-backend/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	Long:  `Auto-migrate every table and index, then print any remaining column drift.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("schema migrated")

		drift, err := models.ColumnReport(db, os.Stdout)
		if err != nil {
			return err
		}
		if drift > 0 {
			log.Warn().Int("columns", drift).Msg("column drift remains after migration")
		}
		return nil
	},
}

var columnReportCmd = &cobra.Command{
	Use:   "column-report",
	Short: "Compare table columns with the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		_, err = models.ColumnReport(db, os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(columnReportCmd)
}
