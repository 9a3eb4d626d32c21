package commands

import (
	"github.com/rankforge/site-backend/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate typed query helpers for the models",
	Long: `Generate gorm/gen query helpers for every model into --out.

Examples:
  site-backend generate                  # writes ./query
  site-backend generate --out ./internal/query`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		if err := models.GenerateQueries(db, generateOut); err != nil {
			return err
		}
		log.Info().Str("out", generateOut).Msg("query helpers generated")
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "./query", "Output directory")
	rootCmd.AddCommand(generateCmd)
}
