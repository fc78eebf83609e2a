package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"odosight/internal/infrastructure/storage"
)

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Применить миграции базы данных",
	Long:    `Применяет встроенные миграции к базе DATABASE_URI (SQLite-файл или postgres://).`,
	PreRunE: setup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := storage.Connect(cmd.Context(), cfg.DB.URI, log)
		if err != nil {
			return err
		}
		defer st.Close()

		version, err := st.Migrate()
		if err != nil {
			return err
		}

		color.Green("✓ %s schema is at version %d", st.Backend(), version)
		return nil
	},
}
