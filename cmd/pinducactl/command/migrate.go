package command

import (
	"context"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pinduca/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		migrateSubcommand("up", "Apply every pending migration", database.MigrateUp),
		migrateSubcommand("down", "Roll back the most recent migration", database.MigrateDown),
		migrateSubcommand("status", "Show applied and pending migrations", database.MigrationStatus),
	)
	return cmd
}

func migrateSubcommand(use, short string, run func(context.Context, *gorm.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			return run(cmd.Context(), s.db)
		},
	}
}
