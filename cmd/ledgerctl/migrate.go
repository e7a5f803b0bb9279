package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL (embebidas en el binario)",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(cmd, m)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica todas las migraciones pendientes",
			RunE: withMigrator(func(_ *cobra.Command, m *postgres.Migrator) error {
				return m.Up()
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte todas las migraciones",
			RunE: withMigrator(func(_ *cobra.Command, m *postgres.Migrator) error {
				return m.Down()
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión actual del esquema",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
				return nil
			}),
		},
	)
	return cmd
}
