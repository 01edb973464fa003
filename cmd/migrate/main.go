package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate status --database-url postgres://...

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/telemetry"
)

const databaseURLKey = "database-url"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the interview database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(databaseURLKey, "", "Postgres connection string (defaults to DATABASE_URL)")
	_ = v.BindPFlag(databaseURLKey, root.PersistentFlags().Lookup(databaseURLKey))
	_ = v.BindEnv(databaseURLKey, "DATABASE_URL")

	root.AddCommand(
		withDB(v, &cobra.Command{Use: "up", Short: "Apply all pending migrations"}, func(ctx context.Context, sqlDB *sql.DB) error {
			if err := db.RunMigrations(ctx, sqlDB); err != nil {
				return err
			}
			return logVersion(ctx, sqlDB)
		}),
		withDB(v, &cobra.Command{Use: "down", Short: "Roll back the latest migration"}, func(ctx context.Context, sqlDB *sql.DB) error {
			if err := db.RollbackMigration(ctx, sqlDB); err != nil {
				return err
			}
			return logVersion(ctx, sqlDB)
		}),
		withDB(v, &cobra.Command{Use: "status", Short: "Print migration status"}, db.MigrationStatus),
		withDB(v, &cobra.Command{Use: "version", Short: "Print the current schema version"}, logVersion),
	)
	return root
}

func withDB(v *viper.Viper, cmd *cobra.Command, run func(context.Context, *sql.DB) error) *cobra.Command {
	cmd.Args = cobra.NoArgs
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		// picks up .env files as the API does
		config.Load()
		databaseURL := strings.TrimSpace(v.GetString(databaseURLKey))
		if databaseURL == "" {
			return errors.New("database url is required (--database-url or DATABASE_URL)")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sqlDB, err := db.Connect(ctx, databaseURL, db.OptionsFor(db.ProfileMigrate))
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return run(ctx, sqlDB)
	}
	return cmd
}

func logVersion(ctx context.Context, sqlDB *sql.DB) error {
	version, err := db.MigrationVersion(ctx, sqlDB)
	if err != nil {
		return err
	}
	telemetry.Info("migrate.version", map[string]any{"version": version})
	return nil
}
