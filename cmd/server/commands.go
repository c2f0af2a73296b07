package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/platform/database"
	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"
	"github.com/phrazzld/tatame-api/internal/service"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Bool("skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if skip, _ := cmd.Flags().GetBool("skip-migrations"); !skip {
		if err := database.Migrate(ctx, db, database.CommandUp); err != nil {
			_ = db.Close()
			return err
		}
	}
	log.Info("database ready", slog.String("driver", db.Backend.Name))

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	for _, c := range []struct {
		name  string
		short string
		args  cobra.PositionalArgs
	}{
		{database.CommandUp, "Apply all pending migrations", cobra.NoArgs},
		{database.CommandDown, "Roll back the latest migration", cobra.NoArgs},
		{database.CommandStatus, "Show applied and pending migrations", cobra.NoArgs},
		{database.CommandVersion, "Print the current schema version", cobra.NoArgs},
		{database.CommandReset, "Roll back every migration", cobra.NoArgs},
		{database.CommandUpTo + " VERSION", "Apply migrations up to VERSION", cobra.ExactArgs(1)},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   c.name,
			Short: c.short,
			Args:  c.args,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd, cmd.Name(), args)
			},
		})
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, command string, args []string) error {
	ctx := cmd.Context()
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, command, args...); err != nil {
		return err
	}
	if command == database.CommandVersion {
		version, err := database.Version(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
	}
	return nil
}

func newTierCmd() *cobra.Command {
	tier := &cobra.Command{
		Use:   "tier",
		Short: "Manage subscription tiers",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Set an athlete's subscription tier",
		Long: "Set the subscription tier of the athlete registered with --email. " +
			"This is the only way a tier changes; the HTTP API never writes it.",
		Args: cobra.NoArgs,
		RunE: runTierSet,
	}
	set.Flags().String("email", "", "email of the athlete")
	set.Flags().String("tier", "", "new tier: free, active, expired or cancelled")
	_ = set.MarkFlagRequired("email")
	_ = set.MarkFlagRequired("tier")

	tier.AddCommand(set)
	return tier
}

func runTierSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	rawTier, _ := cmd.Flags().GetString("tier")

	tier, err := domain.ParseEnum[domain.Tier]("tier", rawTier)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	d := db.Backend.Dialect
	profiles, err := service.NewProfileService(
		sqlstore.NewProfileStore(db.DB, d, log),
		sqlstore.NewUserStore(db.DB, d, log),
		nil,
		log,
	)
	if err != nil {
		return err
	}

	profile, err := profiles.SetTier(ctx, email, tier)
	if err != nil {
		return fmt.Errorf("failed to set tier for %s: %w", email, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now on the %s tier\n", email, profile.Tier)
	return nil
}
