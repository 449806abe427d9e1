package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/estatedesk/admin/modules"
	"github.com/estatedesk/admin/modules/projects"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/configuration"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "command",
		Short:         "Maintenance commands for the estatedesk admin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

func Execute() {
	err := newRootCmd().Execute()
	configuration.Use().Unload()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func connectDB(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

// newApp registers the modules without starting any background work.
func newApp(conf *configuration.Configuration, pool *pgxpool.Pool) (application.Application, error) {
	app := application.New(&application.ApplicationOptions{
		Pool:   pool,
		Logger: conf.Logger(),
	})
	err := modules.Load(app, modules.BuiltInModules(&projects.ModuleOptions{
		Forms:            conf.Forms,
		UploadsPath:      conf.UploadsPath,
		UploadsURLPrefix: conf.UploadsURLPrefix,
	})...)
	return app, err
}
