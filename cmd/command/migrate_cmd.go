package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/estatedesk/admin/pkg/configuration"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply the embedded module schemas with goose",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "up", "down", "status":
			default:
				return fmt.Errorf("unknown migrate command %q", args[0])
			}

			conf := configuration.Use()
			ctx := cmd.Context()
			pool, err := connectDB(ctx, conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			app, err := newApp(conf, pool)
			if err != nil {
				return err
			}
			db := stdlib.OpenDBFromPool(pool)
			defer func() { _ = db.Close() }()

			if err := app.Migrations().Run(ctx, db, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", args[0])
			return nil
		},
	}
	return cmd
}
