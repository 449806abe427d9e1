package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/estatedesk/admin/modules/projects/services"
	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/configuration"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write projects and professionals to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			pool, err := connectDB(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			app, err := newApp(conf, pool)
			if err != nil {
				return err
			}
			exportService := app.Service(services.ExportService{}).(*services.ExportService)

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			ctx := composables.WithPool(cmd.Context(), pool)
			if err := exportService.Export(ctx, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "projects.xlsx", "output file")
	return cmd
}
