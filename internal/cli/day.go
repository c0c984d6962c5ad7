package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewSalesCommand creates the sales command.
func NewSalesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sales",
		Short:         "List today's sales, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				return t.emit(t.sales())
			})
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write today's sales to a CSV file",
		Long: `Write today's sales to sales_<date>.csv in the output directory.
Exits 1 when there is nothing to export.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				r, err := t.exportSales()
				if err != nil {
					return err
				}
				return t.emit(r)
			})
		},
	}
}

// NewResetSalesCommand creates the reset-sales command.
func NewResetSalesCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-sales",
		Short: "Discard today's sales ledger",
		Long: `Discard every sale recorded today. The invoice counter is not touched,
so numbering continues where it was.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				confirm := promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "¿Descartar todas las ventas de hoy?")
				if yes {
					confirm = func() bool { return true }
				}
				return t.emit(t.resetSales(ctx, confirm))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
