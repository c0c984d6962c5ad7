package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "catalog",
		Short:         "List the products on sale",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				return t.emit(t.listCatalog())
			})
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product to the current order",
		Long: `Add a catalog product to the order. Adding a product already on the
order increases its quantity. Quantity defaults to 1.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				q, err := strconv.Atoi(args[1])
				if err != nil {
					return NewExitError(ExitFailure, fmt.Sprintf("cantidad inválida %q", args[1]))
				}
				quantity = q
			}
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				r, err := t.addItem(ctx, args[0], quantity)
				if err != nil {
					return err
				}
				return t.emit(r)
			})
		},
	}
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <product-id>",
		Short:         "Remove a product line from the current order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				return t.emit(t.removeItem(ctx, args[0]))
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Empty the current order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				confirm := promptConfirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "¿Borrar la orden actual?")
				if yes {
					confirm = nil
				}
				return t.emit(t.clearOrder(ctx, confirm))
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the current order, totals and next invoice number",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				return t.emit(t.show())
			})
		},
	}
}
