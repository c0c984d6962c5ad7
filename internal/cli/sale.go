package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewChangeCommand creates the change command.
func NewChangeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "change <payment>",
		Short:         "Preview the change for a payment without finalizing",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				r, err := t.quote(args[0])
				if err != nil {
					return err
				}
				return t.emit(r)
			})
		},
	}
}

// FinalizeOptions holds flags for the finalize command.
type FinalizeOptions struct {
	*RootOptions
	Payment  string
	Client   string
	Contact  string
	NoTicket bool
}

// NewFinalizeCommand creates the finalize command.
func NewFinalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FinalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Take payment and record the current order as an invoice",
		Long: `Validate the order and payment, assign the next invoice number, append
the sale to today's ledger and clear the order.

A rejected finalize changes nothing. On success the ticket is written to the
output directory and, when a contact is given, a chat link is printed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				r, err := t.finalize(ctx, finalizeInput{
					Payment: opts.Payment,
					Client:  opts.Client,
					Contact: opts.Contact,
					Ticket:  !opts.NoTicket,
				})
				if err != nil {
					return err
				}
				return t.emit(r)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Payment, "payment", "p", "", "amount received")
	cmd.Flags().StringVar(&opts.Client, "client", "", "client name printed on the ticket")
	cmd.Flags().StringVar(&opts.Contact, "contact", "", "client phone number, digits only")
	cmd.Flags().BoolVar(&opts.NoTicket, "no-ticket", false, "do not write the ticket file")
	_ = cmd.MarkFlagRequired("payment")

	return cmd
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	var contact string

	cmd := &cobra.Command{
		Use:   "send [invoice-number]",
		Short: "Build the chat link for one of today's sales",
		Long: `Build the pre-filled chat link for a recorded sale, the latest one by
default. The contact stored with the sale is used unless --contact is given.
Sending never records a sale.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					return NewExitError(ExitFailure, fmt.Sprintf("número de factura inválido %q", args[0]))
				}
				n = v
			}
			return runTill(cmd, rootOpts, func(ctx context.Context, t *till) error {
				r, err := t.send(ctx, n, contact)
				if err != nil {
					return err
				}
				return t.emit(r)
			})
		},
	}

	cmd.Flags().StringVar(&contact, "contact", "", "phone number to send to, digits only")
	return cmd
}
