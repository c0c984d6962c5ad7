package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/caja/internal/invoice"
)

const sessionHelp = `comandos:
  catalog                                   lista de productos
  add <id> [cantidad]                       agregar un producto
  remove <id>                               quitar una línea de la orden
  clear                                     vaciar la orden
  show                                      orden actual y totales
  change <pago>                             calcular el vuelto
  finalize <pago> [contact=N] [cliente]     registrar la venta
  send [factura] [contacto]                 enlace de chat de una venta
  sales                                     ventas del día
  export                                    exportar las ventas del día a CSV
  reset                                     descartar las ventas del día
  help                                      esta ayuda
  quit                                      salir`

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Run an interactive register session",
		Long: `Read register commands from standard input, one per line, against a
single open register. The prompt is shown only on a terminal, so a session
can also be scripted by piping commands in.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTill(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer t.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s := &session{
				till:   t,
				in:     bufio.NewScanner(cmd.InOrStdin()),
				prompt: isTerminal(cmd.InOrStdin()),
			}
			return s.run(ctx)
		},
	}
}

// session is the read-eval loop over one till.
type session struct {
	till   *till
	in     *bufio.Scanner
	prompt bool
}

func (s *session) run(ctx context.Context) error {
	out := s.till.out
	if err := s.till.reg.Degraded(); err != nil {
		fmt.Fprintln(out.GetErrWriter(), "AVISO: almacenamiento no disponible, no se está guardando nada")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt {
			fmt.Fprint(out.GetErrWriter(), "caja> ")
		}
		if !s.in.Scan() {
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		name, args := strings.ToLower(fields[0]), fields[1:]
		if name == "quit" || name == "exit" {
			return nil
		}
		r, err := s.exec(ctx, name, args)
		if err != nil {
			s.report(err)
			continue
		}
		if err := s.till.emit(r); err != nil {
			return err
		}
	}
}

func (s *session) exec(ctx context.Context, name string, args []string) (result, error) {
	t := s.till
	switch name {
	case "help":
		return result{data: strings.Split(sessionHelp, "\n")[1:], text: sessionHelp}, nil
	case "catalog":
		return t.listCatalog(), nil
	case "add":
		if len(args) < 1 || len(args) > 2 {
			return result{}, errors.New("uso: add <id> [cantidad]")
		}
		quantity := 1
		if len(args) == 2 {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return result{}, fmt.Errorf("cantidad inválida %q", args[1])
			}
			quantity = q
		}
		return t.addItem(ctx, args[0], quantity)
	case "remove":
		if len(args) != 1 {
			return result{}, errors.New("uso: remove <id>")
		}
		return t.removeItem(ctx, args[0]), nil
	case "clear":
		return t.clearOrder(ctx, s.confirm("¿Borrar la orden actual?")), nil
	case "show":
		return t.show(), nil
	case "change":
		if len(args) != 1 {
			return result{}, errors.New("uso: change <pago>")
		}
		return t.quote(args[0])
	case "finalize":
		if len(args) < 1 {
			return result{}, errors.New("uso: finalize <pago> [contact=N] [cliente]")
		}
		return t.finalize(ctx, parseFinalizeArgs(args))
	case "send":
		n, contact, err := parseSendArgs(args)
		if err != nil {
			return result{}, err
		}
		return t.send(ctx, n, contact)
	case "sales":
		return t.sales(), nil
	case "export":
		return t.exportSales()
	case "reset":
		return t.resetSales(ctx, s.confirm("¿Descartar todas las ventas de hoy?")), nil
	default:
		return result{}, fmt.Errorf("comando desconocido %q (pruebe help)", name)
	}
}

// report prints err and keeps the session going.
func (s *session) report(err error) {
	out := s.till.out
	var ie *invoice.Error
	if errors.As(err, &ie) {
		_ = out.Error(string(ie.Code), ie.Message, ie.Details)
		return
	}
	_ = out.Error("ERROR", err.Error(), nil)
}

// confirm asks on the error stream and reads the answer from the next line.
func (s *session) confirm(question string) func() bool {
	return func() bool {
		fmt.Fprintf(s.till.out.GetErrWriter(), "%s [s/N] ", question)
		if !s.in.Scan() {
			return false
		}
		return isYes(s.in.Text())
	}
}

// parseFinalizeArgs reads "<payment> [contact=N] [client words...]".
func parseFinalizeArgs(args []string) finalizeInput {
	in := finalizeInput{Payment: args[0], Ticket: true}
	var client []string
	for _, a := range args[1:] {
		if v, ok := strings.CutPrefix(a, "contact="); ok {
			in.Contact = v
			continue
		}
		client = append(client, a)
	}
	in.Client = strings.Join(client, " ")
	return in
}

// parseSendArgs reads "[invoice] [contact]". A lone argument longer than an
// invoice number could plausibly be is taken as the contact.
func parseSendArgs(args []string) (int, string, error) {
	switch len(args) {
	case 0:
		return 0, "", nil
	case 1:
		if len(args[0]) > 6 {
			return 0, args[0], nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return 0, "", fmt.Errorf("número de factura inválido %q", args[0])
		}
		return n, "", nil
	case 2:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return 0, "", fmt.Errorf("número de factura inválido %q", args[0])
		}
		return n, args[1], nil
	default:
		return 0, "", errors.New("uso: send [factura] [contacto]")
	}
}

// promptConfirm asks once and reads a single answer line from in.
func promptConfirm(in io.Reader, out io.Writer, question string) func() bool {
	return func() bool {
		fmt.Fprintf(out, "%s [s/N] ", question)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		return isYes(line)
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
