package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/caja/internal/catalog"
	"github.com/roach88/caja/internal/config"
	"github.com/roach88/caja/internal/invoice"
	"github.com/roach88/caja/internal/logging"
	"github.com/roach88/caja/internal/receipt"
	"github.com/roach88/caja/internal/register"
	"github.com/roach88/caja/internal/store"
)

// till is one opened register with everything a command needs.
type till struct {
	cfg     *config.Config
	policy  invoice.TaxPolicy
	logger  *zap.Logger
	catalog *catalog.Catalog
	reg     *register.Register
	db      *store.Store
	out     *OutputFormatter
}

// unavailableSlots stands in for a database that could not be opened so
// the register degrades to memory-only through the usual path.
type unavailableSlots struct {
	err error
}

func (u unavailableSlots) Get(ctx context.Context, key string) ([]byte, error) { return nil, u.err }

func (u unavailableSlots) Put(ctx context.Context, key string, data []byte) error { return u.err }

// openTill loads config, logger, catalog and storage and restores the register.
func openTill(cmd *cobra.Command, opts *RootOptions) (*till, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Storage.Path = opts.Database
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.Build(logging.Options{
		Level:      level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}

	policy, err := cfg.TaxPolicy()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid tax configuration", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid timezone", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
	}

	t := &till{
		cfg:     cfg,
		policy:  policy,
		logger:  logger,
		catalog: cat,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}

	var slots register.Slots
	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		slots = unavailableSlots{err: err}
	} else {
		t.db = db
		slots = db
	}

	clock := opts.Clock
	if clock == nil {
		clock = register.SystemClock{Location: loc}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reg, err := register.Open(ctx, register.Options{
		Slots:            slots,
		Clock:            clock,
		IDs:              opts.IDs,
		Policy:           policy,
		CounterFloor:     cfg.Invoice.CounterFloor,
		ReconcileCounter: cfg.Invoice.ReconcileCounter,
		Logger:           logger,
	})
	if err != nil {
		t.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open register", err)
	}
	t.reg = reg

	t.out.VerboseLog("catalog: %d products, %s, database %s", cat.Len(), policy.Describe(), cfg.Storage.Path)
	if t.out.Verbose {
		keys := reg.SlotKeys(ctx)
		if keys == nil {
			t.out.VerboseLog("slots: none (storage unavailable)")
		} else {
			t.out.VerboseLog("slots: %s", strings.Join(keys, ", "))
		}
	}
	return t, nil
}

// Close releases the database and flushes the logger.
func (t *till) Close() error {
	_ = t.logger.Sync()
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}

// fail reports err in the configured format and maps it to an exit code.
// Rejected operator input exits 1, everything else exits 2.
func (t *till) fail(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var ie *invoice.Error
	if !errors.As(err, &ie) {
		return WrapExitError(ExitCommandError, "command failed", err)
	}
	if t.out.Format == "json" {
		_ = t.out.Error(string(ie.Code), ie.Message, ie.Details)
	}
	code := ExitCommandError
	if ie.UserInput() {
		code = ExitFailure
	}
	return &ExitError{Code: code, Err: err}
}

// business is the ticket header and footer from config.
func (t *till) business() receipt.Business {
	return receipt.Business{
		Name:    t.cfg.Business.Name,
		Address: t.cfg.Business.Address,
		Footer:  t.cfg.Business.Footer,
	}
}

// composer closes messages with the first footer line.
func (t *till) composer() receipt.Composer {
	var c receipt.Composer
	if len(t.cfg.Business.Footer) > 0 {
		c.Closing = t.cfg.Business.Footer[0]
	}
	return c
}

// runTill opens a till, runs fn and closes it.
func runTill(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, t *till) error) error {
	t, err := openTill(cmd, opts)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := fn(ctx, t); err != nil {
		return t.fail(err)
	}
	return nil
}

// emit writes an action result.
func (t *till) emit(r result) error {
	if err := t.out.Emit(r.data, r.text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
