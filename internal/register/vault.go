package register

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/roach88/caja/internal/invoice"
	"github.com/roach88/caja/internal/store"
)

// Slots is the durable key/document contract implemented by store.Store and
// store.Memory.
type Slots interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Vault mediates every component's access to its slot.
//
// A Vault never returns storage errors to components. Absent or unreadable
// slots load as "not found" so the component starts from its initial state.
// The first failure of the storage itself degrades the Vault to memory-only:
// it is reported once through the logger and OnDegrade, after which no more
// reads or writes are attempted.
type Vault struct {
	slots  Slots
	logger *zap.Logger
	cause  error

	// OnDegrade, if set, is called once with the PERSISTENCE_UNAVAILABLE error.
	OnDegrade func(err error)
}

// NewVault wraps slots. A nil logger discards log output.
func NewVault(slots Slots, logger *zap.Logger) *Vault {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vault{slots: slots, logger: logger}
}

// Logger returns the vault's logger so components log to the same sink.
func (v *Vault) Logger() *zap.Logger {
	return v.logger
}

// Degraded returns the PERSISTENCE_UNAVAILABLE error once storage has failed,
// or nil while storage is healthy.
func (v *Vault) Degraded() error {
	return v.cause
}

// Load decodes the slot into dst and reports whether it did.
// dst must not be used when Load returns false.
func (v *Vault) Load(ctx context.Context, key string, dst any) bool {
	if v.cause != nil {
		return false
	}

	data, err := v.slots.Get(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return false
	case errors.Is(err, store.ErrCorrupt):
		v.logger.Warn("slot unreadable, starting from initial state",
			zap.String("slot", key), zap.Error(err))
		return false
	default:
		v.degrade(key, err)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		v.logger.Warn("slot unreadable, starting from initial state",
			zap.String("slot", key), zap.Error(err))
		return false
	}
	return true
}

// Save encodes src into the slot. Failures degrade the vault.
func (v *Vault) Save(ctx context.Context, key string, src any) {
	if v.cause != nil {
		return
	}

	data, err := json.Marshal(src)
	if err != nil {
		v.degrade(key, err)
		return
	}
	if err := v.slots.Put(ctx, key, data); err != nil {
		v.degrade(key, err)
	}
}

// keyLister is implemented by slot stores that can enumerate their keys.
type keyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Keys lists the slots present in storage in key order. It returns nil once
// the vault is degraded or when the storage cannot enumerate its keys.
func (v *Vault) Keys(ctx context.Context) []string {
	if v.cause != nil {
		return nil
	}
	lister, ok := v.slots.(keyLister)
	if !ok {
		return nil
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		v.logger.Warn("slot listing failed", zap.Error(err))
		return nil
	}
	return keys
}

func (v *Vault) degrade(key string, err error) {
	if v.cause != nil {
		return
	}
	v.cause = invoice.NewPersistenceError(key, err)
	v.logger.Warn("durable storage unavailable, continuing in memory only",
		zap.String("slot", key), zap.Error(err))
	if v.OnDegrade != nil {
		v.OnDegrade(v.cause)
	}
}
