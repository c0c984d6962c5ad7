package register

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const counterSlot = "counter"

type counterState struct {
	Value          int    `json:"value"`
	LastActiveDate string `json:"last_active_date"`
}

// Counter is the day-scoped invoice number.
//
// The value starts at the configured floor on the first use of a calendar
// day and grows by exactly one per Advance. Counter is not safe for
// concurrent callers.
type Counter struct {
	vault *Vault
	floor int
	state counterState
}

// OpenCounter restores the counter and applies the day-rollover rule:
//   - no stored date: start at floor, tag today
//   - stored date != today: reset to floor, tag today
//   - stored date == today: keep the stored value
//
// The rule is evaluated only here, never mid-session.
func OpenCounter(ctx context.Context, vault *Vault, clock Clock, floor int) (*Counter, error) {
	if floor < 0 {
		return nil, fmt.Errorf("open counter: floor must be >= 0, got %d", floor)
	}

	c := &Counter{vault: vault, floor: floor}
	today := Today(clock)

	var stored counterState
	found := vault.Load(ctx, counterSlot, &stored)
	switch {
	case !found || stored.LastActiveDate == "":
		c.state = counterState{Value: floor, LastActiveDate: today}
		c.persist(ctx)
	case stored.LastActiveDate != today:
		vault.Logger().Info("new day, invoice counter reset",
			zap.String("previous_date", stored.LastActiveDate),
			zap.String("date", today),
			zap.Int("floor", floor))
		c.state = counterState{Value: floor, LastActiveDate: today}
		c.persist(ctx)
	case stored.Value < floor:
		vault.Logger().Warn("stored invoice counter below floor, clamping",
			zap.Int("stored", stored.Value), zap.Int("floor", floor))
		c.state = counterState{Value: floor, LastActiveDate: today}
		c.persist(ctx)
	default:
		c.state = stored
	}

	return c, nil
}

// Current returns the number the next finalized invoice will carry.
func (c *Counter) Current() int {
	return c.state.Value
}

// Floor returns the configured first number of a day.
func (c *Counter) Floor() int {
	return c.floor
}

// Date returns the day tag the counter belongs to.
func (c *Counter) Date() string {
	return c.state.LastActiveDate
}

// Advance increments the counter, persists it and returns the new value.
// If storage is unavailable the new value is kept in memory only.
func (c *Counter) Advance(ctx context.Context) int {
	c.state.Value++
	c.persist(ctx)
	return c.state.Value
}

// fastForward raises the counter to n if it is below n.
func (c *Counter) fastForward(ctx context.Context, n int) bool {
	if c.state.Value >= n {
		return false
	}
	c.state.Value = n
	c.persist(ctx)
	return true
}

func (c *Counter) persist(ctx context.Context) {
	c.vault.Save(ctx, counterSlot, c.state)
}
