package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUnknownItem        = errors.New("unknown shop item")
	ErrUnknownAchievement = errors.New("unknown achievement")
)

const coinsKey = "coins"

// Ledger tracks the player's coin balance. New profiles start at zero.
type Ledger struct {
	mu    sync.Mutex
	store *Store
}

// NewLedger returns a ledger persisted in s.
func NewLedger(s *Store) *Ledger { return &Ledger{store: s} }

// update serializes balance changes and runs fn in one store transaction.
// Shop and achievements use it to pair coin moves with their own writes.
func (l *Ledger) update(ctx context.Context, fn func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Update(ctx, fn)
}

// Balance returns the current coin count.
func (l *Ledger) Balance(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var coins int
	if _, err := l.store.Get(ctx, coinsKey, &coins); err != nil {
		return 0, err
	}
	return coins, nil
}

// Credit adds amount and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, amount int) (int, error) {
	var coins int
	err := l.update(ctx, func(tx *Tx) error {
		var err error
		coins, err = credit(ctx, tx, amount)
		return err
	})
	if err != nil {
		return 0, err
	}
	return coins, nil
}

// Debit removes amount and returns the new balance. The balance never goes
// negative: a debit larger than it fails with ErrInsufficientFunds.
func (l *Ledger) Debit(ctx context.Context, amount int) (int, error) {
	var coins int
	err := l.update(ctx, func(tx *Tx) error {
		var err error
		coins, err = debit(ctx, tx, amount)
		return err
	})
	return coins, err
}

func credit(ctx context.Context, tx *Tx, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit %d: %w", amount, ErrInvalidAmount)
	}
	var coins int
	if _, err := tx.Get(ctx, coinsKey, &coins); err != nil {
		return 0, err
	}
	coins += amount
	if err := tx.Put(ctx, coinsKey, coins); err != nil {
		return 0, err
	}
	return coins, nil
}

func debit(ctx context.Context, tx *Tx, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit %d: %w", amount, ErrInvalidAmount)
	}
	var coins int
	if _, err := tx.Get(ctx, coinsKey, &coins); err != nil {
		return 0, err
	}
	if coins < amount {
		return coins, fmt.Errorf("debit %d from %d: %w", amount, coins, ErrInsufficientFunds)
	}
	coins -= amount
	if err := tx.Put(ctx, coinsKey, coins); err != nil {
		return 0, err
	}
	return coins, nil
}
