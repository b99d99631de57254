package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/tapin/tapin/internal/store"
)

// DefaultWindow is the default debounce window between accepted scans of
// the same card.
const DefaultWindow = 30 * time.Second

// Action is the decision the engine made for an accepted scan.
type Action int

const (
	// ActionCheckIn means no open transaction existed; one was created.
	ActionCheckIn Action = iota

	// ActionCheckOut means an open transaction existed; it was closed.
	ActionCheckOut
)

// String returns the action name for logs and output.
func (a Action) String() string {
	switch a {
	case ActionCheckIn:
		return "check-in"
	case ActionCheckOut:
		return "check-out"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ScanResult describes an accepted scan.
type ScanResult struct {
	// Action is the state transition that was applied.
	Action Action

	// TransactionID is the row that was inserted (check-in) or closed
	// (check-out).
	TransactionID int64

	// Card is the normalized credential.
	Card string

	// At is the timestamp persisted with the transition.
	At time.Time
}

// Engine decides check-in vs. check-out for each scan and persists the
// result. Construct with New; the zero value is not usable.
type Engine struct {
	store    *store.Store
	clock    Clock
	debounce *DebounceTracker

	// mu serializes the debounce check and the read-then-write against
	// the store. See the package doc.
	mu sync.Mutex
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithWindow sets the debounce window between accepted scans of one card.
//
// Default: 30 seconds (DefaultWindow).
// Use a short window only in tests; operators rescanning a card inside a
// real window is exactly what the debounce exists to absorb.
func WithWindow(window time.Duration) Option {
	return func(e *Engine) {
		e.debounce = NewDebounceTracker(window)
	}
}

// New creates an Engine over the given store and clock.
//
// The engine owns its DebounceTracker; nothing else may touch it.
func New(st *store.Store, clock Clock, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		clock:    clock,
		debounce: NewDebounceTracker(DefaultWindow),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the engine's clock, for callers that need to stamp
// operations consistently with scan timestamps.
func (e *Engine) Clock() Clock {
	return e.clock
}

// ProcessScan handles one credential scan against one event.
//
// Returns a ScanResult on acceptance, a *RejectError for blank input or a
// scan inside the debounce window, or a wrapped store error. A store
// error still counts as an accepted scan for debounce purposes: the
// tracker is updated before the store is consulted, which stops a broken
// store from turning every scan into a rapid-fire retry.
func (e *Engine) ProcessScan(ctx context.Context, eventID int64, card string) (ScanResult, error) {
	card = normalizeCard(card)
	if card == "" {
		return ScanResult{}, newEmptyInputError()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	if remaining, tooSoon := e.debounce.Check(card, now); tooSoon {
		return ScanResult{}, newTooSoonError(card, remaining)
	}
	e.debounce.Record(card, now)

	txn, found, err := e.store.FindOpenTransaction(ctx, eventID, card)
	if err != nil {
		return ScanResult{}, fmt.Errorf("process scan: %w", err)
	}

	if found {
		if err := e.store.SetCheckOut(ctx, txn.ID, now); err != nil {
			return ScanResult{}, fmt.Errorf("process scan: %w", err)
		}
		return ScanResult{
			Action:        ActionCheckOut,
			TransactionID: txn.ID,
			Card:          card,
			At:            now,
		}, nil
	}

	id, err := e.store.InsertCheckIn(ctx, eventID, card, now)
	if err != nil {
		return ScanResult{}, fmt.Errorf("process scan: %w", err)
	}
	return ScanResult{
		Action:        ActionCheckIn,
		TransactionID: id,
		Card:          card,
		At:            now,
	}, nil
}

// normalizeCard trims surrounding whitespace and NFC-normalizes the
// credential so visually identical reader output keys the same debounce
// entry and the same open transaction.
func normalizeCard(card string) string {
	return norm.NFC.String(strings.TrimSpace(card))
}
