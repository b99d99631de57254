// Package session runs the interactive scan-intake loop.
//
// A session binds one event to a line-oriented credential source (a card
// reader acting as a keyboard, or a person typing). Each line is one
// scan; a line equal to the stop keyword (case-insensitive) ends the
// session; empty lines are ignored. The session owns no attendance
// logic - every decision is the engine's - and no presentation: results
// stream to a caller-supplied Reporter.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/tapin/tapin/internal/engine"
)

// DefaultStopKeyword ends a session when scanned or typed.
const DefaultStopKeyword = "stop"

// Reporter receives per-scan outcomes as they happen.
//
// Implementations must not block for long: the intake loop is sequential
// and a slow Reporter delays the next scan.
type Reporter interface {
	// Accepted is called for each recorded check-in or check-out.
	Accepted(res engine.ScanResult)

	// Rejected is called for debounced scans. The scan changed nothing.
	Rejected(card string, remaining int)

	// Failed is called when a scan was accepted by the engine but the
	// store could not record it.
	Failed(card string, err error)
}

// Summary totals one session's outcomes.
type Summary struct {
	CheckIns  int
	CheckOuts int
	TooSoon   int
	Ignored   int // empty lines
	Failed    int // store faults
}

// Session reads credentials from a line source and feeds them to the
// engine one at a time.
type Session struct {
	engine  *engine.Engine
	eventID int64
	stop    string
	token   string
	log     *slog.Logger
}

// Option allows configuration of session parameters.
type Option func(*Session)

// WithStopKeyword overrides the keyword that ends the session.
func WithStopKeyword(keyword string) Option {
	return func(s *Session) {
		s.stop = keyword
	}
}

// WithToken fixes the session token. Used in tests; production sessions
// get a time-sortable UUIDv7.
func WithToken(token string) Option {
	return func(s *Session) {
		s.token = token
	}
}

// WithLogger overrides the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// New creates a session for one event.
func New(eng *engine.Engine, eventID int64, opts ...Option) *Session {
	s := &Session{
		engine:  eng,
		eventID: eventID,
		stop:    DefaultStopKeyword,
		token:   uuid.Must(uuid.NewV7()).String(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the session's correlation token.
func (s *Session) Token() string {
	return s.token
}

// Run consumes lines from r until the stop keyword, end of input, or
// context cancellation, and returns the session summary.
//
// Scans are processed strictly one at a time: read credential, process,
// read next. A store fault fails that scan (reported, counted) but does
// not end the session - the next card may well succeed, and an operator
// mid-queue is better served by a visible error than a dead loop.
func (s *Session) Run(ctx context.Context, r io.Reader, rep Reporter) (Summary, error) {
	log := s.log.With("session", s.token, "event_id", s.eventID)
	log.Info("scan session started", "stop_keyword", s.stop)

	var sum Summary
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			log.Info("scan session cancelled", "summary", sum)
			return sum, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			sum.Ignored++
			continue
		}
		if strings.EqualFold(line, s.stop) {
			break
		}

		res, err := s.engine.ProcessScan(ctx, s.eventID, line)
		switch {
		case err == nil:
			if res.Action == engine.ActionCheckIn {
				sum.CheckIns++
			} else {
				sum.CheckOuts++
			}
			log.Debug("scan accepted",
				"card", res.Card, "action", res.Action.String(), "txn", res.TransactionID)
			rep.Accepted(res)

		case isTooSoon(err):
			remaining, _ := engine.IsTooSoon(err)
			sum.TooSoon++
			log.Debug("scan debounced", "card", line, "remaining", remaining)
			rep.Rejected(line, int(remaining.Seconds()+0.5))

		case engine.IsEmptyInput(err):
			// Trimmed above; the engine can still reject input that
			// normalizes to nothing.
			sum.Ignored++

		default:
			sum.Failed++
			log.Error("scan failed", "card", line, "error", err)
			rep.Failed(line, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("read scan input: %w", err)
	}

	log.Info("scan session ended",
		"check_ins", sum.CheckIns, "check_outs", sum.CheckOuts,
		"too_soon", sum.TooSoon, "failed", sum.Failed)
	return sum, nil
}

func isTooSoon(err error) bool {
	_, ok := engine.IsTooSoon(err)
	return ok
}

// NopReporter discards all outcomes. Useful for tests that only care
// about the summary.
type NopReporter struct{}

func (NopReporter) Accepted(engine.ScanResult) {}
func (NopReporter) Rejected(string, int)       {}
func (NopReporter) Failed(string, error)       {}

var _ Reporter = NopReporter{}
