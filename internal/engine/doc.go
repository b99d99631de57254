// Package engine implements the attendance check-in/check-out state engine.
//
// The engine is the heart of tapin - it receives card scans and decides,
// per (event, card), whether each scan is a check-in or a check-out, then
// persists the result.
//
// STATE MACHINE:
//
// Each (event, card) pair is a two-state machine:
//   - Out -> In: scan with no open transaction inserts a check-in row
//   - In -> Out: scan with an open transaction stamps its check-out time
//
// The open transaction IS the state; the engine keeps no per-card
// attendance state of its own.
//
// DEBOUNCE:
//
// A process-local tracker maps card -> last accepted scan time. A scan
// within the debounce window (default 30s) of the last ACCEPTED scan is
// rejected with the remaining wait; the tracker is not updated on
// rejection, so repeated fast scans keep reporting time relative to the
// original accepted scan. The tracker key is the card alone, not
// (event, card): a card bouncing between two events inside the window is
// throttled. That matches the deployed behavior and is deliberate.
//
// SERIALIZATION:
//
// ProcessScan holds one mutex across the debounce check, the open-row
// read, and the store write. Two concurrent scans of the same card must
// serialize; otherwise both could observe "no open transaction" and both
// insert, breaking the at-most-one-open-row invariant.
package engine
