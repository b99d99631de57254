// Package store provides durable storage for events and attendance
// transactions on SQLite.
//
// Two tables: events (id, unique name, created_at) and transactions
// (id, event_id, card_number, check_in_time, nullable check_out_time).
// A NULL check_out_time means the card is currently checked in.
//
// CONSISTENCY:
//
// The store enforces referential integrity (foreign_keys ON) and performs
// event deletion as a single transaction: dependent transactions first,
// then the event row. No caller can observe the intermediate state.
//
// The open-transaction invariant - at most one NULL-check_out_time row per
// (event_id, card_number) - is preserved by the engine's serialized
// read-then-write sequence; the store supplies the primitives
// (FindOpenTransaction, InsertCheckIn, SetCheckOut) and the partial index
// that keeps the open-row lookup cheap.
//
// Timestamps are stored as RFC 3339 UTC text.
package store
