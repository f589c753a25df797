// Package journal provides SQLite-backed storage for game sessions.
//
// A session row holds everything needed to rebuild the board (shape, seed,
// optional forced layout); the moves table holds the accepted actions in
// clock order. Because the engine is deterministic, replaying the moves
// against the same seed reproduces the session exactly, so the journal never
// stores board cells.
//
// # Patterns
//
// Idempotent appends:
//   - PRIMARY KEY (session_id, seq) with ON CONFLICT DO NOTHING
//   - re-appending a move after a crash or retry is a no-op
//
// Logical ordering:
//   - moves are ordered by seq, never by timestamp
//   - timestamps exist only for listings and the resume idle limit
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON (moves cascade with their session)
package journal
