// Package engine implements the Minesweeper game engine.
//
// The engine owns one board.Board and one GameState for the lifetime of a
// session. It resolves reveal, flag and chord actions into board changes and
// drives the state machine:
//
//	Ready ──first reveal──▶ Playing ──▶ Won
//	                               └──▶ Lost
//
// ARCHITECTURE:
//
// Synchronous, single-owner sessions:
// Every operation runs to completion before returning. There is no
// background work and no locking; independent sessions are independent
// Engine values.
//
// Lazy mine placement:
// Mines are placed on the first reveal, excluding the revealed cell and its
// neighbors, so the opening move always cascades.
//
// Flood reveal:
// Cascades use an explicit stack over the grid. A cell is pushed only when
// its reveal succeeds, so each cell is visited at most once and the work is
// bounded by the board size.
//
// Results, not errors:
// Routine refusals (revealing a flagged cell, chording with the wrong flag
// count, acting after the game ended) return a Result with OutcomeRejected.
// Only setup and addressing failures are errors: InvalidConfiguration,
// OutOfBounds and InsufficientSpace from package board.
//
// Determinism:
// Mine placement draws from a seeded math/rand source. Accepted moves are
// stamped by a logical Clock and kept in History, so Replay can rebuild a
// session move for move from its seed.
package engine
