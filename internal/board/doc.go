// Package board implements the Minesweeper board model.
//
// A Board owns a fixed width × height grid of cells and nothing else: it
// stores mine, flag and reveal state, answers neighbor and win queries, and
// computes adjacency counts. It has no notion of turns or game state; the
// engine package drives it.
//
// LIFECYCLE:
//
// Boards are created with mines unplaced. Mines are placed exactly once,
// either by PlaceMines (random, seeded, with an exclusion set so the first
// reveal is safe) or by PlaceMinesAt (a fixed layout for tests and replays).
// Adjacency counts are computed eagerly at placement so reveals are O(1)
// per cell.
//
// INVARIANTS:
//   - 0 < MineCount() < Width()*Height()
//   - A flagged cell is never revealed
//   - Adjacent is the exact count of mine neighbors once Placed() is true
//   - Neighbors are returned in row-major order of the 3×3 window
package board
