package journal

import (
	"errors"
	"time"

	"github.com/roach88/sweep/internal/board"
	"github.com/roach88/sweep/internal/engine"
)

var (
	// ErrNotFound is returned when a session ID is not in the journal.
	ErrNotFound = errors.New("session not found")

	// ErrFinished is returned when resuming a won or lost session.
	ErrFinished = errors.New("session is finished")

	// ErrExpired is returned when resuming a session idle past the limit.
	ErrExpired = errors.New("session expired")
)

// Session is the journal header for one game.
type Session struct {
	ID        string           `json:"id"`
	Config    engine.Config    `json:"config"`
	Seed      int64            `json:"seed"`
	Layout    []board.Coord    `json:"layout,omitempty"`
	Preset    string           `json:"preset,omitempty"`
	State     engine.GameState `json:"state"`
	Moves     int              `json:"moves"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Expired reports whether an unfinished session has been idle longer than
// maxIdle at now. Finished sessions never expire.
func (s Session) Expired(now time.Time, maxIdle time.Duration) bool {
	if s.State.Terminal() {
		return false
	}
	return now.Sub(s.UpdatedAt) > maxIdle
}

// ListOptions filters ListSessions.
type ListOptions struct {
	// ActiveOnly keeps sessions still in ready or playing state.
	ActiveOnly bool

	// Limit caps the result count. Zero means no limit.
	Limit int
}

// IsExpired reports whether s has been idle longer than the journal's idle
// limit at the journal's current time.
func (j *Journal) IsExpired(s Session) bool {
	return s.Expired(j.now(), j.maxIdle)
}
