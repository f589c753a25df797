package preset

import (
	"fmt"
	"time"

	"github.com/roach88/sweep/internal/canon"
)

// DateLayout is the calendar-date format daily seeds are derived from.
const DateLayout = "2006-01-02"

// Challenge is the daily challenge for one calendar date.
type Challenge struct {
	Date   string `json:"date"`
	Preset Preset `json:"preset"`
	Seed   int64  `json:"seed"`
}

// Daily returns the challenge for date's calendar day in date's location.
// Every player gets the same intermediate board on the same day.
func Daily(date time.Time) (Challenge, error) {
	day := date.Format(DateLayout)
	seed, err := canon.Seed(canon.DomainDaily, day)
	if err != nil {
		return Challenge{}, fmt.Errorf("daily seed: %w", err)
	}

	p, _ := Builtin().Get(Intermediate)
	p.Name = "daily-" + day
	p.Description = "daily challenge for " + day
	return Challenge{Date: day, Preset: p, Seed: seed}, nil
}
