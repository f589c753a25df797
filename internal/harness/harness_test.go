package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sweep/internal/engine"
)

func intPtr(n int) *int { return &n }

func cornerMineScenario(steps ...Step) *Scenario {
	return &Scenario{
		Name:        "corner_mine",
		Description: "One mine in the top-left corner",
		Board:       BoardSpec{Layout: []string{"*..", "...", "..."}},
		Steps:       steps,
	}
}

func TestRun_FixedLayoutWin(t *testing.T) {
	scenario := cornerMineScenario(Step{
		Action: "reveal",
		At:     []int{2, 2},
		Expect: &Expect{Outcome: "won", State: "won", Changed: intPtr(8)},
	})
	scenario.Assertions = []Assertion{
		{Type: AssertFinalState, State: "won"},
		{Type: AssertRevealedCount, Value: intPtr(8)},
		{Type: AssertCell, At: []int{0, 0}, Glyph: "#"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, engine.OutcomeWon, result.Trace[0].Outcome)
	assert.Equal(t, "scenario-corner_mine", result.Final.SessionID)
}

func TestRun_ExpectationMismatchIsReported(t *testing.T) {
	scenario := cornerMineScenario(Step{
		Action: "reveal",
		At:     []int{2, 2},
		Expect: &Expect{Outcome: "lost", Changed: intPtr(3)},
	})

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "step 1 (reveal (2,2))")
	assert.Contains(t, result.Errors[0], "expected outcome lost, got won")
	assert.Contains(t, result.Errors[1], "expected 3 changed cells, got 8")
}

func TestRun_UnexpectedErrorFailsScenario(t *testing.T) {
	scenario := cornerMineScenario(Step{Action: "flag", At: []int{5, 5}})

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error")
	assert.Equal(t, "OUT_OF_BOUNDS", result.Trace[0].Error)
	assert.Equal(t, int64(0), result.Trace[0].Seq)
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	scenario := cornerMineScenario(Step{
		Action: "reveal",
		At:     []int{2, 2},
		Expect: &Expect{Error: "OUT_OF_BOUNDS"},
	})

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected error OUT_OF_BOUNDS, got no error (outcome won)")
}

func TestRun_RejectedStepsHaveNoSeq(t *testing.T) {
	scenario := cornerMineScenario(
		Step{Action: "flag", At: []int{0, 0}},
		Step{Action: "reveal", At: []int{0, 0}, Expect: &Expect{Outcome: "rejected", Reason: "flagged"}},
		Step{Action: "reveal", At: []int{2, 2}},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	seqs := make([]int64, len(result.Trace))
	for i, e := range result.Trace {
		seqs[i] = e.Seq
	}
	assert.Equal(t, []int64{1, 0, 2}, seqs)
	assert.Equal(t, int64(2), result.Final.Moves)
	assert.Equal(t, 0, result.Final.MinesRemaining)
}

func TestRun_SeededBoardFirstRevealIsSafe(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42, 1000} {
		scenario := &Scenario{
			Name:        "seeded",
			Description: "Seeded beginner board",
			Board:       BoardSpec{Width: 9, Height: 9, Mines: 10},
			Seed:        seed,
			Steps:       []Step{{Action: "reveal", At: []int{4, 4}}},
		}

		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "seed %d: %v", seed, result.Errors)
		assert.NotEqual(t, engine.Lost, result.Final.State, "seed %d", seed)
		assert.Equal(t, seed, result.Final.Seed)
	}
}

func TestRun_SameSeedSameTrace(t *testing.T) {
	build := func() *Scenario {
		return &Scenario{
			Name:        "determinism",
			Description: "Same seed twice",
			Board:       BoardSpec{Width: 16, Height: 16, Mines: 40},
			Seed:        2024,
			Steps: []Step{
				{Action: "reveal", At: []int{8, 8}},
				{Action: "reveal", At: []int{0, 0}},
				{Action: "flag", At: []int{15, 15}},
			},
		}
	}

	first, err := Run(build())
	require.NoError(t, err)
	second, err := Run(build())
	require.NoError(t, err)

	a, err := Golden("determinism", first)
	require.NoError(t, err)
	b, err := Golden("determinism", second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_InvalidBoard(t *testing.T) {
	scenario := &Scenario{
		Name:        "too_many_mines",
		Description: "More mines than cells",
		Board:       BoardSpec{Width: 2, Height: 2, Mines: 4},
		Steps:       []Step{{Action: "reveal", At: []int{0, 0}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "scenario too_many_mines:"), err.Error())
}
