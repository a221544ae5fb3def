package vote

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadimalaa/devflow/backend/internal/models"
)

func TestPlanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		current   string
		requested string
		want      transition
	}{
		{
			name:      "fresh upvote",
			current:   "",
			requested: models.VoteUp,
			want: transition{
				op:      opCreate,
				changes: []counterChange{{voteType: models.VoteUp, delta: 1}},
			},
		},
		{
			name:      "fresh downvote",
			current:   "",
			requested: models.VoteDown,
			want: transition{
				op:      opCreate,
				changes: []counterChange{{voteType: models.VoteDown, delta: 1}},
			},
		},
		{
			name:      "upvote again retracts",
			current:   models.VoteUp,
			requested: models.VoteUp,
			want: transition{
				op:      opDelete,
				changes: []counterChange{{voteType: models.VoteUp, delta: -1}},
			},
		},
		{
			name:      "downvote again retracts",
			current:   models.VoteDown,
			requested: models.VoteDown,
			want: transition{
				op:      opDelete,
				changes: []counterChange{{voteType: models.VoteDown, delta: -1}},
			},
		},
		{
			name:      "upvote over downvote switches",
			current:   models.VoteDown,
			requested: models.VoteUp,
			want: transition{
				op: opSwitch,
				changes: []counterChange{
					{voteType: models.VoteDown, delta: -1},
					{voteType: models.VoteUp, delta: 1},
				},
			},
		},
		{
			name:      "downvote over upvote switches",
			current:   models.VoteUp,
			requested: models.VoteDown,
			want: transition{
				op: opSwitch,
				changes: []counterChange{
					{voteType: models.VoteUp, delta: -1},
					{voteType: models.VoteDown, delta: 1},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := planTransition(tt.current, tt.requested)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanTransition_NetCounterEffect(t *testing.T) {
	t.Parallel()

	// Whatever the transition, the counter deltas must sum to at most one
	// step in either direction per column.
	stances := []string{"", models.VoteUp, models.VoteDown}
	for _, current := range stances {
		for _, requested := range []string{models.VoteUp, models.VoteDown} {
			tr := planTransition(current, requested)
			perColumn := map[string]int{}
			for _, ch := range tr.changes {
				perColumn[counterColumn(ch.voteType)] += ch.delta
			}
			for col, delta := range perColumn {
				assert.LessOrEqual(t, delta, 1, "current=%q requested=%q col=%s", current, requested, col)
				assert.GreaterOrEqual(t, delta, -1, "current=%q requested=%q col=%s", current, requested, col)
			}
		}
	}
}

func TestPlanTransition_CountersTrackLedger(t *testing.T) {
	t.Parallel()

	// Random cast/retract/switch sequences by several actors on one target:
	// after every step the tallies derived from the planned counter changes
	// must equal the tallies counted from the simulated ledger.
	rng := rand.New(rand.NewSource(1))
	stances := map[int]string{}
	counters := map[string]int{}

	for step := 0; step < 1000; step++ {
		actor := rng.Intn(8)
		requested := models.VoteUp
		if rng.Intn(2) == 1 {
			requested = models.VoteDown
		}

		tr := planTransition(stances[actor], requested)
		switch tr.op {
		case opCreate, opSwitch:
			stances[actor] = requested
		case opDelete:
			delete(stances, actor)
		}
		for _, ch := range tr.changes {
			counters[ch.voteType] += ch.delta
		}

		ledger := map[string]int{}
		for _, stance := range stances {
			ledger[stance]++
		}
		require.Equal(t, ledger[models.VoteUp], counters[models.VoteUp], "step %d", step)
		require.Equal(t, ledger[models.VoteDown], counters[models.VoteDown], "step %d", step)
	}
}

func TestCounterColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "upvotes", counterColumn(models.VoteUp))
	assert.Equal(t, "downvotes", counterColumn(models.VoteDown))
}
