package vote

import "github.com/nadimalaa/devflow/backend/internal/models"

// ledgerOp is the mutation the vote ledger needs for a transition.
type ledgerOp int

const (
	opCreate ledgerOp = iota // insert a new vote row
	opDelete                 // remove the existing row (toggle-off)
	opSwitch                 // flip the existing row's direction
)

// counterChange is one increment/decrement of a target's cached tally.
type counterChange struct {
	voteType string
	delta    int
}

// transition is the full effect of one vote request: exactly one ledger
// mutation plus the counter changes that keep tallies equal to the ledger.
type transition struct {
	op      ledgerOp
	changes []counterChange
}

// planTransition maps (current stance, requested direction) to the required
// effect. current is "" when the actor has no vote on the target. Requesting
// the current direction again is a retraction, not a no-op; that is the UX
// contract.
func planTransition(current, requested string) transition {
	switch current {
	case "":
		return transition{
			op:      opCreate,
			changes: []counterChange{{voteType: requested, delta: 1}},
		}
	case requested:
		return transition{
			op:      opDelete,
			changes: []counterChange{{voteType: requested, delta: -1}},
		}
	default:
		return transition{
			op: opSwitch,
			changes: []counterChange{
				{voteType: current, delta: -1},
				{voteType: requested, delta: 1},
			},
		}
	}
}

// counterColumn names the tally column a vote direction feeds.
func counterColumn(voteType string) string {
	if voteType == models.VoteDown {
		return "downvotes"
	}
	return "upvotes"
}
