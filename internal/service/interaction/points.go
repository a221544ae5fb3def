package interaction

import "github.com/nadimalaa/devflow/backend/internal/models"

// Points holds the reputation deltas one qualifying action yields: one for
// the performer of the action and one for the author of the acted-upon
// content.
type Points struct {
	Performer int
	Author    int
}

// reputationPoints is the fixed point table, keyed "<action>_<target type>".
var reputationPoints = map[string]Points{
	"post_question":     {Performer: 5, Author: 5},
	"post_answer":       {Performer: 10, Author: 10},
	"upvote_question":   {Performer: 2, Author: 10},
	"upvote_answer":     {Performer: 2, Author: 10},
	"downvote_question": {Performer: -1, Author: -2},
	"downvote_answer":   {Performer: -1, Author: -2},
	"delete_question":   {Performer: -5, Author: -5},
	"delete_answer":     {Performer: -10, Author: -10},
	"view_question":     {Performer: 1, Author: 2},
	"view_answer":       {Performer: 1, Author: 2},
	"bookmark_question": {Performer: 1, Author: 2},
	"bookmark_answer":   {Performer: 1, Author: 2},
}

// PointsFor looks up the reputation deltas for an action on a target kind.
func PointsFor(action, targetType string) (Points, bool) {
	pts, ok := reputationPoints[action+"_"+targetType]
	return pts, ok
}

// QualifyingAction reports whether the action appears in the point table for
// at least one target kind.
func QualifyingAction(action string) bool {
	_, q := reputationPoints[action+"_"+models.TargetQuestion]
	_, a := reputationPoints[action+"_"+models.TargetAnswer]
	return q || a
}
