package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nadimalaa/devflow/backend/internal/models"
	"github.com/nadimalaa/devflow/backend/internal/service/vote"
)

type voteService interface {
	Cast(ctx context.Context, actorID, targetID int, targetType, voteType string) error
	Status(ctx context.Context, actorID, targetID int, targetType string) (vote.Status, error)
}

type VoteHandler struct {
	votes voteService
}

func NewVoteHandler(votes voteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// CastVote applies an upvote or downvote (PROTECTED). Repeating the current
// direction retracts the vote.
func (h *VoteHandler) CastVote(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.votes.Cast(c.Request.Context(), actorID, input.TargetID, input.TargetType, input.VoteType); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// GetVoteStatus reports the caller's stance on a target (PROTECTED). The
// boolean pair is kept for the UI; "no vote" is a plain success.
func (h *VoteHandler) GetVoteStatus(c *gin.Context) {
	actorID, _ := currentUserID(c)

	targetID, err := strconv.Atoi(c.Query("target_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_id must be an integer"})
		return
	}
	targetType := c.Query("target_type")

	status, err := h.votes.Status(c.Request.Context(), actorID, targetID, targetType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        status,
		"has_upvoted":   status == vote.StatusUpvoted,
		"has_downvoted": status == vote.StatusDownvoted,
	})
}
