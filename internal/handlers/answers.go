package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nadimalaa/devflow/backend/internal/models"
)

type answerService interface {
	Create(ctx context.Context, actorID, questionID int, content string) (*models.Answer, error)
	Delete(ctx context.Context, actorID, answerID int) error
	ListForQuestion(ctx context.Context, questionID int) ([]models.Answer, error)
}

type AnswerHandler struct {
	answers answerService
}

func NewAnswerHandler(answers answerService) *AnswerHandler {
	return &AnswerHandler{answers: answers}
}

// GetAnswers returns all answers for a question.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	answers, err := h.answers.ListForQuestion(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	c.JSON(http.StatusOK, answers)
}

// CreateAnswer posts an answer to a question (PROTECTED).
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.answers.Create(c.Request.Context(), actorID, questionID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DeleteAnswer deletes an answer (PROTECTED - owner only).
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.answers.Delete(c.Request.Context(), actorID, answerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}
