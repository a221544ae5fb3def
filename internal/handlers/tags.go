package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nadimalaa/devflow/backend/internal/models"
)

type tagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Questions(ctx context.Context, tagID int) (models.Tag, []models.Question, error)
}

type TagHandler struct {
	tags tagService
}

func NewTagHandler(tags tagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// GetTags returns all tags ordered by usage.
func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

// GetTagQuestions returns the questions referencing a tag.
func (h *TagHandler) GetTagQuestions(c *gin.Context) {
	tagID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	tag, questions, err := h.tags.Questions(c.Request.Context(), tagID)
	if err != nil {
		respondError(c, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "questions": questions})
}
