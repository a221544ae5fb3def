package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nadimalaa/devflow/backend/internal/models"
)

type collectionService interface {
	ToggleSave(ctx context.Context, actorID, questionID int) (bool, error)
	HasSaved(ctx context.Context, actorID, questionID int) (bool, error)
	ListSaved(ctx context.Context, actorID int) ([]models.Question, error)
}

type CollectionHandler struct {
	collections collectionService
}

func NewCollectionHandler(collections collectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// ToggleSave saves or unsaves a question for the caller (PROTECTED).
func (h *CollectionHandler) ToggleSave(c *gin.Context) {
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

	saved, err := h.collections.ToggleSave(c.Request.Context(), actorID, questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// HasSaved reports whether the caller saved the question (PROTECTED).
func (h *CollectionHandler) HasSaved(c *gin.Context) {
	actorID, _ := currentUserID(c)

	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	saved, err := h.collections.HasSaved(c.Request.Context(), actorID, questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// GetCollections lists the caller's saved questions (PROTECTED).
func (h *CollectionHandler) GetCollections(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	questions, err := h.collections.ListSaved(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	c.JSON(http.StatusOK, questions)
}
