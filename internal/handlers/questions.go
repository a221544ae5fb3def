package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nadimalaa/devflow/backend/internal/models"
	"github.com/nadimalaa/devflow/backend/internal/service/question"
)

type questionService interface {
	Create(ctx context.Context, actorID int, in models.CreateQuestionRequest) (*question.Detail, error)
	Edit(ctx context.Context, actorID, questionID int, in models.EditQuestionRequest) (*question.Detail, error)
	Delete(ctx context.Context, actorID, questionID int) error
	Get(ctx context.Context, questionID int) (*question.Detail, error)
	List(ctx context.Context, p question.ListParams) ([]question.Detail, bool, error)
	IncrementViews(ctx context.Context, actorID, questionID int) (int, error)
}

type QuestionHandler struct {
	questions questionService
}

func NewQuestionHandler(questions questionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// GetQuestions returns a page of questions with optional search and filter.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	details, isNext, err := h.questions.List(c.Request.Context(), question.ListParams{
		Page:     page,
		PageSize: pageSize,
		Query:    c.Query("query"),
		Filter:   c.Query("filter"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if details == nil {
		details = []question.Detail{}
	}
	c.JSON(http.StatusOK, gin.H{"questions": details, "is_next": isNext})
}

// GetQuestion returns a single question by ID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	detail, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateQuestion creates a question with its tag set (PROTECTED).
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.questions.Create(c.Request.Context(), actorID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// UpdateQuestion edits title, content and tags (PROTECTED - owner only).
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var input models.EditQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.questions.Edit(c.Request.Context(), actorID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteQuestion deletes a question and all dependent rows (PROTECTED - owner only).
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	if err := h.questions.Delete(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// IncrementViews counts one view; signed-in viewers also earn credit.
func (h *QuestionHandler) IncrementViews(c *gin.Context) {
	actorID, _ := currentUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	views, err := h.questions.IncrementViews(c.Request.Context(), actorID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": views})
}
