package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pollboard/pollboard/backend/go-services/internal/polls"
	"github.com/pollboard/pollboard/backend/go-services/internal/votes"
	"github.com/pollboard/pollboard/backend/go-services/pkg/logger"
	"github.com/pollboard/pollboard/backend/go-services/pkg/metrics"
	"github.com/pollboard/pollboard/backend/go-services/pkg/middleware"
)

// PollRequest is the body for creating and updating a poll.
type PollRequest struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required"`
}

// PollsHandler exposes poll CRUD. Reads of a single poll are public (polls
// are shared by link); everything else needs the caller's identity.
type PollsHandler struct {
	pollsSvc *polls.Service
	votesSvc *votes.Service
}

func NewPollsHandler(p *polls.Service, v *votes.Service) *PollsHandler {
	return &PollsHandler{pollsSvc: p, votesSvc: v}
}

// Register routes under the optionally-authenticated API group.
func (h *PollsHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/polls")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// respondServiceError maps service sentinels onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, polls.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, polls.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, polls.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, polls.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorf("poll operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *PollsHandler) Create(c *gin.Context) {
	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub := middleware.SubjectFromContext(c)
	p, err := h.pollsSvc.Create(c.Request.Context(), sub, req.Question, req.Options)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	metrics.PollsCreated.Inc()
	c.JSON(http.StatusCreated, p)
}

func (h *PollsHandler) List(c *gin.Context) {
	sub := middleware.SubjectFromContext(c)
	listing, err := h.pollsSvc.ListByOwner(c.Request.Context(), sub)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"polls": listing})
}

func (h *PollsHandler) Get(c *gin.Context) {
	p, err := h.pollsSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PollsHandler) Update(c *gin.Context) {
	var req PollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub := middleware.SubjectFromContext(c)
	p, err := h.pollsSvc.Update(c.Request.Context(), sub, c.Param("id"), req.Question, req.Options)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	metrics.PollsUpdated.Inc()
	c.JSON(http.StatusOK, p)
}

func (h *PollsHandler) Delete(c *gin.Context) {
	sub := middleware.SubjectFromContext(c)
	id := c.Param("id")
	if err := h.pollsSvc.Delete(c.Request.Context(), sub, id); err != nil {
		respondServiceError(c, err)
		return
	}
	// votes of a deleted poll are unreachable; drop them too
	if removed, err := h.votesSvc.PurgeForPoll(c.Request.Context(), id); err != nil {
		logger.Warnf("failed to purge votes for poll %s: %v", id, err)
	} else if removed > 0 {
		logger.Debugf("purged %d votes for poll %s", removed, id)
	}
	metrics.PollsDeleted.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "poll deleted"})
}
