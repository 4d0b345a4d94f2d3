package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pollboard/pollboard/backend/go-services/internal/polls"
	"github.com/pollboard/pollboard/backend/go-services/internal/storage"
	"github.com/pollboard/pollboard/backend/go-services/internal/votes"
	"github.com/pollboard/pollboard/backend/go-services/pkg/logger"
	"github.com/pollboard/pollboard/backend/go-services/pkg/metrics"
	"github.com/pollboard/pollboard/backend/go-services/pkg/middleware"
)

// VoteRequest selects one option by its index in the poll's options slice.
type VoteRequest struct {
	OptionIndex *int `json:"optionIndex" binding:"required"`
}

// VotesHandler records votes, serves tallies and exports results. Voting and
// tallies are public; exports are owner-only.
type VotesHandler struct {
	pollsSvc *polls.Service
	votesSvc *votes.Service
	exports  *storage.MinIOStorage
}

// NewVotesHandler creates the handler. exports may be nil, which disables the
// export endpoint.
func NewVotesHandler(p *polls.Service, v *votes.Service, exports *storage.MinIOStorage) *VotesHandler {
	return &VotesHandler{pollsSvc: p, votesSvc: v, exports: exports}
}

// Register routes under the optionally-authenticated API group.
func (h *VotesHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/polls/:id")
	g.POST("/votes", h.Submit)
	g.GET("/results", h.Results)
	g.POST("/export", h.Export)
}

func (h *VotesHandler) Submit(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub := middleware.SubjectFromContext(c)
	v, err := h.votesSvc.Submit(c.Request.Context(), sub, c.Param("id"), *req.OptionIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	metrics.VotesRecorded.Inc()
	c.JSON(http.StatusCreated, v)
}

func (h *VotesHandler) Results(c *gin.Context) {
	tally, err := h.votesSvc.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// Export writes the poll's tally as CSV to object storage and returns a
// presigned download URL. Only the poll owner may export.
func (h *VotesHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	sub := middleware.SubjectFromContext(c)
	if sub == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": polls.ErrUnauthenticated.Error()})
		return
	}
	p, err := h.pollsSvc.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if p.OwnerID != sub {
		c.JSON(http.StatusForbidden, gin.H{"error": polls.ErrForbidden.Error()})
		return
	}
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "exports not configured"})
		return
	}
	tally, err := h.votesSvc.Results(ctx, p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"option_index", "option", "votes"})
	for i, row := range tally.Counts {
		_ = w.Write([]string{strconv.Itoa(i), row.Option, strconv.FormatInt(row.Votes, 10)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "csv encoding failed"})
		return
	}

	key := fmt.Sprintf("results/%s/%d.csv", p.ID, time.Now().UTC().Unix())
	if err := h.exports.UploadFile(ctx, key, &buf, int64(buf.Len()), "text/csv"); err != nil {
		logger.Errorf("results export upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export upload failed"})
		return
	}
	url, err := h.exports.GetPresignedURL(ctx, key, time.Hour)
	if err != nil {
		logger.Errorf("results export presign failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export link failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "key": key, "expiresIn": int(time.Hour.Seconds())})
}
