package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"BrandRadar/internal/domain"
)

// Handler exposes the run lifecycle over HTTP.
type Handler struct {
	runs         *RunManager
	defaultBrand string
	defaultKWs   []string
}

// NewHandler wires the run manager with the configured defaults used when a
// request omits brand or keywords.
func NewHandler(runs *RunManager, defaultBrand string, defaultKeywords []string) *Handler {
	return &Handler{runs: runs, defaultBrand: defaultBrand, defaultKWs: defaultKeywords}
}

type createRunRequest struct {
	Brand    string   `json:"brand"`
	Keywords []string `json:"keywords"`
}

type runResponse struct {
	ID         string   `json:"id"`
	Brand      string   `json:"brand"`
	Keywords   []string `json:"keywords,omitempty"`
	Status     string   `json:"status"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func toRunResponse(run domain.Run) runResponse {
	resp := runResponse{
		ID:        run.ID,
		Brand:     run.Brand,
		Keywords:  run.Keywords,
		Status:    string(run.Status),
		StartedAt: run.StartedAt.Format(time.RFC3339),
		Error:     run.Error,
	}
	if !run.FinishedAt.IsZero() {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return resp
}

// CreateRun starts an asynchronous monitoring run.
func (h *Handler) CreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	brand := req.Brand
	if brand == "" {
		brand = h.defaultBrand
	}
	keywords := req.Keywords
	if len(keywords) == 0 {
		keywords = h.defaultKWs
	}
	if brand == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand is required"})
		return
	}

	run := h.runs.Start(brand, keywords)
	c.JSON(http.StatusAccepted, toRunResponse(run))
}

// GetRun reports the status of a run.
func (h *Handler) GetRun(c *gin.Context) {
	run, ok := h.runs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, toRunResponse(run))
}

// GetReport returns the rendered markdown of a completed run.
func (h *Handler) GetReport(c *gin.Context) {
	id := c.Param("id")
	run, ok := h.runs.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	markdown, ready := h.runs.Markdown(id)
	if !ready {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "report not available",
			"status": string(run.Status),
		})
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}

// CancelRun requests cancellation of a running run.
func (h *Handler) CancelRun(c *gin.Context) {
	if !h.runs.Cancel(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancelling"})
}
