package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rtmd/internal/analysis"
	"rtmd/internal/core"
	"rtmd/internal/llm"
)

// AnalysisHandler proxies the two gateway-backed operations. Upstream
// rate-limit and quota statuses pass through verbatim so the dashboard
// can show the gateway's own message.
type AnalysisHandler struct {
	runner *analysis.Runner
	log    core.Logger
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(r *analysis.Runner, log core.Logger) *AnalysisHandler {
	return &AnalysisHandler{runner: r, log: log}
}

// Generate extracts requirements from discovery artifacts.
func (h *AnalysisHandler) Generate(c *gin.Context) {
	var req struct {
		Artifacts []llm.Artifact `json:"artifacts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Artifacts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one artifact is required"})
		return
	}

	added, err := h.runner.Generate(c.Request.Context(), req.Artifacts)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated": added})
}

// Classify runs fit/gap or AOC analysis over the full store.
func (h *AnalysisHandler) Classify(c *gin.Context) {
	var req struct {
		AnalysisType string `json:"analysisType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.AnalysisType != llm.AnalysisTypeFitGap && req.AnalysisType != llm.AnalysisTypeAOC {
		c.JSON(http.StatusBadRequest, gin.H{"error": "analysisType must be fitgap or aoc"})
		return
	}

	merged, err := h.runner.Classify(c.Request.Context(), req.AnalysisType)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classified": merged})
}

func (h *AnalysisHandler) respondAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysis.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, analysis.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}

	var gwErr *llm.GatewayError
	if errors.As(err, &gwErr) {
		status := http.StatusInternalServerError
		switch gwErr.Code {
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			status = gwErr.Code
		}
		h.log.Warn("gateway call failed", "type", gwErr.Type, "code", gwErr.Code)
		c.JSON(status, gin.H{"error": gwErr.Message})
		return
	}

	h.log.Error("analysis failed", "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
