package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rtmd/internal/core"
	"rtmd/internal/csvio"
	"rtmd/internal/store"
	"rtmd/internal/view"
	"rtmd/pkg/schema"
)

// RequirementHandler serves the requirement table and its CSV exchange.
// When exportDir is set, CSV downloads also leave an atomic on-disk copy.
type RequirementHandler struct {
	store     *store.Store
	exportDir string
	log       core.Logger
}

// NewRequirementHandler creates a RequirementHandler.
func NewRequirementHandler(s *store.Store, exportDir string, log core.Logger) *RequirementHandler {
	return &RequirementHandler{store: s, exportDir: exportDir, log: log}
}

// List returns one filtered, paginated window over the store. The page
// is clamped server-side so a narrowed filter can never leave the client
// on an out-of-range page.
func (h *RequirementHandler) List(c *gin.Context) {
	query := c.Query("q")
	facet := view.ParseFacet(c.DefaultQuery("classification", "all"))
	page := atoiOrDefault(c.DefaultQuery("page", "1"), 1)
	pageSize := atoiOrDefault(c.DefaultQuery("pageSize", "10"), view.DefaultPageSize)

	filtered := view.Filter(h.store.List(), query, facet)
	pg := view.Paginate(filtered, page, pageSize)

	c.JSON(http.StatusOK, pg)
}

type requirementRequest struct {
	ReqID             string   `json:"reqId"`
	Section           string   `json:"section"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	Classification    string   `json:"classification"`
	Priority          string   `json:"priority"`
	Owner             string   `json:"owner"`
	ParentRequirement *string  `json:"parentRequirement"`
	Tags              []string `json:"tags"`
	FitGapScore       *int     `json:"fitGapScore"`
	FitGapRationale   string   `json:"fitGapRationale"`
	AOC               string   `json:"aoc"`
	AOCDescription    string   `json:"aocDescription"`
	AOCComplexity     *string  `json:"aocComplexity"`
	IsBaseline        bool     `json:"isBaseline"`
	SourceArtifact    string   `json:"sourceArtifact"`
}

func (req *requirementRequest) toRecord() schema.Requirement {
	r := schema.Requirement{
		ReqID:             req.ReqID,
		Section:           schema.Section(req.Section),
		Description:       req.Description,
		Status:            schema.Status(req.Status),
		Classification:    schema.Classification(req.Classification),
		Priority:          schema.Priority(req.Priority),
		Owner:             req.Owner,
		ParentRequirement: req.ParentRequirement,
		Tags:              req.Tags,
		FitGapScore:       req.FitGapScore,
		FitGapRationale:   req.FitGapRationale,
		AOC:               req.AOC,
		AOCDescription:    req.AOCDescription,
		IsBaseline:        req.IsBaseline,
		SourceArtifact:    req.SourceArtifact,
	}
	if req.AOCComplexity != nil {
		cx := schema.Complexity(*req.AOCComplexity)
		r.AOCComplexity = &cx
	}
	return r
}

// Create adds a requirement from the manual form.
func (h *RequirementHandler) Create(c *gin.Context) {
	var req requirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	added, err := h.store.Add(req.toRecord())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

// Update replaces the record with the given internal ID.
func (h *RequirementHandler) Update(c *gin.Context) {
	var req requirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.store.Replace(c.Param("id"), req.toRecord())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes the record with the given internal ID.
func (h *RequirementHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.store.Remove(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "requirement not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ImportCSV appends rows from a CSV request body. Blank-description rows
// are skipped, not errors; the response reports both counts.
func (h *RequirementHandler) ImportCSV(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	rows, skipped := csvio.Import(string(body))
	added, err := h.store.ImportRows(rows)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.log.Info("CSV import completed", "imported", added, "skipped", skipped)
	c.JSON(http.StatusOK, gin.H{"imported": added, "skipped": skipped})
}

// ExportCSV streams the full store as a dated CSV download.
func (h *RequirementHandler) ExportCSV(c *gin.Context) {
	data := csvio.Export(h.store.List())
	filename := csvio.ExportFilename(time.Now())

	if h.exportDir != "" {
		path := filepath.Join(h.exportDir, filename)
		if err := csvio.WriteFileAtomic(path, []byte(data)); err != nil {
			h.log.Warn("failed to write export copy", "path", path, "error", err.Error())
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(data))
}

// Snapshot streams the whole store as YAML, enriched fields included.
// The CSV export deliberately drops analysis columns; this one does not.
func (h *RequirementHandler) Snapshot(c *gin.Context) {
	data, err := h.store.SnapshotYAML()
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="requirements.yaml"`)
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", data)
}

// respondError maps store and analysis errors to HTTP responses.
func respondError(c *gin.Context, log core.Logger, err error) {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}

	var notFoundErr *core.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	log.Error("request failed", "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func atoiOrDefault(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
