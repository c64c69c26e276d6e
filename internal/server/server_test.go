package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmd/internal/analysis"
	"rtmd/internal/core"
	"rtmd/internal/llm"
	"rtmd/internal/llm/tasks"
	"rtmd/internal/store"
	"rtmd/pkg/schema"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubExecutor returns canned analysis outputs.
type stubExecutor struct {
	generation     *tasks.GenerationOutput
	classification *tasks.ClassificationOutput
	err            error
}

func (s *stubExecutor) ExecuteGeneration(ctx context.Context, input *tasks.GenerationInput) (*tasks.GenerationOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.generation, nil
}

func (s *stubExecutor) ExecuteClassification(ctx context.Context, input *tasks.ClassificationInput) (*tasks.ClassificationOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.classification, nil
}

func newTestRouter(t *testing.T, s *store.Store, exec analysis.Executor) *gin.Engine {
	t.Helper()
	log := core.NopLogger{}
	runner := analysis.NewRunner(s, exec, log)
	return NewRouter(RouterConfig{
		RequirementHandler: NewRequirementHandler(s, "", log),
		AnalysisHandler:    NewAnalysisHandler(runner, log),
		AllowedOrigins:     []string{"http://localhost:3000"},
	})
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seed(t *testing.T, s *store.Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := s.Add(schema.Requirement{
			Description:    "Seeded requirement",
			Owner:          "Alice",
			Classification: schema.ClassificationFit,
		})
		require.NoError(t, err)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, store.New(), &stubExecutor{})
	w := doJSON(router, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListClampsPageAndReportsWindow(t *testing.T) {
	s := store.New()
	seed(t, s, 12)
	router := newTestRouter(t, s, &stubExecutor{})

	w := doJSON(router, http.MethodGet, "/api/requirements?page=9&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Requirements []schema.Requirement `json:"requirements"`
		Total        int                  `json:"total"`
		TotalPages   int                  `json:"totalPages"`
		Page         int                  `json:"page"`
		Pages        []int                `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 12, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 2, resp.Page, "out-of-range page clamps to the last page")
	assert.Len(t, resp.Requirements, 2)
	assert.Equal(t, []int{1, 2}, resp.Pages)
}

func TestListFiltersByQueryAndFacet(t *testing.T) {
	s := store.New()
	_, err := s.Add(schema.Requirement{Description: "fit one", Owner: "Alice"})
	require.NoError(t, err)
	_, err = s.Add(schema.Requirement{Description: "gap one", Owner: "Alice", Classification: schema.ClassificationGap})
	require.NoError(t, err)
	router := newTestRouter(t, s, &stubExecutor{})

	w := doJSON(router, http.MethodGet, "/api/requirements?q=alice&classification=gap", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Requirements []schema.Requirement `json:"requirements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Requirements, 1)
	assert.Equal(t, "REQ-002", resp.Requirements[0].ReqID)
}

func TestCreateRequirement(t *testing.T) {
	s := store.New()
	router := newTestRouter(t, s, &stubExecutor{})

	w := doJSON(router, http.MethodPost, "/api/requirements", map[string]any{
		"description": "New requirement",
		"tags":        []string{"CPQ", "cpq"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created schema.Requirement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "REQ-001", created.ReqID)
	assert.Equal(t, []string{"cpq"}, created.Tags)

	w = doJSON(router, http.MethodPost, "/api/requirements", map[string]any{"description": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAndDeleteRequirement(t *testing.T) {
	s := store.New()
	added, err := s.Add(schema.Requirement{Description: "before"})
	require.NoError(t, err)
	router := newTestRouter(t, s, &stubExecutor{})

	w := doJSON(router, http.MethodPut, "/api/requirements/"+added.ID, map[string]any{
		"description":    "before",
		"classification": "gap",
		"priority":       "critical",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, schema.ClassificationGap, s.List()[0].Classification)

	w = doJSON(router, http.MethodPut, "/api/requirements/RQ-missing", map[string]any{"description": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/requirements/"+added.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.Len())

	w = doJSON(router, http.MethodDelete, "/api/requirements/"+added.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportAndExportCSV(t *testing.T) {
	s := store.New()
	router := newTestRouter(t, s, &stubExecutor{})

	csv := "reqId,section,description,status,classification,priority,owner,parentRequirement,tags\n" +
		`"","order_to_cash","Imported row","draft","fit","high","Bob","","tag1;tag2"` + "\n" +
		`"REQ-009","general","   ","draft","fit","low","","",""`

	req := httptest.NewRequest(http.MethodPost, "/api/requirements/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Imported int `json:"imported"`
		Skipped  int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Imported)
	assert.Equal(t, 1, resp.Skipped)

	w = doJSON(router, http.MethodGet, "/api/requirements/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "requirements_")
	assert.Contains(t, w.Body.String(), `"Imported row"`)
	assert.True(t, strings.HasPrefix(w.Body.String(), "reqId,"))
}

func TestExportWritesDiskCopy(t *testing.T) {
	s := store.New()
	seed(t, s, 1)
	dir := t.TempDir()
	runner := analysis.NewRunner(s, &stubExecutor{}, core.NopLogger{})
	router := NewRouter(RouterConfig{
		RequirementHandler: NewRequirementHandler(s, dir, core.NopLogger{}),
		AnalysisHandler:    NewAnalysisHandler(runner, core.NopLogger{}),
		AllowedOrigins:     []string{"http://localhost:3000"},
	})

	w := doJSON(router, http.MethodGet, "/api/requirements/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "requirements_"))
}

func TestSnapshotYAMLDownload(t *testing.T) {
	s := store.New()
	seed(t, s, 1)
	router := newTestRouter(t, s, &stubExecutor{})

	w := doJSON(router, http.MethodGet, "/api/requirements/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "requirements.yaml")
	assert.Contains(t, w.Body.String(), "req_id: REQ-001")
}

func TestGenerateEndpoint(t *testing.T) {
	s := store.New()
	exec := &stubExecutor{
		generation: &tasks.GenerationOutput{Requirements: []tasks.GeneratedFragment{
			{Section: "general", Description: "Generated", Priority: "low", SourceArtifact: "notes.md"},
		}},
	}
	router := newTestRouter(t, s, exec)

	w := doJSON(router, http.MethodPost, "/api/analysis/generate", map[string]any{
		"artifacts": []map[string]string{{"name": "notes.md", "content": "..."}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.Len())

	w = doJSON(router, http.MethodPost, "/api/analysis/generate", map[string]any{"artifacts": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassifyEndpointValidatesType(t *testing.T) {
	s := store.New()
	seed(t, s, 1)
	gap := schema.ClassificationGap
	score := 10
	rationale := "custom work"
	exec := &stubExecutor{
		classification: &tasks.ClassificationOutput{Results: []schema.AnalysisResult{
			{ReqID: "REQ-001", Classification: &gap, FitGapScore: &score, FitGapRationale: &rationale},
		}},
	}
	router := newTestRouter(t, s, exec)

	w := doJSON(router, http.MethodPost, "/api/analysis/classify", map[string]any{"analysisType": "sentiment"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/analysis/classify", map[string]any{"analysisType": "fitgap"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, schema.ClassificationGap, s.List()[0].Classification)
}

func TestAnalysisErrorsPassUpstreamStatusThrough(t *testing.T) {
	s := store.New()
	seed(t, s, 1)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rate limit", llm.NewAPIError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{"quota", llm.NewAPIError(http.StatusPaymentRequired, "no credits"), http.StatusPaymentRequired},
		{"upstream 500", llm.NewAPIError(http.StatusInternalServerError, "boom"), http.StatusInternalServerError},
		{"network", llm.NewNetworkError(assert.AnError), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, s, &stubExecutor{err: tt.err})
			w := doJSON(router, http.MethodPost, "/api/analysis/classify", map[string]any{"analysisType": "fitgap"})
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestAnalysisNotConfigured(t *testing.T) {
	s := store.New()
	seed(t, s, 1)
	router := newTestRouter(t, s, nil)

	w := doJSON(router, http.MethodPost, "/api/analysis/classify", map[string]any{"analysisType": "aoc"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
