// Package analysis coordinates the two gateway-backed operations:
// requirement generation from discovery artifacts and fit/gap or AOC
// classification. At most one run is in flight per store; results merge
// into the store only on full success, so a failed run leaves it
// untouched.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"rtmd/internal/core"
	"rtmd/internal/llm"
	"rtmd/internal/llm/tasks"
	"rtmd/internal/store"
	"rtmd/pkg/schema"
)

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = errors.New("analysis already in progress")

// ErrNotConfigured is returned when no gateway API key was provided.
var ErrNotConfigured = errors.New("AI gateway not configured")

// Executor abstracts the gateway tasks for testability.
type Executor interface {
	ExecuteGeneration(ctx context.Context, input *tasks.GenerationInput) (*tasks.GenerationOutput, error)
	ExecuteClassification(ctx context.Context, input *tasks.ClassificationInput) (*tasks.ClassificationOutput, error)
}

// GatewayExecutor implements Executor over a real gateway client.
type GatewayExecutor struct {
	client *llm.Client
}

// NewGatewayExecutor creates an Executor backed by real gateway calls.
func NewGatewayExecutor(client *llm.Client) *GatewayExecutor {
	return &GatewayExecutor{client: client}
}

func (e *GatewayExecutor) ExecuteGeneration(ctx context.Context, input *tasks.GenerationInput) (*tasks.GenerationOutput, error) {
	return tasks.ExecuteGenerationTask(e.client, ctx, input)
}

func (e *GatewayExecutor) ExecuteClassification(ctx context.Context, input *tasks.ClassificationInput) (*tasks.ClassificationOutput, error) {
	return tasks.ExecuteClassificationTask(e.client, ctx, input)
}

// Runner drives analysis runs against a store.
type Runner struct {
	store *store.Store
	exec  Executor
	log   core.Logger

	mu   sync.Mutex
	busy bool
}

// NewRunner creates a runner. exec may be nil when the gateway is not
// configured; runs then fail with ErrNotConfigured.
func NewRunner(s *store.Store, exec Executor, log core.Logger) *Runner {
	if log == nil {
		log = core.NopLogger{}
	}
	return &Runner{
		store: s,
		exec:  exec,
		log:   log,
	}
}

// Generate extracts requirement fragments from artifacts and appends
// them to the store. Fragments with a blank description are dropped the
// same way blank CSV rows are. Returns the number of records added.
func (r *Runner) Generate(ctx context.Context, artifacts []llm.Artifact) (int, error) {
	release, err := r.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	runID, err := schema.NewRunID()
	if err != nil {
		return 0, fmt.Errorf("generate run ID: %w", err)
	}
	r.log.Info("generation run started", "run_id", runID, "artifacts", len(artifacts))

	input := &tasks.GenerationInput{
		Artifacts:            artifacts,
		ExistingRequirements: r.store.List(),
	}
	output, err := r.exec.ExecuteGeneration(ctx, input)
	if err != nil {
		r.log.Error("generation run failed", "run_id", runID, "error", err.Error())
		return 0, &core.AnalysisError{Operation: "generate", Message: err.Error(), Err: err}
	}

	rows := make([]schema.Requirement, 0, len(output.Requirements))
	dropped := 0
	for _, frag := range output.Requirements {
		if strings.TrimSpace(frag.Description) == "" {
			dropped++
			continue
		}
		rows = append(rows, schema.Requirement{
			Section:        schema.Section(frag.Section),
			Description:    frag.Description,
			Priority:       schema.Priority(frag.Priority),
			Tags:           frag.Tags,
			SourceArtifact: frag.SourceArtifact,
		})
	}

	added, err := r.store.ImportRows(rows)
	if err != nil {
		return added, err
	}
	r.log.Info("generation run finished", "run_id", runID, "added", added, "dropped", dropped)
	return added, nil
}

// Classify runs fit/gap or AOC analysis over the full store and merges
// the results back by display ID. Returns the number of records updated.
func (r *Runner) Classify(ctx context.Context, analysisType string) (int, error) {
	release, err := r.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	requirements := r.store.List()
	if len(requirements) == 0 {
		return 0, &core.ValidationError{Field: "requirements", Message: "nothing to classify"}
	}

	runID, err := schema.NewRunID()
	if err != nil {
		return 0, fmt.Errorf("generate run ID: %w", err)
	}
	r.log.Info("classification run started", "run_id", runID, "type", analysisType, "requirements", len(requirements))

	input := &tasks.ClassificationInput{
		Requirements: requirements,
		AnalysisType: analysisType,
	}
	output, err := r.exec.ExecuteClassification(ctx, input)
	if err != nil {
		r.log.Error("classification run failed", "run_id", runID, "error", err.Error())
		return 0, &core.AnalysisError{Operation: "classify", Message: err.Error(), Err: err}
	}

	merged := r.store.MergeAnalysis(output.Results)
	r.log.Info("classification run finished", "run_id", runID, "merged", merged, "results", len(output.Results))
	return merged, nil
}

// Busy reports whether a run is currently in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// acquire takes the single run slot without blocking. The dashboard
// disables the triggering action while a run is pending, so a concurrent
// request is a client bug and gets ErrBusy instead of queueing.
func (r *Runner) acquire() (func(), error) {
	if r.exec == nil {
		return nil, ErrNotConfigured
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return nil, ErrBusy
	}
	r.busy = true
	return func() {
		r.mu.Lock()
		r.busy = false
		r.mu.Unlock()
	}, nil
}
