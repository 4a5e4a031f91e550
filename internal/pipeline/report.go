package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Stage is the pipeline step a run is in.
type Stage string

const (
	StageLoadingGraph     Stage = "loading_graph"
	StageBuildingSections Stage = "building_sections"
	StageResolving        Stage = "resolving"
	StageFetching         Stage = "fetching"
	StageWriting          Stage = "writing"
	StageCompleted        Stage = "completed"
	StageFailed           Stage = "failed"
)

// Report tracks the state of one run. Safe for concurrent use.
type Report struct {
	mu sync.Mutex

	id        string
	stage     Stage
	counts    Counts
	degraded  bool
	errors    []string
	startedAt time.Time
	updatedAt time.Time
}

// Counts are the per-run tallies.
type Counts struct {
	Nodes            int `json:"nodes"`
	Sections         int `json:"sections"`
	FallbackSections int `json:"fallback_sections"`
	Documents        int `json:"documents"`
	Fetched          int `json:"fetched"`
	Placeholders     int `json:"placeholders"`
	Topics           int `json:"topics"`
	Extras           int `json:"extras"`
	Files            int `json:"files"`
}

func NewReport() *Report {
	now := time.Now()
	return &Report{
		id:        uuid.New().String(),
		stage:     StageLoadingGraph,
		startedAt: now,
		updatedAt: now,
	}
}

// SetStage moves the run to a new stage.
func (r *Report) SetStage(s Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stage = s
	r.updatedAt = time.Now()
}

// Update applies fn to the counts under the lock.
func (r *Report) Update(fn func(*Counts)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.counts)
	r.updatedAt = time.Now()
}

// IncrFetched records one completed fetch.
func (r *Report) IncrFetched(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts.Fetched++
	if !ok {
		r.counts.Placeholders++
	}
	r.updatedAt = time.Now()
}

// SetDegraded marks that topic resolution ran without a listing.
func (r *Report) SetDegraded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = true
	r.updatedAt = time.Now()
}

// AddError records a non-fatal or fatal error message.
func (r *Report) AddError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
	r.updatedAt = time.Now()
}

// ID identifies the run in logs.
func (r *Report) ID() string { return r.id }

// ReportSnapshot is a read-only, JSON-safe copy of the report.
type ReportSnapshot struct {
	RunID    string        `json:"run_id"`
	Stage    Stage         `json:"stage"`
	Counts   Counts        `json:"counts"`
	Degraded bool          `json:"degraded"`
	Errors   []string      `json:"errors"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Snapshot returns a copy of the report state.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]string, len(r.errors))
	copy(errs, r.errors)
	return ReportSnapshot{
		RunID:    r.id,
		Stage:    r.stage,
		Counts:   r.counts,
		Degraded: r.degraded,
		Errors:   errs,
		Elapsed:  r.updatedAt.Sub(r.startedAt),
	}
}
