package scraper

import (
	"sync"
	"time"
)

// Stage represents where the pipeline currently is
type Stage string

const (
	StageIdle      Stage = "idle"
	StageFetching  Stage = "fetching_listing"
	StageEnriching Stage = "enriching"
	StageCompleted Stage = "completed"
	StageFailed    Stage = "failed"
)

// Progress is a point-in-time snapshot of a run
type Progress struct {
	Stage        Stage     `json:"stage"`
	Message      string    `json:"message,omitempty"`
	CurrentItem  int       `json:"current_item"`
	TotalItems   int       `json:"total_items"`
	EntriesFound int       `json:"entries_found"`
	LastError    string    `json:"last_error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProgressTracker tracks pipeline progress for the serve mode status endpoint
type ProgressTracker struct {
	mu      sync.RWMutex
	current Progress
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		current: Progress{
			Stage:     StageIdle,
			UpdatedAt: time.Now(),
		},
	}
}

// SetStage updates the stage and message
func (pt *ProgressTracker) SetStage(stage Stage, message string) {
	pt.mu.Lock()
	pt.current.Stage = stage
	pt.current.Message = message
	pt.current.UpdatedAt = time.Now()
	pt.mu.Unlock()
}

// SetFound records how many entries the listing extraction produced
func (pt *ProgressTracker) SetFound(n int) {
	pt.mu.Lock()
	pt.current.EntriesFound = n
	pt.current.UpdatedAt = time.Now()
	pt.mu.Unlock()
}

// SetItem records progress through the body-enrichment pass
func (pt *ProgressTracker) SetItem(current, total int, message string) {
	pt.mu.Lock()
	pt.current.Stage = StageEnriching
	pt.current.CurrentItem = current
	pt.current.TotalItems = total
	pt.current.Message = message
	pt.current.UpdatedAt = time.Now()
	pt.mu.Unlock()
}

// Complete marks the run as finished
func (pt *ProgressTracker) Complete(entries int) {
	pt.mu.Lock()
	pt.current.Stage = StageCompleted
	pt.current.EntriesFound = entries
	pt.current.Message = ""
	pt.current.UpdatedAt = time.Now()
	pt.mu.Unlock()
}

// Fail marks the run as failed with the given error
func (pt *ProgressTracker) Fail(err error) {
	pt.mu.Lock()
	pt.current.Stage = StageFailed
	pt.current.LastError = err.Error()
	pt.current.UpdatedAt = time.Now()
	pt.mu.Unlock()
}

// Snapshot returns a copy of the current progress
func (pt *ProgressTracker) Snapshot() Progress {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.current
}
