package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mintforge/internal/correlate"
	"mintforge/internal/manifest"
)

// Job holds the state of one batch invocation. It is not persisted.
type Job struct {
	id        string
	pairs     []correlate.Pair
	unmatched []manifest.Row

	mu       sync.Mutex
	progress Progress
	results  []ItemResult
}

// NewJob creates a job for plan with a fresh batch identifier.
func NewJob(plan correlate.Result) *Job {
	id := uuid.NewString()
	return &Job{
		id:        id,
		pairs:     plan.Pairs,
		unmatched: plan.Unmatched,
		progress: Progress{
			BatchID: id,
			Total:   len(plan.Pairs),
			Status:  "Pending",
		},
		results: make([]ItemResult, 0, len(plan.Pairs)),
	}
}

// ID returns the batch identifier.
func (j *Job) ID() string {
	return j.id
}

// Pairs returns the pairs the job will process, in manifest order.
func (j *Job) Pairs() []correlate.Pair {
	return j.pairs
}

// Progress returns the latest snapshot.
func (j *Job) Progress() Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress
}

// Results returns a copy of the results recorded so far.
func (j *Job) Results() []ItemResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]ItemResult, len(j.results))
	copy(out, j.results)
	return out
}

func (j *Job) enterStage(pair correlate.Pair, name string, stage Stage) Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.Stage = stage
	j.progress.RowIndex = pair.Row.Index
	j.progress.ItemName = name
	j.progress.Status = fmt.Sprintf("%s %s (%d/%d)", stageVerb(stage), name, j.progress.Current+1, j.progress.Total)
	return j.progress
}

func (j *Job) complete(result ItemResult) Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, result)
	j.progress.Current = len(j.results)
	j.progress.Stage = StageDone
	j.progress.RowIndex = result.RowIndex
	j.progress.ItemName = result.Name
	if result.Succeeded() {
		j.progress.Succeeded++
		j.progress.Status = fmt.Sprintf("Minted %s (%d/%d)", result.Name, j.progress.Current, j.progress.Total)
	} else {
		j.progress.Failed++
		j.progress.Status = fmt.Sprintf("Failed %s (%d/%d): %s", result.Name, j.progress.Current, j.progress.Total, result.Kind)
	}
	return j.progress
}

func (j *Job) finish(cancelled bool) Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.Stage = ""
	j.progress.RowIndex = 0
	j.progress.ItemName = ""
	prefix := "Completed"
	if cancelled {
		prefix = "Cancelled"
	}
	j.progress.Status = fmt.Sprintf("%s: %d minted, %d failed, %d skipped",
		prefix, j.progress.Succeeded, j.progress.Failed, len(j.unmatched))
	return j.progress
}

func stageVerb(stage Stage) string {
	switch stage {
	case StageUpload:
		return "Uploading"
	case StageMint:
		return "Minting"
	case StagePersist:
		return "Saving"
	default:
		return "Processing"
	}
}

func (j *Job) summary(collection CollectionRef, elapsed time.Duration, cancelled bool) *Summary {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := &Summary{
		BatchID:    j.id,
		Collection: collection,
		Total:      len(j.pairs),
		Attempted:  len(j.results),
		Skipped:    len(j.unmatched),
		Cancelled:  cancelled,
		Results:    make([]ItemResult, len(j.results)),
		Duration:   elapsed,
	}
	copy(s.Results, j.results)
	for _, r := range j.results {
		if r.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
		if r.Orphaned {
			s.Orphaned++
		}
	}
	for _, row := range j.unmatched {
		s.SkippedRows = append(s.SkippedRows, row.Index)
	}
	return s
}
