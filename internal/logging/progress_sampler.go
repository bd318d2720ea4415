package logging

import "strings"

// ProgressSampler suppresses repetitive batch progress logs while preserving
// signal when the stage changes or completion crosses a percentage bucket.
type ProgressSampler struct {
	bucketSize float64
	lastStage  string
	lastBucket int
}

// NewProgressSampler constructs a sampler that emits when completion crosses
// bucket boundaries (default 10%) or when the stage changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether progress for current of total items should be
// logged. A non-positive total always logs.
func (s *ProgressSampler) ShouldLog(current, total int, stage string) bool {
	if s == nil || total <= 0 {
		return true
	}
	emit := false
	stage = strings.TrimSpace(stage)
	if stage != "" && stage != s.lastStage {
		s.lastStage = stage
		emit = true
	}
	percent := float64(current) * 100 / float64(total)
	bucket := int(percent / s.bucketSize)
	if current >= total {
		bucket = int(100/s.bucketSize) + 1
	}
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		emit = true
	}
	return emit
}

// Reset clears the sampler state between batches.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastStage = ""
	s.lastBucket = -1
}
