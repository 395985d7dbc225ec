// Package performance provides lightweight operation timing for Support
// Centre request handling.
package performance

import (
	"sync"
	"time"
)

// Marker tracks a single timed operation from start to completion
type Marker struct {
	Operation string        `json:"operation"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Completed bool          `json:"completed"`
}

// Complete finalizes the marker and records its duration
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.Duration = time.Since(m.StartTime)
	m.Completed = true
}

// SetSuccess marks whether the operation succeeded
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// Tracker retains a bounded window of completed operation markers
type Tracker struct {
	markers    []*Marker
	maxMarkers int
	started    time.Time
	mu         sync.RWMutex
}

// NewTracker creates a tracker retaining at most maxMarkers markers
func NewTracker(maxMarkers int) *Tracker {
	if maxMarkers <= 0 {
		maxMarkers = 1000
	}
	return &Tracker{
		markers:    make([]*Marker, 0, maxMarkers),
		maxMarkers: maxMarkers,
		started:    time.Now().UTC(),
	}
}

// StartOperation creates and tracks a new performance marker
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true, // Assume success until proven otherwise
	}

	t.mu.Lock()
	t.markers = append(t.markers, marker)
	if len(t.markers) > t.maxMarkers {
		t.markers = t.markers[len(t.markers)-t.maxMarkers:]
	}
	t.mu.Unlock()

	return marker
}

// RecentMetrics returns completed markers recorded within the given window
func (t *Tracker) RecentMetrics(within time.Duration) []Marker {
	cutoff := time.Now().Add(-within)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var metrics []Marker
	for _, marker := range t.markers {
		if marker.Completed && marker.StartTime.After(cutoff) {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// OverallStats summarizes tracked operations for the sysop dashboard
func (t *Tracker) OverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var completed, failed int
	var total time.Duration
	for _, marker := range t.markers {
		if !marker.Completed {
			continue
		}
		completed++
		total += marker.Duration
		if !marker.Success {
			failed++
		}
	}

	stats := map[string]any{
		"trackedOperations": completed,
		"failedOperations":  failed,
		"uptimeSeconds":     int(time.Since(t.started).Seconds()),
	}
	if completed > 0 {
		stats["avgDurationMs"] = float64(total.Milliseconds()) / float64(completed)
	}
	return stats
}
