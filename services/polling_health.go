package services

import (
	"sync"
	"time"

	"github.com/hazlamahedich/shop-sub002/models"
)

// PollingHealthState tracks scheduler liveness and recent outcomes. It is
// constructed per scheduler instance and injected wherever polling state is
// recorded or read, instead of living in package globals.
type PollingHealthState struct {
	mu           sync.Mutex
	running      bool
	lastPollAt   time.Time
	ordersSynced int64
	errorTimes   []time.Time
}

func NewPollingHealthState() *PollingHealthState {
	return &PollingHealthState{}
}

func (h *PollingHealthState) SetRunning(running bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = running
}

// RecordPoll marks a completed cycle and adds its synced-row count.
func (h *PollingHealthState) RecordPoll(synced int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastPollAt = time.Now().UTC()
	h.ordersSynced += int64(synced)
}

func (h *PollingHealthState) RecordError() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errorTimes = append(h.errorTimes, time.Now().UTC())
	h.pruneLocked()
}

// Snapshot returns a point-in-time view for the health endpoint.
func (h *PollingHealthState) Snapshot() models.PollingHealth {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pruneLocked()
	return models.PollingHealth{
		SchedulerRunning: h.running,
		LastPollAt:       h.lastPollAt,
		OrdersSynced:     h.ordersSynced,
		ErrorsLastHour:   len(h.errorTimes),
	}
}

// pruneLocked drops error timestamps older than one hour. Callers must
// hold the mutex.
func (h *PollingHealthState) pruneLocked() {
	cutoff := time.Now().UTC().Add(-time.Hour)
	kept := h.errorTimes[:0]
	for _, t := range h.errorTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	h.errorTimes = kept
}
