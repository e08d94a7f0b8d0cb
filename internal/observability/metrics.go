package observability

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Outcome labels an operator action result.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
	// OutcomeCanceled marks an action abandoned by interrupt or end of input.
	OutcomeCanceled Outcome = "canceled"
)

// Metrics provides basic in-memory counters for operator actions.
type Metrics struct {
	mu        sync.Mutex
	counts    map[string]int64
	durations map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		counts:    make(map[string]int64),
		durations: make(map[string]time.Duration),
	}
}

// RecordAction increments the counter for an action and outcome.
func (m *Metrics) RecordAction(action string, outcome Outcome, duration time.Duration) {
	if m == nil {
		return
	}
	key := actionKey(action, outcome)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	m.durations[action] += duration
}

// Count returns the counter value for an action and outcome.
func (m *Metrics) Count(action string, outcome Outcome) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[actionKey(action, outcome)]
}

// LogSummary writes one line per counter, sorted by key.
func (m *Metrics) LogSummary(logger *zap.Logger) {
	if m == nil || logger == nil {
		return
	}
	m.mu.Lock()
	keys := make([]string, 0, len(m.counts))
	for k := range m.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	snapshot := make(map[string]int64, len(keys))
	for _, k := range keys {
		snapshot[k] = m.counts[k]
	}
	m.mu.Unlock()

	for _, k := range keys {
		logger.Info("action summary", zap.String("action", k), zap.Int64("count", snapshot[k]))
	}
}

func actionKey(action string, outcome Outcome) string {
	return action + "|" + string(outcome)
}
