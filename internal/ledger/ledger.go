package ledger

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/metrics"
)

// Pagination defaults, applied when a caller passes negative values.
const (
	DefaultLimit  = 50
	DefaultOffset = 0
)

// Ledger is a bounded, append-only store of accepted mood entries.
type Ledger struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	capacity int
	entries  []domain.MoodEntry
}

// New creates a ledger holding at most capacity entries.
func New(capacity int, clock clockwork.Clock) *Ledger {
	return &Ledger{
		clock:    clock,
		capacity: capacity,
		entries:  make([]domain.MoodEntry, 0, capacity),
	}
}

// Append stores a new entry built from the given analysis, assigning a fresh
// id and timestamp. If the ledger exceeds capacity the oldest entries are
// dropped in the same critical section.
func (l *Ledger) Append(analysis domain.Analysis) domain.MoodEntry {
	entry := domain.MoodEntry{
		ID:         uuid.NewString(),
		Text:       analysis.Text,
		Sentiment:  analysis.Label,
		Confidence: analysis.Confidence,
		CreatedAt:  l.clock.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		overflow := len(l.entries) - l.capacity
		l.entries = append(l.entries[:0], l.entries[overflow:]...)
	}
	metrics.LedgerEntries.Set(float64(len(l.entries)))

	return entry
}

// Page returns entries in most-recent-first order. Total is the ledger size
// at read time. Negative limit or offset fall back to the defaults; limit 0
// or an offset past the end yield an empty page.
func (l *Ledger) Page(limit, offset int) domain.MoodPage {
	if limit < 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = DefaultOffset
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	total := len(l.entries)
	items := []domain.MoodEntry{}
	if limit == 0 || offset >= total {
		return domain.MoodPage{Items: items, Total: total}
	}

	// Walk backwards from the newest entry.
	start := total - 1 - offset
	for i := start; i >= 0 && len(items) < limit; i-- {
		items = append(items, l.entries[i])
	}

	return domain.MoodPage{Items: items, Total: total}
}

// Size returns the current number of stored entries.
func (l *Ledger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Capacity returns the maximum number of entries the ledger retains.
func (l *Ledger) Capacity() int {
	return l.capacity
}
