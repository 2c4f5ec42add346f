package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxEntryRunes is the maximum length of a mood entry, counted in runes
// before trimming.
const MaxEntryRunes = 1000

// MoodEntry is one accepted mood submission. Entries are immutable after
// creation and are only removed by capacity eviction.
type MoodEntry struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Sentiment  Label     `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"timestamp"`
}

// MoodPage is one page of ledger entries, most recent first. Total is the
// ledger size at read time, not the number of items returned.
type MoodPage struct {
	Items []MoodEntry
	Total int
}

// ValidateEntryText checks the shape of a submitted mood text.
// The text must be non-empty after trimming and at most MaxEntryRunes long.
func ValidateEntryText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrTextEmpty
	}
	if utf8.RuneCountInString(text) > MaxEntryRunes {
		return ErrTextTooLong
	}
	return nil
}
