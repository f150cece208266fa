package model

import (
	"slices"
)

// Kind selects which part of a message a search query is matched against.
type Kind string

// Search kinds supported by /api/v2/search.
const (
	KindFrom       Kind = "from"
	KindTo         Kind = "to"
	KindContaining Kind = "containing"
)

// Valid reports whether k is a search kind MailHog understands.
func (k Kind) Valid() bool {
	switch k {
	case KindFrom, KindTo, KindContaining:
		return true
	}
	return false
}

// SearchResult is the response of the v2 messages and search endpoints.
type SearchResult struct {
	Total int        `json:"total"`
	Count int        `json:"count"`
	Start int        `json:"start"`
	Items []*Message `json:"items"`
}

// SortByDate returns a copy of items sorted oldest first by SortTime.  Messages with equal times
// keep their relative order.
func SortByDate(items []*Message) []*Message {
	if len(items) == 0 {
		return items
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *Message) int {
		return a.SortTime().Compare(b.SortTime())
	})
	return sorted
}

// MostRecent returns the message with the latest SortTime, or nil if items is empty.  The
// first message in items wins a tie.
func MostRecent(items []*Message) *Message {
	if len(items) == 0 {
		return nil
	}
	latest := items[0]
	latestTime := latest.SortTime()
	for _, m := range items[1:] {
		if t := m.SortTime(); t.After(latestTime) {
			latest = m
			latestTime = t
		}
	}
	return latest
}
