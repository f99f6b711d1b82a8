package analytics

import "sort"

// TopN is the length ranked lists are truncated to.
const TopN = 10

// CountEntry is one row of a ranked list.
type CountEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Rank orders a counter's entries by count descending and
// truncates to TopN. Ties break by label ascending, then key
// ascending, so equal counts always rank in the same order
// regardless of map iteration.
func Rank(counts map[string]Tally) []CountEntry {
	entries := make([]CountEntry, 0, len(counts))
	for key, t := range counts {
		entries = append(entries, CountEntry{
			Key:   key,
			Label: t.Label,
			Count: t.Count,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Key < b.Key
	})
	if len(entries) > TopN {
		entries = entries[:TopN]
	}
	return entries
}
