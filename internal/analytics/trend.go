package analytics

import (
	"sort"
	"time"

	"github.com/namsa/insights/internal/store"
)

// TimeSeriesPoint is one month's selection count. Month is
// "YYYY-MM", zero-padded so lexicographic order is chronological
// order.
type TimeSeriesPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// monthKey derives the bucket key from a sheet timestamp.
// Accepts RFC3339 or a bare date. Returns "" when the timestamp
// is unusable, which excludes the sheet from the trend.
func monthKey(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01")
	}
	if t, err := time.Parse("2006-01-02", ts); err == nil {
		return t.Format("2006-01")
	}
	return ""
}

// MonthlyTrend buckets the snapshot by calendar month of sheet
// creation. Each sheet contributes its resolvable selection
// count to its month.
func MonthlyTrend(sheets []store.LogSheet) []TimeSeriesPoint {
	buckets := make(map[string]int)
	for _, sheet := range sheets {
		key := monthKey(sheet.CreatedAt)
		if key == "" {
			continue
		}
		n := 0
		for _, entry := range sheet.Selections {
			if entry.TrackID != nil && *entry.TrackID != "" {
				n++
			}
		}
		if n > 0 {
			buckets[key] += n
		}
	}
	return sortedSeries(buckets)
}

// TrackMonthlyTrend buckets selections of a single track by
// month: one increment per matching selection event.
func TrackMonthlyTrend(
	sheets []store.LogSheet, trackID string,
) []TimeSeriesPoint {
	buckets := make(map[string]int)
	for _, sheet := range sheets {
		key := monthKey(sheet.CreatedAt)
		if key == "" {
			continue
		}
		for _, entry := range sheet.Selections {
			if entry.TrackID != nil && *entry.TrackID == trackID {
				buckets[key]++
			}
		}
	}
	return sortedSeries(buckets)
}

// sortedSeries flattens month buckets into an ascending series.
func sortedSeries(buckets map[string]int) []TimeSeriesPoint {
	series := make([]TimeSeriesPoint, 0, len(buckets))
	for month, count := range buckets {
		series = append(series, TimeSeriesPoint{
			Month: month,
			Count: count,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}
