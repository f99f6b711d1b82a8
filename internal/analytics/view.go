package analytics

import "sort"

// SeriesPoint is one bar/line chart datum.
type SeriesPoint struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PieSlice is one proportional chart datum.
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ToSeries reshapes ranked entries into chart series points,
// preserving rank order.
func ToSeries(entries []CountEntry) []SeriesPoint {
	series := make([]SeriesPoint, len(entries))
	for i, e := range entries {
		series[i] = SeriesPoint{Name: e.Label, Count: e.Count}
	}
	return series
}

// ToPie reshapes ranked entries into pie slices, preserving
// rank order.
func ToPie(entries []CountEntry) []PieSlice {
	slices := make([]PieSlice, len(entries))
	for i, e := range entries {
		slices[i] = PieSlice{Name: e.Label, Value: e.Count}
	}
	return slices
}

// CompanySlices reshapes a per-company split into pie slices
// ordered by value descending, name ascending on ties.
func CompanySlices(byCompany map[string]int) []PieSlice {
	slices := make([]PieSlice, 0, len(byCompany))
	for name, value := range byCompany {
		slices = append(slices, PieSlice{Name: name, Value: value})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Name < slices[j].Name
	})
	return slices
}
