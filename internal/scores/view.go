package scores

import (
	"math"
	"sort"
	"strings"
)

type Row struct {
	Record
	Percent int  `json:"percent"`
	Top     bool `json:"top"`
}

// View is the sorted, filtered projection shown on the scoreboard.
type View struct {
	Rows       []Row    `json:"rows"`
	Sort       SortMode `json:"sort"`
	Filter     string   `json:"filter"`
	Stored     int      `json:"stored"`
	TopPercent int      `json:"top_percent"`
	TopCount   int      `json:"top_count"`
	Average    int      `json:"average"`
	HasAverage bool     `json:"has_average"`
}

// Tied reports whether more than one visible row shares the top percentage.
func (v View) Tied() bool {
	return v.TopCount > 1
}

// BuildView filters, sorts and aggregates records. The input slice is not
// modified.
func BuildView(records []Record, mode SortMode, filter string) View {
	mode = ParseSortMode(string(mode))
	view := View{
		Rows:   make([]Row, 0, len(records)),
		Sort:   mode,
		Filter: filter,
		Stored: len(records),
	}

	needle := strings.ToLower(strings.TrimSpace(filter))
	for _, record := range records {
		if needle != "" && !strings.Contains(strings.ToLower(record.Name), needle) {
			continue
		}
		view.Rows = append(view.Rows, Row{Record: record, Percent: record.Percent()})
	}

	sortRows(view.Rows, mode)

	if len(view.Rows) == 0 {
		return view
	}

	sumCorrect, sumTotal := 0, 0
	view.TopPercent = view.Rows[0].Percent
	for _, row := range view.Rows {
		if row.Percent > view.TopPercent {
			view.TopPercent = row.Percent
		}
		sumCorrect += row.Correct
		sumTotal += row.Total
	}
	for idx := range view.Rows {
		if view.Rows[idx].Percent == view.TopPercent {
			view.Rows[idx].Top = true
			view.TopCount++
		}
	}

	if sumTotal > 0 {
		view.Average = roundPercent(sumCorrect, sumTotal)
		view.HasAverage = true
	}

	return view
}

func sortRows(rows []Row, mode SortMode) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch mode {
		case SortOldest:
			return a.Timestamp < b.Timestamp
		case SortHighest:
			if a.Ratio() != b.Ratio() {
				return a.Ratio() > b.Ratio()
			}
			return a.Timestamp > b.Timestamp
		case SortLowest:
			if a.Ratio() != b.Ratio() {
				return a.Ratio() < b.Ratio()
			}
			return a.Timestamp < b.Timestamp
		default:
			return a.Timestamp > b.Timestamp
		}
	})
}

func roundPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
