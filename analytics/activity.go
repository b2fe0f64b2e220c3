// ABOUTME: Activity pattern summaries
// ABOUTME: Aggregates per-type activity counts into a report
package analytics

import (
	"sort"
)

// TypeCount is one activity type with its count.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ActivityReport summarizes activity volume over a window.
type ActivityReport struct {
	TotalActivities int         `json:"total_activities"`
	ByType          []TypeCount `json:"by_type"`
	BusiestType     string      `json:"busiest_type,omitempty"`
}

// ActivitySummary builds a report from per-type counts, ordered by count
// descending with ties broken by type name for stable output.
func ActivitySummary(typeCounts map[string]int) *ActivityReport {
	report := &ActivityReport{}

	for activityType, count := range typeCounts {
		report.TotalActivities += count
		report.ByType = append(report.ByType, TypeCount{Type: activityType, Count: count})
	}

	sort.Slice(report.ByType, func(i, j int) bool {
		if report.ByType[i].Count != report.ByType[j].Count {
			return report.ByType[i].Count > report.ByType[j].Count
		}
		return report.ByType[i].Type < report.ByType[j].Type
	})

	if len(report.ByType) > 0 {
		report.BusiestType = report.ByType[0].Type
	}

	return report
}
