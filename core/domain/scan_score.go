package domain

import "sort"

// Severity ranks a warning. Warnings are always emitted pre-sorted by rank,
// critical first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Rank returns the sort rank of the severity (critical = 0). Unknown
// severities sort last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// Warning is a single consumer-facing alert attached to a scan.
type Warning struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// SortWarnings orders warnings in place by severity rank, critical first.
// The sort is stable so same-severity warnings keep their emission order.
func SortWarnings(warnings []Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity.Rank() < warnings[j].Severity.Rank()
	})
}

// Grade is one symbol of the fixed 12-band scale, or "?" when the merged
// record had insufficient data to score.
type Grade string

const (
	GradeA       Grade = "A"
	GradeAMinus  Grade = "A-"
	GradeBPlus   Grade = "B+"
	GradeB       Grade = "B"
	GradeBMinus  Grade = "B-"
	GradeCPlus   Grade = "C+"
	GradeC       Grade = "C"
	GradeCMinus  Grade = "C-"
	GradeDPlus   Grade = "D+"
	GradeD       Grade = "D"
	GradeDMinus  Grade = "D-"
	GradeF       Grade = "F"
	GradeUnknown Grade = "?"
)

// HealthScore is the scoring engine output.
type HealthScore struct {
	Score    int       `json:"score"` // 0..100
	Grade    Grade     `json:"grade"`
	Status   string    `json:"status"`
	Warnings []Warning `json:"warnings"`
}

// StatusInsufficientData is the sentinel status used when scoring is skipped.
const StatusInsufficientData = "Insufficient Data"
