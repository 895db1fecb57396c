package scoring

import "scan_server/core/domain"

// =============================================================================
// Grade Bands
// =============================================================================
//
// Fixed 12-band total mapping from score to grade. Bands are evaluated top
// down; every score in [0,100] falls in exactly one band.

type gradeBand struct {
	MinScore int
	Grade    domain.Grade
	Status   string
}

var gradeBands = []gradeBand{
	{MinScore: 90, Grade: domain.GradeA, Status: "Excellent"},
	{MinScore: 85, Grade: domain.GradeAMinus, Status: "Excellent"},
	{MinScore: 80, Grade: domain.GradeBPlus, Status: "Very Good"},
	{MinScore: 75, Grade: domain.GradeB, Status: "Good"},
	{MinScore: 70, Grade: domain.GradeBMinus, Status: "Good"},
	{MinScore: 65, Grade: domain.GradeCPlus, Status: "Fair"},
	{MinScore: 60, Grade: domain.GradeC, Status: "Fair"},
	{MinScore: 50, Grade: domain.GradeCMinus, Status: "Mediocre"},
	{MinScore: 40, Grade: domain.GradeDPlus, Status: "Poor"},
	{MinScore: 32, Grade: domain.GradeD, Status: "Poor"},
	{MinScore: 25, Grade: domain.GradeDMinus, Status: "Very Poor"},
	{MinScore: 0, Grade: domain.GradeF, Status: "Avoid"},
}

// GradeForScore maps a clamped score to its grade band.
func GradeForScore(score int) (domain.Grade, string) {
	for _, band := range gradeBands {
		if score >= band.MinScore {
			return band.Grade, band.Status
		}
	}
	return domain.GradeF, "Avoid"
}
