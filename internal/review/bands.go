package review

import "time"

// Grade buckets the improvement rate for the results view. The cutoffs come
// straight from the product copy; there is no derivation behind them.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

const (
	gradeSMinRate = 30
	gradeAMinRate = 20
	gradeBMinRate = 10
	gradeCMinRate = 0
)

func ImprovementGrade(rate float64) Grade {
	switch {
	case rate >= gradeSMinRate:
		return GradeS
	case rate >= gradeAMinRate:
		return GradeA
	case rate >= gradeBMinRate:
		return GradeB
	case rate >= gradeCMinRate:
		return GradeC
	default:
		return GradeD
	}
}

// Recommended spacing until the next review of the same material.
const (
	intervalLong   = 7 * 24 * time.Hour
	intervalMedium = 3 * 24 * time.Hour
	intervalShort  = 24 * time.Hour
)

// NextReviewInterval suggests when to review again: big gains earn a longer
// gap, small gains mean come back tomorrow.
func NextReviewInterval(rate float64) time.Duration {
	switch {
	case rate > 20:
		return intervalLong
	case rate > 10:
		return intervalMedium
	default:
		return intervalShort
	}
}
