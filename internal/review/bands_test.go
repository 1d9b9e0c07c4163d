package review

import (
	"testing"
	"time"
)

func TestImprovementGrade(t *testing.T) {
	cases := []struct {
		rate float64
		want Grade
	}{
		{45, GradeS},
		{30, GradeS},
		{29.9, GradeA},
		{20, GradeA},
		{19.9, GradeB},
		{10, GradeB},
		{9.9, GradeC},
		{0, GradeC},
		{-0.1, GradeD},
		{-100, GradeD},
	}
	for _, c := range cases {
		if got := ImprovementGrade(c.rate); got != c.want {
			t.Errorf("ImprovementGrade(%v) = %s, want %s", c.rate, got, c.want)
		}
	}
}

func TestNextReviewInterval(t *testing.T) {
	cases := []struct {
		rate float64
		want time.Duration
	}{
		{40, 7 * 24 * time.Hour},
		{20.5, 7 * 24 * time.Hour},
		{20, 3 * 24 * time.Hour},
		{10.5, 3 * 24 * time.Hour},
		{10, 24 * time.Hour},
		{0, 24 * time.Hour},
		{-20, 24 * time.Hour},
	}
	for _, c := range cases {
		if got := NextReviewInterval(c.rate); got != c.want {
			t.Errorf("NextReviewInterval(%v) = %v, want %v", c.rate, got, c.want)
		}
	}
}
