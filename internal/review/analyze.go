package review

// WeakAreaThreshold is the post-review accuracy below which a tag counts as a
// weak area. Strictly less than: a tag at exactly 70% is not weak.
const WeakAreaThreshold = 0.7

type tagStats struct {
	correct  int
	total    int
	improved int
}

// Analyze groups the scored details by tag and derives weak and strength
// areas. A question with N tags contributes to N buckets; untagged questions
// contribute to none. Both lists keep the insertion order of the first tag
// occurrence, and a tag may legitimately appear in both: still below the
// weak threshold overall, yet with at least one improved question.
func Analyze(details []Detail) (weakAreas, strengthAreas []string) {
	stats := map[string]*tagStats{}
	var order []string

	for _, d := range details {
		for _, tag := range d.Question.Tags {
			st, ok := stats[tag]
			if !ok {
				st = &tagStats{}
				stats[tag] = st
				order = append(order, tag)
			}
			st.total++
			if d.CorrectNow {
				st.correct++
			}
			if d.Improved {
				st.improved++
			}
		}
	}

	for _, tag := range order {
		st := stats[tag]
		if float64(st.correct)/float64(st.total) < WeakAreaThreshold {
			weakAreas = append(weakAreas, tag)
		}
		if st.improved > 0 {
			strengthAreas = append(strengthAreas, tag)
		}
	}
	return weakAreas, strengthAreas
}
