package grading

import (
	"encoding/json"
	"strings"
)

// Answer is a submitted answer as produced by the client. Depending on the
// input widget it is either a single string or a list of strings; the list
// shape is collapsed to a single value at the grading boundary.
type Answer struct {
	value  string
	values []string
	multi  bool
}

func Single(v string) Answer      { return Answer{value: v} }
func Multiple(vs []string) Answer { return Answer{values: vs, multi: true} }

func (a Answer) IsZero() bool {
	if a.multi {
		return len(a.values) == 0
	}
	return a.value == ""
}

// First is the conceptual single value: the first element of a list, or the
// value itself.
func (a Answer) First() string {
	if a.multi {
		if len(a.values) == 0 {
			return ""
		}
		return a.values[0]
	}
	return a.value
}

// Joined concatenates list elements with a single space. Used for essay
// grading, where every fragment counts toward presence.
func (a Answer) Joined() string {
	if a.multi {
		return strings.Join(a.values, " ")
	}
	return a.value
}

// MarshalJSON preserves the original wire shape: a plain string for single
// answers, an array for multi-select answers.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		return json.Marshal(a.values)
	}
	return json.Marshal(a.value)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Single(s)
		return nil
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	*a = Multiple(vs)
	return nil
}
