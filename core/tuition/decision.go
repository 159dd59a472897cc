package tuition

import (
	"errors"
	"fmt"
)

// Attendance decisions
const (
	NotAttending Decision = iota
	PartTime
	FullTime
)

var (
	ErrInvalidDecision = errors.New("invalid attendance decision")

	decisionNames = map[Decision]string{
		NotAttending: "not_attending",
		PartTime:     "part_time",
		FullTime:     "full_time",
	}
)

// Decision is a student's attendance decision for a school year.
type Decision int

func ParseDecision(s string) (Decision, error) {
	for d, name := range decisionNames {
		if name == s {
			return d, nil
		}
	}
	return NotAttending, fmt.Errorf("%w: %q", ErrInvalidDecision, s)
}

func (d Decision) String() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

func (d Decision) Valid() bool {
	_, ok := decisionNames[d]
	return ok
}

func (d Decision) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDecision, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Decision) UnmarshalText(text []byte) error {
	parsed, err := ParseDecision(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Decisions maps student IDs to their attendance decision.
type Decisions map[string]Decision

// Equal reports whether both sets carry the same attendance.
// Students missing from one side count as not attending.
func (ds Decisions) Equal(other Decisions) bool {
	for id, d := range ds {
		if other[id] != d {
			return false
		}
	}
	for id, d := range other {
		if ds[id] != d {
			return false
		}
	}
	return true
}

// CalculateOptions derives the enrollment composition from per-student decisions.
// The first full-time student is the primary one, the others are siblings.
func CalculateOptions(decisions Decisions) Options {
	var fullTime, partTime int
	for _, d := range decisions {
		switch d {
		case FullTime:
			fullTime++
		case PartTime:
			partTime++
		}
	}

	opts := Options{PartTime: partTime}
	if fullTime > 0 {
		opts.FullTime = 1
		opts.Siblings = fullTime - 1
	}
	return opts
}
