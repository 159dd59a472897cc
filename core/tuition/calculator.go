package tuition

import (
	"math"

	"github.com/volatiletech/null/v8"
)

// maxBrackets caps the rows Brackets may produce.
const maxBrackets = 500

// Options describes a family's enrollment composition for a given year.
// FullTime students pay the full rate, Siblings are additional full-time
// students at Factors.Sibling and PartTime students pay Factors.PartTime.
type Options struct {
	FullTime int `json:"full_time" query:"full_time"`
	PartTime int `json:"part_time" query:"part_time"`
	Siblings int `json:"siblings" query:"siblings"`

	Year    Scale   `json:"-" query:"-"`
	Factors Factors `json:"-" query:"-"`
}

// Students returns the number of attending students.
func (o Options) Students() int {
	return nonNegative(o.FullTime) + nonNegative(o.PartTime) + nonNegative(o.Siblings)
}

// Factor returns the composition factor. Options without any student count as one full-time student.
func (o Options) Factor() float64 {
	fullTime, partTime, siblings := nonNegative(o.FullTime), nonNegative(o.PartTime), nonNegative(o.Siblings)
	if fullTime == 0 && partTime == 0 && siblings == 0 {
		fullTime = 1
	}
	f := o.Factors.Or(DefaultFactors)
	return float64(fullTime) + float64(siblings)*f.Sibling + float64(partTime)*f.PartTime
}

// attendance returns the full-time and part-time head counts,
// one full-time student when there is none at all.
func (o Options) attendance() (fullTime, partTime int) {
	fullTime, partTime = nonNegative(o.FullTime)+nonNegative(o.Siblings), nonNegative(o.PartTime)
	if fullTime == 0 && partTime == 0 {
		fullTime = 1
	}
	return fullTime, partTime
}

func (o Options) sameAttendance(other Options) bool {
	fullTime, partTime := o.attendance()
	otherFullTime, otherPartTime := other.attendance()
	return fullTime == otherFullTime && partTime == otherPartTime
}

// Base returns the tuition of a single full-time student for income on scale.
func Base(income float64, scale Scale) float64 {
	if math.IsNaN(income) || income < 0 {
		income = 0
	}
	if income <= scale.MinIncome {
		return scale.MinTuition
	}
	if income >= scale.MaxIncome {
		return scale.MaxTuition
	}

	x := (income - scale.MinIncome) / (scale.MaxIncome - scale.MinIncome)
	s := scale.Steepness + steepnessEpsilon
	y := (math.Pow(s, x) - 1) / (s - 1)
	return scale.MinTuition + (scale.MaxTuition-scale.MinTuition)*y
}

// ForIncome computes the tuition owed by a family.
// A null income means the family opted out of the sliding scale and pays the ceiling rate.
func ForIncome(income null.Float64, opts Options) float64 {
	inc := opts.Year.MaxIncome
	if income.Valid {
		inc = income.Float64
	}
	return Base(inc, opts.Year) * opts.Factor()
}

// MinimumTuition is the lowest tuition a family may be charged.
// Incomes above the scale's ceiling saturate at MaxIncome.
func MinimumTuition(income null.Float64, opts Options) float64 {
	if !income.Valid || income.Float64 > opts.Year.MaxIncome {
		income = null.Float64From(opts.Year.MaxIncome)
	}
	return ForIncome(income, opts)
}

// Bracket is a row of a sliding-scale table.
type Bracket struct {
	Income    float64 `json:"income"`
	Tuition   float64 `json:"tuition"`
	Formatted string  `json:"formatted"`
}

// Brackets tabulates the tuition from MinIncome to MaxIncome every step.
// The last row is always MaxIncome.
func Brackets(opts Options, step float64) []Bracket {
	lo, hi := opts.Year.MinIncome, opts.Year.MaxIncome
	if hi <= lo {
		return []Bracket{newBracket(lo, opts)}
	}
	if step <= 0 || math.IsNaN(step) || (hi-lo)/step > maxBrackets {
		step = math.Ceil((hi - lo) / maxBrackets)
		if step < 1 {
			step = 1
		}
	}

	brackets := make([]Bracket, 0, int((hi-lo)/step)+2)
	for inc := lo; inc < hi; inc += step {
		brackets = append(brackets, newBracket(inc, opts))
	}
	return append(brackets, newBracket(hi, opts))
}

func newBracket(income float64, opts Options) Bracket {
	amount := ForIncome(null.Float64From(income), opts)
	return Bracket{Income: income, Tuition: amount, Formatted: FormatCurrency(amount)}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
