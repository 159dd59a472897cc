package tuition

import "math"

const (
	// steepnessEpsilon keeps the curve's base away from exactly 1.
	steepnessEpsilon = 0.01

	steepnessTolerance = 1e-9
)

// DefaultMaxChange is the fraction a family's tuition may move year over year.
const DefaultMaxChange = .1

var (
	DefaultScale = Scale{
		MinIncome:  28000,
		MaxIncome:  120000,
		MinTuition: 1000,
		MaxTuition: 12500,
		Steepness:  1.56,
	}

	DefaultFactors = Factors{
		Sibling:  .85,
		PartTime: .625,
	}
)

// Scale holds a school year's sliding-scale bounds.
//
// MinIncome < MaxIncome and MinTuition < MaxTuition are preconditions:
// the curve does not check them and an inverted scale yields meaningless amounts.
type Scale struct {
	MinIncome  float64 `json:"min_income" yaml:"min_income"`
	MaxIncome  float64 `json:"max_income" yaml:"max_income"`
	MinTuition float64 `json:"min_tuition" yaml:"min_tuition"`
	MaxTuition float64 `json:"max_tuition" yaml:"max_tuition"`
	Steepness  float64 `json:"steepness" yaml:"steepness"`
}

// ValidSteepness reports whether the curve is defined for steepness:
// it must be positive and must not bring the curve's base to 1.
func ValidSteepness(steepness float64) bool {
	return steepness > 0 && math.Abs(steepness+steepnessEpsilon-1) > steepnessTolerance
}

// Or returns s with every unset bound taken from def.
func (s Scale) Or(def Scale) Scale {
	if s.MinIncome == 0 {
		s.MinIncome = def.MinIncome
	}
	if s.MaxIncome == 0 {
		s.MaxIncome = def.MaxIncome
	}
	if s.MinTuition == 0 {
		s.MinTuition = def.MinTuition
	}
	if s.MaxTuition == 0 {
		s.MaxTuition = def.MaxTuition
	}
	if s.Steepness == 0 {
		s.Steepness = def.Steepness
	}
	return s
}

// Factors are the composition multipliers applied on top of the base tuition.
type Factors struct {
	Sibling  float64 `json:"sibling" yaml:"sibling"`
	PartTime float64 `json:"part_time" yaml:"part_time"`
}

func (f Factors) Or(def Factors) Factors {
	if f.Sibling == 0 {
		f.Sibling = def.Sibling
	}
	if f.PartTime == 0 {
		f.PartTime = def.PartTime
	}
	return f
}
