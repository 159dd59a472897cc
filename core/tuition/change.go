package tuition

import "math"

// Prior is the tuition a family committed to the previous year.
type Prior struct {
	Tuition   float64   `json:"tuition" validate:"gte=0"`
	Decisions Decisions `json:"decisions" validate:"decisions"`
}

// Applies reports whether the year-over-year clamp holds for the current attendance.
// When current carries no decisions, the head counts of opts are compared with
// the prior ones instead. A prior without decisions never applies.
func (p *Prior) Applies(current Decisions, opts Options) bool {
	if p == nil || !(p.Tuition > 0) || p.Decisions == nil {
		return false
	}
	if current == nil {
		return CalculateOptions(p.Decisions).sameAttendance(opts)
	}
	return p.Decisions.Equal(current)
}

// Band returns the lowest and highest tuition allowed around the prior amount.
func (p *Prior) Band(maxChange float64) (lo, hi float64) {
	if maxChange < 0 || math.IsNaN(maxChange) {
		maxChange = 0
	}
	delta := p.Tuition * maxChange
	return p.Tuition - delta, p.Tuition + delta
}

// ClampChange bounds suggested to within maxChange (a fraction, .1 is 10%) of prior.
func ClampChange(suggested, prior, maxChange float64) float64 {
	lo, hi := (&Prior{Tuition: prior}).Band(maxChange)
	return math.Min(math.Max(suggested, lo), hi)
}

// AdjustForPrior clamps suggested around the prior tuition when the family's
// attendance is unchanged; otherwise the fresh amount stands.
func AdjustForPrior(suggested float64, current Decisions, opts Options, prior *Prior, maxChange float64) float64 {
	if !prior.Applies(current, opts) {
		return suggested
	}
	return ClampChange(suggested, prior.Tuition, maxChange)
}
