package schoolyear

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/tuition"
)

// SchoolYear holds the sliding-scale configuration of a school year.
// Zero bounds and factors, and a null MaxChange, fall back to the configured defaults.
type SchoolYear struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Scale     tuition.Scale   `json:"scale"`
	Factors   tuition.Factors `json:"factors"`
	MaxChange null.Float64    `json:"max_change"`
	CreatedAt time.Time       `json:"created_at"` // UTC
	UpdatedAt time.Time       `json:"updated_at"` // UTC
}

// Settings returns the year's effective configuration.
func (sy SchoolYear) Settings(defaults Settings) Settings {
	s := Settings{
		Year:      sy.Name,
		Scale:     sy.Scale.Or(defaults.Scale),
		Factors:   sy.Factors.Or(defaults.Factors),
		MaxChange: defaults.MaxChange,
	}
	if sy.MaxChange.Valid {
		s.MaxChange = sy.MaxChange.Float64
	}
	return s
}

// Settings is the effective configuration a quote is computed with.
type Settings struct {
	Year      string          `json:"year"`
	Scale     tuition.Scale   `json:"scale"`
	Factors   tuition.Factors `json:"factors"`
	MaxChange float64         `json:"max_change"`
}

// Validate reports the bounds a curve cannot be computed with.
func (s Settings) Validate() error {
	if flds := checkSettings(s); len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// Options applies the settings to a composition.
func (s Settings) Options(opts tuition.Options) tuition.Options {
	opts.Year = s.Scale
	opts.Factors = s.Factors
	return opts
}

// NewSchoolYear contains information needed to create a new SchoolYear.
type NewSchoolYear struct {
	Name      string          `json:"name" validate:"required,schoolyear"`
	Scale     tuition.Scale   `json:"scale"`
	Factors   tuition.Factors `json:"factors"`
	MaxChange null.Float64    `json:"max_change"`
}

func (ns *NewSchoolYear) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	settings := SchoolYear{Scale: ns.Scale, Factors: ns.Factors, MaxChange: ns.MaxChange}.Settings(svc.defaults)
	if err := settings.Validate(); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ns.Name)
}

// UpdateSchoolYear defines what information may be provided to modify an existing SchoolYear.
// Omitted values are left unchanged.
type UpdateSchoolYear struct {
	Name      string           `json:"name" validate:"omitempty,schoolyear"`
	Scale     *tuition.Scale   `json:"scale"`
	Factors   *tuition.Factors `json:"factors"`
	MaxChange null.Float64     `json:"max_change"`
}

func (us *UpdateSchoolYear) Validate(ctx context.Context, orig SchoolYear, validate *validator.Validate, svc *Service) error {
	us.Name = core.CleanString(us.Name)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Name == "" {
		us.Name = orig.Name
	}
	if us.Scale == nil {
		us.Scale = &orig.Scale
	}
	if us.Factors == nil {
		us.Factors = &orig.Factors
	}
	if !us.MaxChange.Valid {
		us.MaxChange = orig.MaxChange
	}

	settings := SchoolYear{Scale: *us.Scale, Factors: *us.Factors, MaxChange: us.MaxChange}.Settings(svc.defaults)
	if err := settings.Validate(); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, us.Name, orig)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// checkSettings reports the bounds a curve cannot be computed with.
func checkSettings(s Settings) []core.FieldError {
	var flds []core.FieldError
	add := func(field, msg string) {
		flds = append(flds, core.FieldError{Field: field, Error: msg})
	}

	sc := s.Scale
	if sc.MinIncome < 0 || math.IsNaN(sc.MinIncome) {
		add("scale.min_income", "must be greater than or equal to 0")
	}
	if !(sc.MaxIncome > sc.MinIncome) {
		add("scale.max_income", "must be greater than min_income")
	}
	if sc.MinTuition < 0 || math.IsNaN(sc.MinTuition) {
		add("scale.min_tuition", "must be greater than or equal to 0")
	}
	if !(sc.MaxTuition > sc.MinTuition) {
		add("scale.max_tuition", "must be greater than min_tuition")
	}
	if !tuition.ValidSteepness(sc.Steepness) {
		add("scale.steepness", "must be greater than 0 and different from 0.99")
	}
	if !(s.Factors.Sibling > 0 && s.Factors.Sibling <= 1) {
		add("factors.sibling", "must be greater than 0 and at most 1")
	}
	if !(s.Factors.PartTime > 0 && s.Factors.PartTime <= 1) {
		add("factors.part_time", "must be greater than 0 and at most 1")
	}
	if !(s.MaxChange >= 0 && s.MaxChange <= 1) {
		add("max_change", "must be between 0 and 1")
	}
	return flds
}
