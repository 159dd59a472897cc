package schoolyear

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/academia/tuition/core"
)

var (
	// errors
	ErrNotFound   = errors.New("school year not found")
	ErrNameExists = errors.New("a school year with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excludedYears ...SchoolYear) error
		CreateSchoolYear(ctx context.Context, sy SchoolYear) (SchoolYear, error)
		// QuerySchoolYears returns every SchoolYear whose name contains filter.Search (case-insensitive).
		QuerySchoolYears(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]SchoolYear, error)
		GetSchoolYearByID(ctx context.Context, id string) (SchoolYear, error)
		GetSchoolYearByName(ctx context.Context, name string) (SchoolYear, error)
		UpdateSchoolYear(ctx context.Context, sy SchoolYear) (SchoolYear, error)
		DeleteSchoolYearsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		mailSvc  core.EmailService
		conf     *core.Config
		defaults Settings
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	scale, factors, maxChange := conf.TuitionDefaults()
	return &Service{
		repo:     repo,
		mailSvc:  mailSvc,
		conf:     conf,
		defaults: Settings{Scale: scale, Factors: factors, MaxChange: maxChange},
	}
}

// Defaults returns the settings used when no school year is given.
func (svc *Service) Defaults() Settings {
	return svc.defaults
}

func (svc *Service) checkUniqueness(ctx context.Context, name string, exclYears ...SchoolYear) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, exclYears...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSchoolYear) (SchoolYear, error) {
	now := core.NowFunc()
	sy := SchoolYear{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Scale:     ns.Scale,
		Factors:   ns.Factors,
		MaxChange: ns.MaxChange,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSchoolYear(ctx, sy)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]SchoolYear, error) {
	return svc.repo.QuerySchoolYears(ctx, filter, ordering...)
}

func (svc *Service) GetByID(ctx context.Context, id string) (SchoolYear, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SchoolYear{}, ErrNotFound
	}
	return svc.repo.GetSchoolYearByID(ctx, id)
}

func (svc *Service) GetByName(ctx context.Context, name string) (SchoolYear, error) {
	return svc.repo.GetSchoolYearByName(ctx, core.CleanString(name))
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSchoolYear) (SchoolYear, error) {
	sy := SchoolYear{
		ID:        id,
		Name:      us.Name,
		MaxChange: us.MaxChange,
		UpdatedAt: core.NowFunc(),
	}
	if us.Scale != nil {
		sy.Scale = *us.Scale
	}
	if us.Factors != nil {
		sy.Factors = *us.Factors
	}
	return svc.repo.UpdateSchoolYear(ctx, sy)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSchoolYearsByID(ctx, ids...)
}

// Resolve returns the effective settings of the named school year.
// An empty name resolves to the configured defaults.
func (svc *Service) Resolve(ctx context.Context, name string) (Settings, error) {
	name = core.CleanString(name)
	if name == "" {
		return svc.defaults, nil
	}
	sy, err := svc.repo.GetSchoolYearByName(ctx, name)
	if err != nil {
		return Settings{}, err
	}
	return sy.Settings(svc.defaults), nil
}
