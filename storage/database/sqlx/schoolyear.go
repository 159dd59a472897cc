package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
)

const (
	uniqueViolation = pq.ErrorCode("23505")

	schoolYearColumns = `id, name, min_income, max_income, min_tuition, max_tuition, steepness,
		sibling_factor, part_time_factor, max_change, created_at, updated_at`
)

var (
	schoolYearOrderings = map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	defaultSchoolYearOrdering = core.DBOrdering{Field: "name", Ascending: false}
)

type schoolYearRow struct {
	ID             string       `db:"id"`
	Name           string       `db:"name"`
	MinIncome      float64      `db:"min_income"`
	MaxIncome      float64      `db:"max_income"`
	MinTuition     float64      `db:"min_tuition"`
	MaxTuition     float64      `db:"max_tuition"`
	Steepness      float64      `db:"steepness"`
	SiblingFactor  float64      `db:"sibling_factor"`
	PartTimeFactor float64      `db:"part_time_factor"`
	MaxChange      null.Float64 `db:"max_change"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func newSchoolYearRow(sy schoolyear.SchoolYear) schoolYearRow {
	return schoolYearRow{
		ID:             sy.ID,
		Name:           sy.Name,
		MinIncome:      sy.Scale.MinIncome,
		MaxIncome:      sy.Scale.MaxIncome,
		MinTuition:     sy.Scale.MinTuition,
		MaxTuition:     sy.Scale.MaxTuition,
		Steepness:      sy.Scale.Steepness,
		SiblingFactor:  sy.Factors.Sibling,
		PartTimeFactor: sy.Factors.PartTime,
		MaxChange:      sy.MaxChange,
		CreatedAt:      sy.CreatedAt,
		UpdatedAt:      sy.UpdatedAt,
	}
}

func (row schoolYearRow) schoolYear() schoolyear.SchoolYear {
	return schoolyear.SchoolYear{
		ID:   row.ID,
		Name: row.Name,
		Scale: tuition.Scale{
			MinIncome:  row.MinIncome,
			MaxIncome:  row.MaxIncome,
			MinTuition: row.MinTuition,
			MaxTuition: row.MaxTuition,
			Steepness:  row.Steepness,
		},
		Factors:   tuition.Factors{Sibling: row.SiblingFactor, PartTime: row.PartTimeFactor},
		MaxChange: row.MaxChange,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}

type schoolYearRepository struct {
	db core.DBExecutor
}

var _ schoolyear.Repository = (*schoolYearRepository)(nil) // interface compliance check

func NewSchoolYearRepository(db core.DBExecutor) schoolyear.Repository {
	return &schoolYearRepository{db: db}
}

func (repo *schoolYearRepository) CheckNameUniqueness(ctx context.Context, name string, excludedYears ...schoolyear.SchoolYear) error {
	excluded := make([]string, 0, len(excludedYears))
	for _, sy := range excludedYears {
		excluded = append(excluded, sy.ID)
	}

	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM school_year WHERE name = $1 AND NOT (id::text = ANY($2)))`
	if err := repo.db.GetContext(ctx, &exists, q, name, pq.Array(excluded)); err != nil {
		return errors.Wrap(err, "checking school year name")
	}
	if exists {
		return schoolyear.ErrNameExists
	}
	return nil
}

func (repo *schoolYearRepository) CreateSchoolYear(ctx context.Context, sy schoolyear.SchoolYear) (schoolyear.SchoolYear, error) {
	q := `INSERT INTO school_year (` + schoolYearColumns + `) VALUES (
		:id, :name, :min_income, :max_income, :min_tuition, :max_tuition, :steepness,
		:sibling_factor, :part_time_factor, :max_change, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newSchoolYearRow(sy)); err != nil {
		if isUniqueViolation(err) {
			return schoolyear.SchoolYear{}, schoolyear.ErrNameExists
		}
		return schoolyear.SchoolYear{}, errors.Wrap(err, "inserting school year")
	}
	return sy, nil
}

func (repo *schoolYearRepository) QuerySchoolYears(
	ctx context.Context,
	filter *schoolyear.QueryFilter,
	ordering ...core.DBOrdering,
) ([]schoolyear.SchoolYear, error) {
	q := `SELECT ` + schoolYearColumns + ` FROM school_year`
	var args []interface{}
	if !filter.IsEmpty() {
		q += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, filter.Search)
	}

	orderBy := core.OrderBy(schoolYearOrderings, ordering...)
	if orderBy == "" {
		orderBy = core.OrderBy(schoolYearOrderings, defaultSchoolYearOrdering)
	}
	q += orderBy + `, id`

	var rows []schoolYearRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying school years")
	}
	years := make([]schoolyear.SchoolYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, row.schoolYear())
	}
	return years, nil
}

func (repo *schoolYearRepository) getBy(ctx context.Context, column string, value interface{}) (schoolyear.SchoolYear, error) {
	var row schoolYearRow
	q := `SELECT ` + schoolYearColumns + ` FROM school_year WHERE ` + column + ` = $1`
	if err := repo.db.GetContext(ctx, &row, q, value); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
		}
		return schoolyear.SchoolYear{}, errors.Wrapf(err, "selecting school year by %s", column)
	}
	return row.schoolYear(), nil
}

func (repo *schoolYearRepository) GetSchoolYearByID(ctx context.Context, id string) (schoolyear.SchoolYear, error) {
	return repo.getBy(ctx, "id", id)
}

func (repo *schoolYearRepository) GetSchoolYearByName(ctx context.Context, name string) (schoolyear.SchoolYear, error) {
	return repo.getBy(ctx, "name", name)
}

func (repo *schoolYearRepository) UpdateSchoolYear(ctx context.Context, sy schoolyear.SchoolYear) (schoolyear.SchoolYear, error) {
	q := `UPDATE school_year SET
		name = $2, min_income = $3, max_income = $4, min_tuition = $5, max_tuition = $6, steepness = $7,
		sibling_factor = $8, part_time_factor = $9, max_change = $10, updated_at = $11
		WHERE id = $1
		RETURNING ` + schoolYearColumns
	row := newSchoolYearRow(sy)

	var updated schoolYearRow
	err := repo.db.GetContext(
		ctx, &updated, q,
		row.ID, row.Name, row.MinIncome, row.MaxIncome, row.MinTuition, row.MaxTuition, row.Steepness,
		row.SiblingFactor, row.PartTimeFactor, row.MaxChange, row.UpdatedAt,
	)
	switch {
	case err == nil:
		return updated.schoolYear(), nil
	case errors.Cause(err) == sql.ErrNoRows:
		return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
	case isUniqueViolation(err):
		return schoolyear.SchoolYear{}, schoolyear.ErrNameExists
	}
	return schoolyear.SchoolYear{}, errors.Wrap(err, "updating school year")
}

func (repo *schoolYearRepository) DeleteSchoolYearsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q := `DELETE FROM school_year WHERE id::text = ANY($1)`
	if _, err := repo.db.ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting school years")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
