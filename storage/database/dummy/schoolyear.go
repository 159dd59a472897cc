package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/schoolyear"
)

type schoolYearRepository struct {
	db *schoolYearTable
}

var _ schoolyear.Repository = (*schoolYearRepository)(nil) // interface compliance check

func NewSchoolYearRepository(db *DB) schoolyear.Repository {
	return &schoolYearRepository{db: db.schoolYear}
}

func (repo *schoolYearRepository) query() []schoolyear.SchoolYear {
	years := make([]schoolyear.SchoolYear, 0, len(repo.db.table))
	for _, sy := range repo.db.table {
		years = append(years, *sy)
	}
	return years
}

func (repo *schoolYearRepository) CheckNameUniqueness(_ context.Context, name string, excludedYears ...schoolyear.SchoolYear) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sy := range repo.db.table {
		if sy.Name == name && !isExcluded(*sy, excludedYears) {
			return schoolyear.ErrNameExists
		}
	}
	return nil
}

func (repo *schoolYearRepository) CreateSchoolYear(_ context.Context, sy schoolyear.SchoolYear) (schoolyear.SchoolYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.table {
		if other.Name == sy.Name {
			return schoolyear.SchoolYear{}, schoolyear.ErrNameExists
		}
	}
	repo.db.table[sy.ID] = &sy
	return sy, nil
}

func (repo *schoolYearRepository) QuerySchoolYears(
	_ context.Context,
	filter *schoolyear.QueryFilter,
	ordering ...core.DBOrdering,
) ([]schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	years := repo.query()
	if !filter.IsEmpty() {
		search := strings.ToLower(filter.Search)
		filtered := make([]schoolyear.SchoolYear, 0, len(years))
		for _, sy := range years {
			if strings.Contains(strings.ToLower(sy.Name), search) {
				filtered = append(filtered, sy)
			}
		}
		years = filtered
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: false}}
	}
	sort.SliceStable(years, func(i, j int) bool {
		for _, ord := range ordering {
			cmp := compareField(years[i], years[j], ord.Field)
			if cmp == 0 {
				continue
			}
			if ord.Ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return years[i].ID < years[j].ID
	})
	return years, nil
}

func (repo *schoolYearRepository) GetSchoolYearByID(_ context.Context, id string) (schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sy, ok := repo.db.table[id]; ok {
		return *sy, nil
	}
	return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
}

func (repo *schoolYearRepository) GetSchoolYearByName(_ context.Context, name string) (schoolyear.SchoolYear, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sy := range repo.db.table {
		if sy.Name == name {
			return *sy, nil
		}
	}
	return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
}

func (repo *schoolYearRepository) UpdateSchoolYear(_ context.Context, sy schoolyear.SchoolYear) (schoolyear.SchoolYear, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[sy.ID]
	if !ok {
		return schoolyear.SchoolYear{}, schoolyear.ErrNotFound
	}
	updated := *orig
	updated.Name = sy.Name
	updated.Scale = sy.Scale
	updated.Factors = sy.Factors
	updated.MaxChange = sy.MaxChange
	updated.UpdatedAt = sy.UpdatedAt

	repo.db.table[sy.ID] = &updated
	return updated, nil
}

func (repo *schoolYearRepository) DeleteSchoolYearsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(sy schoolyear.SchoolYear, excluded []schoolyear.SchoolYear) bool {
	for _, ex := range excluded {
		if ex.ID == sy.ID {
			return true
		}
	}
	return false
}

// compareField compares the sortable fields the sqlx repository allows.
func compareField(a, b schoolyear.SchoolYear, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "created_at":
		return compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareTimes(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
