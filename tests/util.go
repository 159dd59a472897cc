package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
	"github.com/academia/tuition/storage/database"
)

const dbTimeout = 3 * time.Second

// PrepareDB opens the configured database, migrates it and empties its tables.
// The test is skipped outside ENV=TEST or when no database is reachable.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conf := core.NewConfig()
	if !conf.TestMode {
		t.Skip("database tests run with ENV=TEST")
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	ResetDB(t, db)
	return db
}

func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if _, err := db.Exec("TRUNCATE TABLE school_year"); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}

// NewValidator returns a validator set up the way the API sets it up.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator, _ := ut.New(en.New()).GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate, translator
}

func CreateSchoolYear(
	t *testing.T,
	repo schoolyear.Repository,
	name string,
	scale tuition.Scale,
	maxChange null.Float64,
	createdAt ...time.Time,
) schoolyear.SchoolYear {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sy := schoolyear.SchoolYear{
		ID:        uuid.New().String(),
		Name:      name,
		Scale:     scale,
		MaxChange: maxChange,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	sy, err := repo.CreateSchoolYear(context.Background(), sy)
	if err != nil {
		t.Fatalf("CreateSchoolYear() failed: %v", err)
	}
	return sy
}
