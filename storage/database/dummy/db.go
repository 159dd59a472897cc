package dummydb

import (
	"sync"

	"github.com/academia/tuition/core/schoolyear"
)

type (
	DB struct {
		schoolYear *schoolYearTable
	}

	schoolYearTable struct {
		sync.RWMutex
		table map[string]*schoolyear.SchoolYear
	}
)

func Open() *DB {
	return &DB{
		schoolYear: &schoolYearTable{table: make(map[string]*schoolyear.SchoolYear)},
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.schoolYear.Lock()
	db.schoolYear.table = make(map[string]*schoolyear.SchoolYear)
	db.schoolYear.Unlock()
}
