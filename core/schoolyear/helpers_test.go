package schoolyear_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/academia/tuition/core"
)

// errorFields lists the fields an error reports, whatever the kind of validation error.
func errorFields(t *testing.T, err error) []string {
	t.Helper()
	var fields []string
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fe := range vErr {
			fields = append(fields, fe.Field())
		}
	case *core.ValidationError:
		for _, fe := range vErr.Fields {
			fields = append(fields, fe.Field)
		}
	default:
		t.Errorf("error = %v; want a validation error", err)
	}
	return fields
}
