package core

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/academia/tuition/core/tuition"
)

var (
	// custom validation tags & texts
	schoolYearTag   = "schoolyear"
	schoolYearText  = "must be two consecutive years, eg. 2024-2025"
	schoolYearRegex = regexp.MustCompile(`^(\d{4})-(\d{4})$`)

	decisionsTag  = "decisions"
	decisionsText = "attendance must be one of not_attending, part_time or full_time"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(schoolYearTag, schoolYearValidation)
	RegisterCustomTranslation(validate, translator, schoolYearTag, schoolYearText)

	_ = validate.RegisterValidation(decisionsTag, decisionsValidation)
	RegisterCustomTranslation(validate, translator, decisionsTag, decisionsText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// IsSchoolYear reports whether name spans two consecutive years, eg. "2024-2025".
func IsSchoolYear(name string) bool {
	m := schoolYearRegex.FindStringSubmatch(name)
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}

// Custom Global Validators

func schoolYearValidation(fl validator.FieldLevel) bool {
	return IsSchoolYear(fl.Field().String())
}

// decisionsValidation rejects decision maps holding unknown attendance values.
func decisionsValidation(fl validator.FieldLevel) bool {
	decisions, ok := fl.Field().Interface().(tuition.Decisions)
	if !ok {
		return false
	}
	for _, d := range decisions {
		if !d.Valid() {
			return false
		}
	}
	return true
}
