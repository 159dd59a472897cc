package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/academia/tuition/core/tuition"
)

func TestIsSchoolYear(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "2024-2025", want: true},
		{name: "1999-2000", want: true},
		{name: "2024-2024"},
		{name: "2025-2024"},
		{name: "2024-2026"},
		{name: "24-25"},
		{name: "2024/2025"},
		{name: " 2024-2025"},
		{name: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSchoolYear(tt.name); got != tt.want {
				t.Errorf("IsSchoolYear(%q) = %v; want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator, _ := ut.New(en.New()).GetTranslator("en")
	InitValidators(validate, translator)

	type input struct {
		Year      string            `json:"year" validate:"required,schoolyear"`
		Decisions tuition.Decisions `json:"decisions" validate:"decisions"`
	}

	err := validate.Struct(input{Year: "2024-2025", Decisions: tuition.Decisions{"a": tuition.FullTime}})
	assert.NoError(t, err)

	err = validate.Struct(input{Year: "2024", Decisions: tuition.Decisions{"a": tuition.Decision(9)}})
	if assert.Error(t, err) {
		got := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			got[fe.Field()] = fe.Translate(translator)
		}
		assert.Equal(t, map[string]string{"year": schoolYearText, "decisions": decisionsText}, got)
	}

	err = validate.Struct(input{})
	if assert.Error(t, err) {
		fe := err.(validator.ValidationErrors)[0]
		assert.Equal(t, "year", fe.Field())
		assert.Equal(t, requiredText, fe.Translate(translator))
	}
}
