package schoolyear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/tuition"
)

var testSettings = Settings{
	Year:      "2024-2025",
	Scale:     tuition.DefaultScale,
	Factors:   tuition.DefaultFactors,
	MaxChange: tuition.DefaultMaxChange,
}

func TestComputeQuote(t *testing.T) {
	one := tuition.Decisions{"s1": tuition.FullTime}
	two := tuition.Decisions{"s1": tuition.FullTime, "s2": tuition.PartTime}
	inc := null.Float64From

	tests := []struct {
		name string
		req  QuoteRequest
		want Quote
	}{
		{
			name: "sliding scale",
			req:  QuoteRequest{Income: inc(74000), Decisions: one},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 6104, Formatted: "$6,104",
			},
		},
		{
			name: "opted out pays the ceiling",
			req:  QuoteRequest{Income: inc(30000), OptedOut: true, Decisions: one},
			want: Quote{Options: tuition.Options{FullTime: 1}, Base: 12500, Suggested: 12500, Minimum: 12500, Final: 12500, Formatted: "$12,500"},
		},
		{
			name: "null income pays the ceiling",
			req:  QuoteRequest{Decisions: one},
			want: Quote{Options: tuition.Options{FullTime: 1}, Base: 12500, Suggested: 12500, Minimum: 12500, Final: 12500, Formatted: "$12,500"},
		},
		{
			name: "nobody attending",
			req:  QuoteRequest{Income: inc(74000), Decisions: tuition.Decisions{"s1": tuition.NotAttending}},
			want: Quote{Formatted: "$0"},
		},
		{
			name: "composition from options",
			req:  QuoteRequest{Income: inc(28000), Options: &tuition.Options{FullTime: 1, Siblings: 1}},
			want: Quote{Options: tuition.Options{FullTime: 1, Siblings: 1}, Base: 1000, Suggested: 1850, Minimum: 1850, Final: 1850, Formatted: "$1,850"},
		},
		{
			name: "no composition counts as one full-time student",
			req:  QuoteRequest{Income: inc(28000)},
			want: Quote{Options: tuition.Options{FullTime: 1}, Base: 1000, Suggested: 1000, Minimum: 1000, Final: 1000, Formatted: "$1,000"},
		},
		{
			name: "above ceiling",
			req:  QuoteRequest{Income: inc(300000), Decisions: two},
			want: Quote{
				Options: tuition.Options{FullTime: 1, PartTime: 1}, Base: 12500, Suggested: 20312.5,
				Minimum: 20312.5, Final: 20313, Formatted: "$20,313",
			},
		},
		{
			name: "unchanged attendance is clamped",
			req:  QuoteRequest{Income: inc(74000), Decisions: one, Prior: &tuition.Prior{Tuition: 5000, Decisions: one}},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 5500, Clamped: true, Formatted: "$5,500",
			},
		},
		{
			name: "changed attendance is not clamped",
			req:  QuoteRequest{Income: inc(74000), Decisions: one, Prior: &tuition.Prior{Tuition: 5000, Decisions: two}},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 6104, Formatted: "$6,104",
			},
		},
		{
			name: "counts matching prior attendance are clamped",
			req:  QuoteRequest{Income: inc(74000), Options: &tuition.Options{FullTime: 1}, Prior: &tuition.Prior{Tuition: 5000, Decisions: one}},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 5500, Clamped: true, Formatted: "$5,500",
			},
		},
		{
			name: "prior without decisions is not clamped",
			req:  QuoteRequest{Income: inc(74000), Options: &tuition.Options{FullTime: 1}, Prior: &tuition.Prior{Tuition: 5000}},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 6104, Formatted: "$6,104",
			},
		},
		{
			name: "override above minimum",
			req:  QuoteRequest{Income: inc(74000), Decisions: one, Override: inc(7000.4)},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 7000, Overridden: true, Formatted: "$7,000",
			},
		},
		{
			name: "override within the yearly band",
			req: QuoteRequest{
				Income: inc(74000), Decisions: one, Override: inc(4600),
				Prior: &tuition.Prior{Tuition: 5000, Decisions: one},
			},
			want: Quote{
				Options: tuition.Options{FullTime: 1}, Base: 6104.313507127924, Suggested: 6104.313507127924,
				Minimum: 6104.313507127924, Final: 4600, Clamped: true, Overridden: true, Formatted: "$4,600",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := computeQuote(testSettings, tt.req)
			if !assert.NoError(t, err) {
				return
			}
			tt.want.Year = testSettings.Year
			tt.want.Options = testSettings.Options(tt.want.Options)
			assert.InDelta(t, tt.want.Base, got.Base, 1e-9)
			assert.InDelta(t, tt.want.Suggested, got.Suggested, 1e-9)
			assert.InDelta(t, tt.want.Minimum, got.Minimum, 1e-9)
			got.Base, got.Suggested, got.Minimum = tt.want.Base, tt.want.Suggested, tt.want.Minimum
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeQuote_overrideTooLow(t *testing.T) {
	one := tuition.Decisions{"s1": tuition.FullTime}

	tests := []struct {
		name    string
		req     QuoteRequest
		wantMsg string
	}{
		{
			name:    "below minimum",
			req:     QuoteRequest{Income: null.Float64From(74000), Decisions: one, Override: null.Float64From(6000)},
			wantMsg: "must be at least $6,104",
		},
		{
			name: "below the yearly band",
			req: QuoteRequest{
				Income: null.Float64From(74000), Decisions: one, Override: null.Float64From(4000),
				Prior: &tuition.Prior{Tuition: 5000, Decisions: one},
			},
			wantMsg: "must be at least $4,500",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := computeQuote(testSettings, tt.req)
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("computeQuote() error = %v; want *core.ValidationError", err)
			}
			assert.Equal(t, map[string]string{"override": tt.wantMsg}, vErr.FieldMap())
		})
	}
}

func TestCheckSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     []string
	}{
		{name: "defaults", settings: testSettings},
		{
			name: "inverted scale",
			settings: Settings{
				Scale:     tuition.Scale{MinIncome: 90000, MaxIncome: 30000, MinTuition: 9000, MaxTuition: 1000, Steepness: 1},
				Factors:   tuition.DefaultFactors,
				MaxChange: .1,
			},
			want: []string{"scale.max_income", "scale.max_tuition"},
		},
		{
			name: "steepness flattening the curve",
			settings: Settings{
				Scale:     tuition.Scale{MinIncome: 28000, MaxIncome: 120000, MinTuition: 1000, MaxTuition: 12500, Steepness: .99},
				Factors:   tuition.DefaultFactors,
				MaxChange: .1,
			},
			want: []string{"scale.steepness"},
		},
		{
			name: "out of range",
			settings: Settings{
				Scale:     tuition.Scale{MinIncome: -1, MaxIncome: 30000, MinTuition: -5, MaxTuition: 1000, Steepness: -2},
				Factors:   tuition.Factors{Sibling: 1.5, PartTime: -1},
				MaxChange: 2,
			},
			want: []string{
				"scale.min_income", "scale.min_tuition", "scale.steepness",
				"factors.sibling", "factors.part_time", "max_change",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, fe := range checkSettings(tt.settings) {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
