package tuition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampChange(t *testing.T) {
	tests := []struct {
		name                        string
		suggested, prior, maxChange float64
		want                        float64
	}{
		{name: "raise capped", suggested: 6000, prior: 5000, maxChange: .1, want: 5500},
		{name: "drop capped", suggested: 3000, prior: 5000, maxChange: .1, want: 4500},
		{name: "within band", suggested: 5200, prior: 5000, maxChange: .1, want: 5200},
		{name: "no change allowed", suggested: 5200, prior: 5000, maxChange: 0, want: 5000},
		{name: "negative change treated as none", suggested: 5200, prior: 5000, maxChange: -1, want: 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampChange(tt.suggested, tt.prior, tt.maxChange); got != tt.want {
				t.Errorf("ClampChange() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustForPrior(t *testing.T) {
	current := Decisions{"a": FullTime, "b": PartTime}
	same := Options{FullTime: 1, PartTime: 1}

	tests := []struct {
		name    string
		current Decisions
		opts    Options
		prior   *Prior
		want    float64
	}{
		{name: "no prior", current: current, opts: same, prior: nil, want: 6000},
		{name: "unchanged decisions", current: current, opts: same, prior: &Prior{Tuition: 5000, Decisions: Decisions{"a": FullTime, "b": PartTime}}, want: 5500},
		{name: "changed decisions", current: current, opts: same, prior: &Prior{Tuition: 5000, Decisions: Decisions{"a": FullTime}}, want: 6000},
		{name: "no committed tuition", current: current, opts: same, prior: &Prior{Decisions: current}, want: 6000},
		{name: "counts matching prior decisions", opts: same, prior: &Prior{Tuition: 5000, Decisions: current}, want: 5500},
		{name: "counts as siblings", opts: Options{FullTime: 2}, prior: &Prior{Tuition: 5000, Decisions: Decisions{"a": FullTime, "b": FullTime}}, want: 5500},
		{name: "counts differing from prior decisions", opts: Options{FullTime: 1}, prior: &Prior{Tuition: 5000, Decisions: current}, want: 6000},
		{name: "prior without decisions", opts: Options{FullTime: 1}, prior: &Prior{Tuition: 5000}, want: 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustForPrior(6000, tt.current, tt.opts, tt.prior, DefaultMaxChange))
		})
	}
}
