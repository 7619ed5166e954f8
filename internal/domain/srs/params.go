package srs

import (
	"github.com/phrazzld/scry-study/internal/domain"
)

// Params defines all configurable parameters for the Leitner scheduler
type Params struct {
	// IntervalDays maps a box to the number of days until the card is due
	// again after landing in that box. Every box in MinBox..MaxBox has an entry.
	IntervalDays map[int]int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Box 1 always means "review again today" and is not configurable.
type ParamsConfig struct {
	Box2IntervalDays int
	Box3IntervalDays int
	Box4IntervalDays int
	Box5IntervalDays int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		IntervalDays: map[int]int{
			1: 0,  // Same day
			2: 1,  // Tomorrow
			3: 3,  // Half a week
			4: 7,  // One week
			5: 14, // Two weeks
		},
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero or negative values keep the default for that box.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	overrides := map[int]int{
		2: config.Box2IntervalDays,
		3: config.Box3IntervalDays,
		4: config.Box4IntervalDays,
		5: config.Box5IntervalDays,
	}
	for box, days := range overrides {
		if days > 0 {
			params.IntervalDays[box] = days
		}
	}

	return params
}

// Interval returns the configured interval for box, or 0 for an unknown box.
func (p *Params) Interval(box int) int {
	if box < domain.MinBox || box > domain.MaxBox {
		return 0
	}
	return p.IntervalDays[box]
}
