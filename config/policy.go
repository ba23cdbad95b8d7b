// Package config holds the single toggleable policy the core needs:
// floating-point tolerance, the roundoff-snap behavior, skip-list tunables,
// and the default selectivity used when statistics are absent.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// defines the range of values a Policy accepts.
const (
	EpsilonMin = 1e-9
	EpsilonMax = 1e-3

	SkipListMaxLevelMin = 4
	SkipListMaxLevelMax = 32
)

// Policy is the single source of truth for every tolerance and tunable the
// core reads. The zero value is invalid; use Defaults or Load.
type Policy struct {
	// Epsilon is the tolerance used for collinearity tests, root clamping
	// and bucket-snap decisions.
	Epsilon float64

	// RoundoffSnap controls whether a value or timestamp solved to within
	// Epsilon of an exact bucket/segment bound snaps to that bound, or is
	// kept as the interpolated point as-is.
	RoundoffSnap bool

	// SkipListMaxLevel bounds the randomized skip list used by aggregate.
	SkipListMaxLevel int
	// SkipListGrowFactor is the capacity growth multiplier on resize.
	SkipListGrowFactor int
	// SkipListInitialCapacity is the initial node-pool size.
	SkipListInitialCapacity int

	// DefaultSelectivity is returned by wire selectivity estimates when the
	// caller's statistics are nil.
	DefaultSelectivity float64

	// SimplifyMinKeep is the minimum-keep count for Douglas-Peucker, below
	// which a segment is always split regardless of tolerance.
	SimplifyMinKeep int
}

// Defaults returns the policy the core uses with zero configuration.
func Defaults() Policy {
	return Policy{
		Epsilon:                 1e-6,
		RoundoffSnap:            true,
		SkipListMaxLevel:        32,
		SkipListGrowFactor:      2,
		SkipListInitialCapacity: 64,
		DefaultSelectivity:      0.01,
		SimplifyMinKeep:         2,
	}
}

// Valid applies defaults to unset (zero) numeric fields and range-checks
// the rest. RoundoffSnap is left as given, since false is a valid setting.
func (p *Policy) Valid() error {
	if p == nil {
		return fmt.Errorf("config: nil policy")
	}
	def := Defaults()
	if p.Epsilon == 0 {
		p.Epsilon = def.Epsilon
	} else if p.Epsilon < EpsilonMin || p.Epsilon > EpsilonMax {
		return fmt.Errorf("config: Epsilon not in [%g, %g]", EpsilonMin, EpsilonMax)
	}
	if p.SkipListMaxLevel == 0 {
		p.SkipListMaxLevel = def.SkipListMaxLevel
	} else if p.SkipListMaxLevel < SkipListMaxLevelMin || p.SkipListMaxLevel > SkipListMaxLevelMax {
		return fmt.Errorf("config: SkipListMaxLevel not in [%d, %d]", SkipListMaxLevelMin, SkipListMaxLevelMax)
	}
	if p.SkipListGrowFactor == 0 {
		p.SkipListGrowFactor = def.SkipListGrowFactor
	}
	if p.SkipListInitialCapacity == 0 {
		p.SkipListInitialCapacity = def.SkipListInitialCapacity
	}
	if p.DefaultSelectivity == 0 {
		p.DefaultSelectivity = def.DefaultSelectivity
	} else if p.DefaultSelectivity < 0 || p.DefaultSelectivity > 1 {
		return fmt.Errorf("config: DefaultSelectivity not in [0, 1]")
	}
	if p.SimplifyMinKeep == 0 {
		p.SimplifyMinKeep = def.SimplifyMinKeep
	}
	return nil
}

// Load reads a Policy from a config file (any format viper supports: yaml,
// json, toml, ...) at path, falling back to Defaults for unset keys.
func Load(path string) (Policy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("epsilon", Defaults().Epsilon)
	v.SetDefault("roundoff_snap", Defaults().RoundoffSnap)
	v.SetDefault("skip_list_max_level", Defaults().SkipListMaxLevel)
	v.SetDefault("skip_list_grow_factor", Defaults().SkipListGrowFactor)
	v.SetDefault("skip_list_initial_capacity", Defaults().SkipListInitialCapacity)
	v.SetDefault("default_selectivity", Defaults().DefaultSelectivity)
	v.SetDefault("simplify_min_keep", Defaults().SimplifyMinKeep)

	if err := v.ReadInConfig(); err != nil {
		return Policy{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	p := Policy{
		Epsilon:                 v.GetFloat64("epsilon"),
		RoundoffSnap:            v.GetBool("roundoff_snap"),
		SkipListMaxLevel:        v.GetInt("skip_list_max_level"),
		SkipListGrowFactor:      v.GetInt("skip_list_grow_factor"),
		SkipListInitialCapacity: v.GetInt("skip_list_initial_capacity"),
		DefaultSelectivity:      v.GetFloat64("default_selectivity"),
		SimplifyMinKeep:         v.GetInt("simplify_min_keep"),
	}
	if err := p.Valid(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
