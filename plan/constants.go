// Package plan resolves production chains over an indexed recipe graph:
// demand propagation from goal products down to raw resources, with
// productivity module bonuses applied where the game allows them.
package plan

import (
	_ "embed"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/protoplan/pkg"
)

//go:embed constants.yaml
var builtinConstants []byte

// Effect is the set of bonuses one module contributes to the machine
// it occupies. Values are fractional, so a Productivity of 0.1 yields
// ten percent extra output.
type Effect struct {
	Speed        float64 `json:"speed"        yaml:"speed"`
	Consumption  float64 `json:"consumption"  yaml:"consumption"`
	Productivity float64 `json:"productivity" yaml:"productivity"`
	Pollution    float64 `json:"pollution"    yaml:"pollution"`
}

// Constants holds the game facts the planner needs but recipe
// prototypes do not carry: drill extraction speeds, which recipes
// accept productivity modules, per-module bonuses, and how many module
// slots each crafting category's machine offers.
type Constants struct {
	MiningSpeeds        map[string]float64 `json:"mining_speeds"        yaml:"mining_speeds"`
	ProductivityAllowed []string           `json:"productivity_allowed" yaml:"productivity_allowed"`
	ModuleBonuses       map[string]Effect  `json:"module_bonuses"       yaml:"module_bonuses"`
	ModuleLimits        map[string]int64   `json:"module_limits"        yaml:"module_limits"`
}

// DefaultConstants returns the built-in constants table.
func DefaultConstants() (Constants, error) {
	var c Constants

	if err := yaml.Unmarshal(builtinConstants, &c); err != nil {
		return Constants{}, pkg.ErrLoadConstants.Wrap(err)
	}

	return c, nil
}

// LoadConstants returns the built-in table overlaid with entries from
// the YAML file at path. Map entries merge key by key, while the
// productivity whitelist replaces the built-in list entirely.
func LoadConstants(path string) (Constants, error) {
	c, err := DefaultConstants()
	if err != nil {
		return Constants{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, pkg.ErrLoadConstants.Wrap(err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Constants{}, pkg.ErrLoadConstants.Wrap(err)
	}

	return c, nil
}

// AllowsProductivity reports whether the named recipe accepts
// productivity modules.
func (c Constants) AllowsProductivity(recipe string) bool {
	return slices.Contains(c.ProductivityAllowed, recipe)
}

// MinersFor reports how many drills of each known kind sustain the
// given extraction rate in resources per second.
func (c Constants) MinersFor(rate float64) map[string]float64 {
	miners := make(map[string]float64, len(c.MiningSpeeds))

	for drill, speed := range c.MiningSpeeds {
		if speed > 0 {
			miners[drill] = rate / speed
		}
	}

	return miners
}
