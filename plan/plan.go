package plan

import (
	"strconv"
	"strings"

	"github.com/ardnew/protoplan/pkg"
	"github.com/ardnew/protoplan/recipe"
)

// productivityModule is the module assumed to fill every available slot
// of a machine whose recipe accepts productivity modules.
const productivityModule = "productivity-module-3"

// maxVisits bounds demand propagation so that recipe cycles which
// amplify their own demand fail instead of looping.
const maxVisits = 1 << 16

// Goal is a demand for a product at a steady rate in products per
// second.
type Goal struct {
	Product string
	Rate    float64
}

// ParseGoal parses a "product=rate" argument. A bare product name
// demands one per second.
func ParseGoal(arg string) (Goal, error) {
	product, rate, found := strings.Cut(arg, "=")
	if !found {
		return Goal{Product: arg, Rate: 1}, nil
	}

	r, err := strconv.ParseFloat(rate, 64)
	if err != nil || product == "" {
		return Goal{}, pkg.ErrInvalidGoal.Wrapf("%q (want product=rate)", arg)
	}

	return Goal{Product: product, Rate: r}, nil
}

// Step is one production stage of a plan: the chosen recipe for a
// product and the total rate demanded of it across the whole plan.
type Step struct {
	Product string  `json:"product" yaml:"product"`
	Rate    float64 `json:"rate"    yaml:"rate"`
	Recipe  string  `json:"recipe"  yaml:"recipe"`
	Output  int64   `json:"output"  yaml:"output"`
	Modules int64   `json:"modules" yaml:"modules"`
}

// Result is a resolved production plan. Requirements maps each raw
// product, one no recipe produces, to the rate it must be supplied at.
// Steps lists the producible intermediates in first-demand order.
type Result struct {
	Requirements map[string]float64 `json:"requirements" yaml:"requirements"`
	Steps        []Step             `json:"steps"        yaml:"steps"`
}

type demand struct {
	product string
	rate    float64
}

// Solve propagates the goal demands breadth-first through the recipe
// graph. Each producible product is made by the fastest recipe that
// yields it. Recipes on the productivity whitelist run with every
// module slot of their category filled, which divides the ingredient
// demand by the combined bonus. Products without a recipe accumulate
// into Requirements.
func Solve(idx recipe.Index, goals []Goal, c Constants) (Result, error) {
	res := Result{Requirements: make(map[string]float64)}
	visited := make(map[string]int)

	queue := make([]demand, 0, len(goals))
	for _, g := range goals {
		queue = append(queue, demand{product: g.Product, rate: g.Rate})
	}

	for visits := 0; len(queue) > 0; visits++ {
		if visits >= maxVisits {
			return Result{}, pkg.ErrPlanDiverged.Wrapf(
				"stopped after %d demands", maxVisits,
			)
		}

		d := queue[0]
		queue = queue[1:]

		recipes, ok := idx[d.product]
		if !ok {
			res.Requirements[d.product] += d.rate

			continue
		}

		fastest := recipes[0]
		for _, r := range recipes[1:] {
			if r.Speed > fastest.Speed {
				fastest = r
			}
		}

		// The index only lists recipes under their own results.
		var output int64

		for _, out := range fastest.Results {
			if out.Name == d.product {
				output = out.Amount

				break
			}
		}

		var modules int64

		if c.AllowsProductivity(fastest.Name) {
			limit, ok := c.ModuleLimits[fastest.Category]
			if !ok {
				return Result{}, pkg.ErrUnknownCategory.Wrapf(
					"%q (recipe %q)", fastest.Category, fastest.Name,
				)
			}

			modules = limit
		}

		var bonus float64

		if modules > 0 {
			effect, ok := c.ModuleBonuses[productivityModule]
			if !ok {
				return Result{}, pkg.ErrUnknownModule.Wrapf("%q", productivityModule)
			}

			bonus = float64(modules) * effect.Productivity
		}

		if i, ok := visited[d.product]; ok {
			res.Steps[i].Rate += d.rate
		} else {
			visited[d.product] = len(res.Steps)
			res.Steps = append(res.Steps, Step{
				Product: d.product,
				Rate:    d.rate,
				Recipe:  fastest.Name,
				Output:  output,
				Modules: modules,
			})
		}

		for _, ing := range fastest.Ingredients {
			rate := d.rate * float64(ing.Amount) / float64(output)
			if modules > 0 {
				rate /= 1 + bonus
			}

			queue = append(queue, demand{product: ing.Name, rate: rate})
		}
	}

	return res, nil
}
