package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/protoplan/log"
	"github.com/ardnew/protoplan/pkg"
	"github.com/ardnew/protoplan/plan"
	"github.com/ardnew/protoplan/recipe"
)

// Plan resolves the production chain for one or more goal products.
type Plan struct {
	Goals       []string `arg:""       help:"Production goals as product=rate (rate in items/sec)."    name:"goal"`
	Constants   string   `             help:"YAML file overriding built-in planning constants."        optional:"" short:"c" type:"existingfile"`
	Filter      string   `             help:"Plan over only the recipes matching this expression."     optional:"" short:"e"`
	Suggestions int      `default:"5"  help:"Max suggestions offered for an unknown product."`
}

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).
				Bold(true).Padding(0, 1)
	tableCellStyle  = lipgloss.NewStyle().Padding(0, 1)
	tableTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).
			Bold(true)
)

// Run executes the plan command.
func (p *Plan) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	if len(p.Goals) == 0 {
		return ErrNoGoals
	}

	recipes, err := loadRecipes(ctx)
	if err != nil {
		return err
	}

	if p.Filter != "" {
		recipes, err = filterRecipes(recipes, p.Filter)
		if err != nil {
			return err
		}
	}

	if len(recipes) == 0 {
		return ErrNoRecipes
	}

	idx := recipe.NewIndex(recipes)

	constants, err := p.loadConstants()
	if err != nil {
		return err
	}

	goals := make([]plan.Goal, 0, len(p.Goals))

	for _, arg := range p.Goals {
		goal, err := plan.ParseGoal(arg)
		if err != nil {
			return err
		}

		if _, ok := idx[goal.Product]; !ok {
			return unknownProduct(idx, goal.Product, p.Suggestions)
		}

		goals = append(goals, goal)
	}

	res, err := plan.Solve(idx, goals, constants)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "plan solved",
		slog.Int("steps", len(res.Steps)),
		slog.Int("requirements", len(res.Requirements)),
	)

	out := outputFrom(ctx)

	fmt.Fprintln(out, tableTitleStyle.Render("Production steps"))
	fmt.Fprintln(out, renderSteps(res.Steps))
	fmt.Fprintln(out, tableTitleStyle.Render("Raw requirements"))
	fmt.Fprintln(out, renderRequirements(res.Requirements, constants))

	return nil
}

func (p *Plan) loadConstants() (plan.Constants, error) {
	if p.Constants == "" {
		return plan.DefaultConstants()
	}

	return plan.LoadConstants(p.Constants)
}

// unknownProduct builds the error for a goal product absent from the
// recipe graph, with fuzzy-matched candidates when any exist.
func unknownProduct(idx recipe.Index, product string, limit int) error {
	err := pkg.ErrUnknownProduct.Wrapf("%q", product)

	if candidates := plan.Suggest(idx, product, limit); len(candidates) > 0 {
		err = err.Wrapf("did you mean %s", strings.Join(candidates, ", "))
	}

	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}

			return tableCellStyle
		}).
		Headers(headers...)
}

func renderSteps(steps []plan.Step) string {
	t := newTable("PRODUCT", "RATE/S", "RECIPE", "MODULES")

	for _, s := range steps {
		t.Row(
			s.Product,
			formatRate(s.Rate),
			s.Recipe,
			strconv.FormatInt(s.Modules, 10),
		)
	}

	return t.Render()
}

func renderRequirements(
	requirements map[string]float64,
	c plan.Constants,
) string {
	products := make([]string, 0, len(requirements))
	for product := range requirements {
		products = append(products, product)
	}

	sort.Strings(products)

	t := newTable("PRODUCT", "RATE/S", "ELECTRIC DRILLS")

	for _, product := range products {
		rate := requirements[product]

		drills := "-"
		if n, ok := c.MinersFor(rate)["electric-mining-drill"]; ok {
			drills = formatRate(n)
		}

		t.Row(product, formatRate(rate), drills)
	}

	return t.Render()
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
