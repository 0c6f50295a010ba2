package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/protoplan/pkg"
	"github.com/ardnew/protoplan/recipe"
)

// Extract parses prototype sources and writes the decoded recipes.
type Extract struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format."                                     short:"o"`
	Filter string `               help:"Keep only recipes for which this expression is true." optional:""    short:"e"`
	Indent int    `default:"2"    help:"Indent width for JSON output."                                       short:"i"`
}

// filterEnv is the expression environment one recipe is evaluated in.
type filterEnv struct {
	Name        string  `expr:"name"`
	Category    string  `expr:"category"`
	Enabled     bool    `expr:"enabled"`
	Speed       float64 `expr:"speed"`
	Ingredients int     `expr:"ingredients"`
	Results     int     `expr:"results"`
}

// Run executes the extract command.
func (e *Extract) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	recipes, err := loadRecipes(ctx)
	if err != nil {
		return err
	}

	if e.Filter != "" {
		recipes, err = filterRecipes(recipes, e.Filter)
		if err != nil {
			return err
		}
	}

	return writeRecipes(outputFrom(ctx), recipes, e.Format, e.Indent)
}

// filterRecipes keeps the recipes for which src evaluates true. The
// expression sees name, category, enabled, speed, and the ingredient and
// result counts of each recipe.
func filterRecipes(recipes []recipe.Recipe, src string) ([]recipe.Recipe, error) {
	program, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, pkg.ErrFilterCompile.Wrap(err)
	}

	kept := make([]recipe.Recipe, 0, len(recipes))

	for _, r := range recipes {
		out, err := expr.Run(program, filterEnv{
			Name:        r.Name,
			Category:    r.Category,
			Enabled:     r.Enabled,
			Speed:       r.Speed,
			Ingredients: len(r.Ingredients),
			Results:     len(r.Results),
		})
		if err != nil {
			return nil, pkg.ErrFilterCompile.Wrap(err)
		}

		if keep, ok := out.(bool); ok && keep {
			kept = append(kept, r)
		}
	}

	return kept, nil
}

// writeRecipes marshals recipes in the requested format.
func writeRecipes(
	w io.Writer,
	recipes []recipe.Recipe,
	format string,
	indent int,
) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(recipes, "", strings.Repeat(" ", indent))
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		data, err := yaml.Marshal(recipes)
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (valid: yaml, json)", format)
	}
}

// outputFrom returns the writer command output should go to, honoring a
// redirected kong stdout during tests.
func outputFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
