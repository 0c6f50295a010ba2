// Package recipe converts parsed prototype registrations into typed
// crafting records and indexes them by product.
package recipe

import (
	"errors"

	"github.com/ardnew/protoplan/lua"
	"github.com/ardnew/protoplan/pkg"
)

// Ingredient is one input or output of a crafting recipe.
//
// Prototype sources spell ingredients two ways: a name/amount pair such
// as {"iron-plate", 2}, or a table with name, amount, and type keys.
type Ingredient struct {
	Name   string `json:"name"   yaml:"name"`
	Amount int64  `json:"amount" yaml:"amount"`
	Type   string `json:"type"   yaml:"type"`
}

// DecodeIngredient decodes an [Ingredient] from either of its source
// forms. The pair form carries type "item" implicitly. The table form
// requires name and defaults amount to 1 and type to "item".
func DecodeIngredient(v *lua.Value) (Ingredient, error) {
	if name, amount, err := lua.Pair(lua.Str, lua.Int)(v); err == nil {
		return Ingredient{Name: name, Amount: amount, Type: "item"}, nil
	}

	fields, err := lua.AsFields(v)
	if err != nil {
		return Ingredient{}, lua.NewError(
			"ingredient is neither a name/amount pair nor a table",
		).Wrap(err)
	}

	var ing Ingredient

	if ing.Name, err = lua.Field(fields, "name", lua.Str); err != nil {
		return Ingredient{}, err
	}

	if ing.Amount, err = lua.FieldOr(fields, "amount", lua.Int, 1); err != nil {
		return Ingredient{}, err
	}

	if ing.Type, err = lua.FieldOr(fields, "type", lua.Str, "item"); err != nil {
		return Ingredient{}, err
	}

	return ing, nil
}

// Recipe is a crafting recipe extracted from a prototype registration.
//
// Speed is the reciprocal of the recipe's energy_required, in products
// per second at crafting speed 1.
type Recipe struct {
	Name        string       `json:"name"        yaml:"name"`
	Category    string       `json:"category"    yaml:"category"`
	Enabled     bool         `json:"enabled"     yaml:"enabled"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Speed       float64      `json:"speed"       yaml:"speed"`
	Results     []Ingredient `json:"results"     yaml:"results"`
}

// Decode decodes a single [Recipe] from a registration record.
//
// The record must be a table with at least name and ingredients. When a
// normal sub-table is present its fields supply the recipe body in place
// of the outer table. Results come from the results list when present,
// otherwise from result with an optional result_count.
func Decode(v *lua.Value) (Recipe, error) {
	fields, err := lua.AsFields(v)
	if err != nil {
		return Recipe{}, err
	}

	var r Recipe

	if r.Name, err = lua.Field(fields, "name", lua.Str); err != nil {
		return Recipe{}, err
	}

	if r.Category, err = lua.FieldOr(fields, "category", lua.Str, "crafting"); err != nil {
		return Recipe{}, err
	}

	// Difficulty variants nest the body under a normal key. A normal
	// entry that is not a table is discarded rather than rejected.
	body := fields
	if normal, err := lua.Field(fields, "normal", lua.AsFields); err == nil {
		body = normal
	}

	if r.Results, err = decodeResults(body); err != nil {
		return Recipe{}, err
	}

	if r.Enabled, err = lua.FieldOr(body, "enabled", lua.Bool, true); err != nil {
		return Recipe{}, err
	}

	energy, err := lua.FieldOr(body, "energy_required", lua.Float, 1.0)
	if err != nil {
		return Recipe{}, err
	}

	if r.Ingredients, err = lua.Field(
		body, "ingredients", lua.Slice(DecodeIngredient),
	); err != nil {
		return Recipe{}, err
	}

	r.Speed = 1 / energy

	return r, nil
}

func decodeResults(body lua.Fields) ([]Ingredient, error) {
	if _, ok := body["results"]; ok {
		return lua.Field(body, "results", lua.Slice(DecodeIngredient))
	}

	name, err := lua.Field(body, "result", lua.Str)
	if err != nil {
		if errors.Is(err, lua.ErrMissingField) {
			return nil, lua.NewError(`no "result" or "results" field`).Wrap(err)
		}

		return nil, err
	}

	count, err := lua.FieldOr(body, "result_count", lua.Int, 1)
	if err != nil {
		return nil, err
	}

	return []Ingredient{{Name: name, Amount: count, Type: "item"}}, nil
}

// DecodeAll decodes every record of one registration batch, the array
// value passed to a single data:extend call.
func DecodeAll(v *lua.Value) ([]Recipe, error) {
	recipes, err := lua.Slice(Decode)(v)
	if err != nil {
		return nil, pkg.ErrDecode.Wrap(err)
	}

	return recipes, nil
}
