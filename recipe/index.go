package recipe

import "slices"

// Index maps each product name to the recipes that produce it.
// A recipe with multiple results appears under each of them.
type Index map[string][]Recipe

// NewIndex builds an [Index] from decoded recipes.
func NewIndex(recipes []Recipe) Index {
	idx := make(Index)

	for _, r := range recipes {
		for _, out := range r.Results {
			idx[out.Name] = append(idx[out.Name], r)
		}
	}

	return idx
}

// Products returns every product name in the index, sorted.
func (x Index) Products() []string {
	names := make([]string, 0, len(x))

	for name := range x {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
