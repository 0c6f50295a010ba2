package plan

import (
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/protoplan/recipe"
)

// Suggest returns up to limit product names from the index that
// resemble name, best match first. A limit of zero or less returns
// every match.
func Suggest(idx recipe.Index, name string, limit int) []string {
	matches := fuzzy.Find(name, idx.Products())

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = m.Str
	}

	return candidates
}
