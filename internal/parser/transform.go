package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrYieldNotFound is returned by ScaleToYield when no yield of the recipe
// can be compared with the requested one.
var ErrYieldNotFound = errors.New("no matching yield")

// Multiply returns a deep copy of r with every amount, yields included,
// multiplied by f. Unit-only amounts are left alone.
func (r *Recipe) Multiply(f float64) *Recipe {
	out := *r
	out.Tags = append([]string(nil), r.Tags...)
	out.Yields = nil
	for _, y := range r.Yields {
		out.Yields = append(out.Yields, y.Multiply(f))
	}
	out.Ingredients = multiplyIngredients(r.Ingredients, f)
	out.IngredientGroups = multiplyGroups(r.IngredientGroups, f)
	return &out
}

// ScaleToYield multiplies r so that its yield in target's unit becomes
// target, e.g. a recipe for "2 loaves" scaled to "6 loaves" is tripled.
func (r *Recipe) ScaleToYield(target Amount) (*Recipe, error) {
	if target.Factor == nil {
		return nil, fmt.Errorf("yield %q has no amount", target.Unit)
	}
	for _, y := range r.Yields {
		if y.Factor == nil || *y.Factor == 0 || !strings.EqualFold(y.Unit, target.Unit) {
			continue
		}
		return r.Multiply(*target.Factor / *y.Factor), nil
	}
	return nil, fmt.Errorf("%w for unit %q", ErrYieldNotFound, target.Unit)
}

// Multiply returns a with its factor multiplied by f.
func (a Amount) Multiply(f float64) Amount {
	if a.Factor == nil {
		return a
	}
	v := *a.Factor * f
	a.Factor = &v
	return a
}

// Walk calls fn for every ingredient in document order, with the titles
// of the groups enclosing it.
func (r *Recipe) Walk(fn func(path []string, ing Ingredient)) {
	for _, ing := range r.Ingredients {
		fn(nil, ing)
	}
	walkGroups(r.IngredientGroups, nil, fn)
}

func walkGroups(groups []IngredientGroup, path []string, fn func([]string, Ingredient)) {
	for _, g := range groups {
		p := append(path[:len(path):len(path)], g.Title)
		for _, ing := range g.Ingredients {
			fn(p, ing)
		}
		walkGroups(g.IngredientGroups, p, fn)
	}
}

func multiplyIngredients(ings []Ingredient, f float64) []Ingredient {
	if ings == nil {
		return nil
	}
	out := make([]Ingredient, len(ings))
	for i, ing := range ings {
		if ing.Amount != nil {
			a := ing.Amount.Multiply(f)
			ing.Amount = &a
		}
		out[i] = ing
	}
	return out
}

func multiplyGroups(groups []IngredientGroup, f float64) []IngredientGroup {
	if groups == nil {
		return nil
	}
	out := make([]IngredientGroup, len(groups))
	for i, g := range groups {
		out[i] = IngredientGroup{
			Title:            g.Title,
			Ingredients:      multiplyIngredients(g.Ingredients, f),
			IngredientGroups: multiplyGroups(g.IngredientGroups, f),
		}
	}
	return out
}
