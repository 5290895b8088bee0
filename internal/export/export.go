// Package export renders parsed recipes as JSON, YAML or plain text.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/chriserin/rmd/internal/parser"
)

type recipeDoc struct {
	Title            string          `json:"title" yaml:"title"`
	Description      *string         `json:"description" yaml:"description"`
	Tags             []string        `json:"tags" yaml:"tags"`
	Yields           []amountDoc     `json:"yields" yaml:"yields"`
	Ingredients      []ingredientDoc `json:"ingredients" yaml:"ingredients"`
	IngredientGroups []groupDoc      `json:"ingredient_groups" yaml:"ingredient_groups"`
	Instructions     *string         `json:"instructions" yaml:"instructions"`
}

type amountDoc struct {
	Factor *string `json:"factor" yaml:"factor"`
	Unit   *string `json:"unit" yaml:"unit"`
}

type ingredientDoc struct {
	Name   string     `json:"name" yaml:"name"`
	Amount *amountDoc `json:"amount" yaml:"amount"`
	Link   *string    `json:"link" yaml:"link"`
}

type groupDoc struct {
	Title            string          `json:"title" yaml:"title"`
	Ingredients      []ingredientDoc `json:"ingredients" yaml:"ingredients"`
	IngredientGroups []groupDoc      `json:"ingredient_groups" yaml:"ingredient_groups"`
}

// JSON returns r as indented JSON.
func JSON(r *parser.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDoc(r)); err != nil {
		return nil, fmt.Errorf("encoding recipe as json: %w", err)
	}
	return buf.Bytes(), nil
}

// YAML returns r as a YAML document.
func YAML(r *parser.Recipe) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toDoc(r)); err != nil {
		return nil, fmt.Errorf("encoding recipe as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding recipe as yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Factor renders f as the shortest decimal that round-trips, e.g. "1.5".
func Factor(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(f).String()
}

// FormatAmount renders a for people: "1.5 cups", "3", "a pinch".
func FormatAmount(a parser.Amount) string {
	if a.Factor == nil {
		return a.Unit
	}
	if a.Unit == "" {
		return Factor(*a.Factor)
	}
	return Factor(*a.Factor) + " " + a.Unit
}

func toDoc(r *parser.Recipe) recipeDoc {
	doc := recipeDoc{
		Title:            r.Title,
		Description:      optional(r.Description),
		Tags:             append([]string{}, r.Tags...),
		Yields:           make([]amountDoc, 0, len(r.Yields)),
		Ingredients:      ingredientDocs(r.Ingredients),
		IngredientGroups: groupDocs(r.IngredientGroups),
		Instructions:     optional(r.Instructions),
	}
	for _, y := range r.Yields {
		doc.Yields = append(doc.Yields, toAmountDoc(y))
	}
	return doc
}

func toAmountDoc(a parser.Amount) amountDoc {
	doc := amountDoc{Unit: optional(a.Unit)}
	if a.Factor != nil {
		f := Factor(*a.Factor)
		doc.Factor = &f
	}
	return doc
}

func ingredientDocs(ings []parser.Ingredient) []ingredientDoc {
	out := make([]ingredientDoc, 0, len(ings))
	for _, ing := range ings {
		doc := ingredientDoc{Name: ing.Name, Link: optional(ing.Link)}
		if ing.Amount != nil {
			a := toAmountDoc(*ing.Amount)
			doc.Amount = &a
		}
		out = append(out, doc)
	}
	return out
}

func groupDocs(groups []parser.IngredientGroup) []groupDoc {
	out := make([]groupDoc, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupDoc{
			Title:            g.Title,
			Ingredients:      ingredientDocs(g.Ingredients),
			IngredientGroups: groupDocs(g.IngredientGroups),
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
