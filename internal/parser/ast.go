package parser

// Recipe is a parsed RecipeMD document. Optional text fields are empty
// when absent.
type Recipe struct {
	Title            string
	Description      string
	Tags             []string
	Yields           []Amount
	Ingredients      []Ingredient
	IngredientGroups []IngredientGroup
	Instructions     string
}

// Amount is a quantity such as "1 1/2 cups". A nil Factor means the
// amount is unit-only ("a pinch").
type Amount struct {
	Factor *float64
	Unit   string
}

type Ingredient struct {
	Name   string
	Amount *Amount
	Link   string
}

type IngredientGroup struct {
	Title            string
	Ingredients      []Ingredient
	IngredientGroups []IngredientGroup
}
