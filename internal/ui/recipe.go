package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/rmd/internal/export"
	"github.com/chriserin/rmd/internal/parser"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	groupStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	amountStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	sectionStyle = lipgloss.NewStyle().Underline(true)
)

// ShowHeader prints the index id and file a recipe was loaded from.
func ShowHeader(w io.Writer, id int64, fileName string) {
	fmt.Fprintln(w, idStyle.Render(fmt.Sprintf("#%d", id))+"  "+faintStyle.Render(fileName))
}

// ShowRecipe prints r for reading in a terminal.
func ShowRecipe(w io.Writer, r *parser.Recipe) {
	fmt.Fprintln(w, titleStyle.Render(r.Title))

	if r.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Description)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tags:   "+tagStyle.Render(strings.Join(r.Tags, ", ")))
	}
	if len(r.Yields) > 0 {
		yields := make([]string, len(r.Yields))
		for i, y := range r.Yields {
			yields[i] = export.FormatAmount(y)
		}
		if len(r.Tags) == 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "Yields: "+amountStyle.Render(strings.Join(yields, ", ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Ingredients"))
	showIngredients(w, r.Ingredients, 0)
	showGroups(w, r.IngredientGroups, 0)

	if r.Instructions != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Instructions"))
		fmt.Fprintln(w, r.Instructions)
	}
}

func showIngredients(w io.Writer, ings []parser.Ingredient, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, ing := range ings {
		line := indent + "- "
		if ing.Amount != nil {
			line += amountStyle.Render(export.FormatAmount(*ing.Amount)) + " "
		}
		line += strings.ReplaceAll(ing.Name, "\n", "\n"+indent+"  ")
		if ing.Link != "" {
			line += " " + faintStyle.Render("("+ing.Link+")")
		}
		fmt.Fprintln(w, line)
	}
}

func showGroups(w io.Writer, groups []parser.IngredientGroup, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, g := range groups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, indent+groupStyle.Render(g.Title))
		showIngredients(w, g.Ingredients, depth)
		showGroups(w, g.IngredientGroups, depth+1)
	}
}
