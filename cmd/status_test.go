package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/rmd/internal/config"
)

func runStatus(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunStatus(&buf, config.Default()))
	return buf.String()
}

func TestStatus_EmptyIndex(t *testing.T) {
	inTempDir(t)
	runInit(t)

	assert.Equal(t, "Recipes: 0\nInvalid: 0\n", runStatus(t))
}

func TestStatus_CountsRecipes(t *testing.T) {
	setupDrinks(t)

	out := runStatus(t)
	assert.Contains(t, out, "Recipes: 2")
	assert.Contains(t, out, "Invalid: 0")
}

func TestStatus_ListsInvalidFiles(t *testing.T) {
	setupDrinks(t)
	writeRecipe(t, "broken.md", "# Broken\n\n*tag*\n\n- flour\n")
	writeRecipe(t, "untitled.md", "Just text.\n")
	runSync(t)

	out := runStatus(t)
	assert.Contains(t, out, "Recipes: 2")
	assert.Contains(t, out, "Invalid: 2")
	assert.Contains(t, out, "  recipes/broken.md:5: expected hr before ingredient list, got bullet_list_open instead")
	assert.Contains(t, out, "  recipes/untitled.md:1: title (heading_open with level h1) required")
}

func TestStatus_RequiresInit(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	assert.Error(t, RunStatus(&buf, config.Default()))
}
