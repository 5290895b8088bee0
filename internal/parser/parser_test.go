package parser

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/rmd/internal/markdown"
)

const water = "# Water\n\n*drink*\n\n**1 glass**\n\n---\n\n- *1* glass\n- *1* faucet\n\n---\n\nTurn on the faucet and fill the glass."

func factor(f float64) *float64 {
	return &f
}

func TestParse_Water(t *testing.T) {
	r, err := Parse(water)
	require.NoError(t, err)

	assert.Equal(t, "Water", r.Title)
	assert.Equal(t, "", r.Description)
	assert.Equal(t, []string{"drink"}, r.Tags)
	assert.Equal(t, []Amount{{Factor: factor(1), Unit: "glass"}}, r.Yields)
	assert.Equal(t, []Ingredient{
		{Name: "glass", Amount: &Amount{Factor: factor(1)}},
		{Name: "faucet", Amount: &Amount{Factor: factor(1)}},
	}, r.Ingredients)
	assert.Empty(t, r.IngredientGroups)
	assert.Equal(t, "Turn on the faucet and fill the glass.", r.Instructions)
}

func TestParse_IsDeterministic(t *testing.T) {
	a, err := Parse(water)
	require.NoError(t, err)
	b, err := Parse(water)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_ConcurrentCallsAreIndependent(t *testing.T) {
	want, err := Parse(water)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Recipe, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Parse(water)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func TestParse_Description(t *testing.T) {
	src := "# Bread\n\nSimple bread.\n\nBake it *hot*.\n\n*baking*\n\n---\n\n- flour\n"
	r, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, "Simple bread.\n\nBake it *hot*.", r.Description)
	assert.Equal(t, []string{"baking"}, r.Tags)
	assert.Equal(t, "", r.Instructions)
}

func TestParse_DescriptionStopsAtRule(t *testing.T) {
	r, err := Parse("# Bread\n\nSimple bread.\n\n---\n\n- flour\n")
	require.NoError(t, err)
	assert.Equal(t, "Simple bread.", r.Description)
	assert.Nil(t, r.Tags)
	assert.Nil(t, r.Yields)
}

func TestParse_TagsAndYieldsSplitting(t *testing.T) {
	src := "# Soup\n\n**1,5 l, 4 servings**\n\n*vegan, soup , quick*\n\n---\n\n- water\n"
	r, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"vegan", "soup", "quick"}, r.Tags)
	assert.Equal(t, []Amount{
		{Factor: factor(1.5), Unit: "l"},
		{Factor: factor(4), Unit: "servings"},
	}, r.Yields)
}

func TestParse_EmptyDocumentFails(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}

func TestParse_MissingTitleFails(t *testing.T) {
	_, err := Parse("Just some text\n\n---\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "got paragraph_open instead")
}

func TestParse_TitleLevelTwoFails(t *testing.T) {
	_, err := Parse("## Water\n\n---\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "level h2")
}

func TestParse_EmptyTitleFails(t *testing.T) {
	_, err := Parse("#\n\n---\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}

func TestParse_DuplicateTagsFail(t *testing.T) {
	_, err := Parse("# Water\n\n*a*\n\n*b*\n\n---\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "tags may not be specified multiple times")

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 5, perr.Line)
}

func TestParse_DuplicateYieldsFail(t *testing.T) {
	_, err := Parse("# Water\n\n**1 glass**\n\n*drink*\n\n**2 glasses**\n\n---\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "yields may not be specified multiple times")
}

func TestParse_MissingIngredientSeparatorFails(t *testing.T) {
	_, err := Parse("# Water\n\n*drink*\n\n- *1* glass\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "expected hr before ingredient list")
}

func TestParse_MissingInstructionSeparatorFails(t *testing.T) {
	_, err := Parse("# Water\n\n---\n\n- glass\n\nFill it.\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "expected hr before instructions")
}

func TestParse_NoInstructionsIsFine(t *testing.T) {
	r, err := Parse("# Water\n\n---\n\n- glass\n")
	require.NoError(t, err)
	assert.Equal(t, "", r.Instructions)
	assert.Equal(t, []Ingredient{{Name: "glass"}}, r.Ingredients)
}

func TestParse_MissingIngredientNameFails(t *testing.T) {
	_, err := Parse("# Water\n\n---\n\n- *1*\n")
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), "missing ingredient name")
}

func TestParse_IngredientWithLink(t *testing.T) {
	r, err := Parse("# Bread\n\n---\n\n- *200 g* [Flour](https://example.com)\n")
	require.NoError(t, err)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, Ingredient{
		Name:   "Flour",
		Amount: &Amount{Factor: factor(200), Unit: "g"},
		Link:   "https://example.com",
	}, r.Ingredients[0])
}

func TestParse_LinkNotWrappingWholeNameIsKept(t *testing.T) {
	r, err := Parse("# Bread\n\n---\n\n- [Flour](https://example.com), sifted\n")
	require.NoError(t, err)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, "[Flour](https://example.com), sifted", r.Ingredients[0].Name)
	assert.Equal(t, "", r.Ingredients[0].Link)
	assert.Nil(t, r.Ingredients[0].Amount)
}

func TestParse_StrongIsNotAnAmount(t *testing.T) {
	r, err := Parse("# Bread\n\n---\n\n- **salt**\n")
	require.NoError(t, err)
	require.Len(t, r.Ingredients, 1)
	assert.Nil(t, r.Ingredients[0].Amount)
	assert.Equal(t, "**salt**", r.Ingredients[0].Name)
}

func TestParse_IngredientContinuation(t *testing.T) {
	src := "# Eggs\n\n---\n\n- *1* egg\n\n  beaten well\n"
	r, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, "egg\n\n  beaten well", r.Ingredients[0].Name)
	assert.Equal(t, &Amount{Factor: factor(1)}, r.Ingredients[0].Amount)
}

func TestParse_NestedGroups(t *testing.T) {
	src := "# Cake\n\n---\n\n## Dough\n\n- *200 g* flour\n\n### Topping\n\n- *1* cherry\n"
	r, err := Parse(src)
	require.NoError(t, err)

	assert.Empty(t, r.Ingredients)
	require.Len(t, r.IngredientGroups, 1)
	dough := r.IngredientGroups[0]
	assert.Equal(t, "Dough", dough.Title)
	assert.Equal(t, []Ingredient{{Name: "flour", Amount: &Amount{Factor: factor(200), Unit: "g"}}}, dough.Ingredients)
	require.Len(t, dough.IngredientGroups, 1)
	assert.Equal(t, "Topping", dough.IngredientGroups[0].Title)
	assert.Equal(t, []Ingredient{{Name: "cherry", Amount: &Amount{Factor: factor(1)}}}, dough.IngredientGroups[0].Ingredients)
}

func TestParse_SiblingGroupsAndUngroupedIngredients(t *testing.T) {
	src := "# Cake\n\n---\n\n- sugar\n\n## Dough\n\n1. flour\n2. milk\n\n## Icing\n\n- cocoa\n\n---\n\nMix.\n"
	r, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, []Ingredient{{Name: "sugar"}}, r.Ingredients)
	require.Len(t, r.IngredientGroups, 2)
	assert.Equal(t, "Dough", r.IngredientGroups[0].Title)
	assert.Equal(t, []Ingredient{{Name: "flour"}, {Name: "milk"}}, r.IngredientGroups[0].Ingredients)
	assert.Equal(t, "Icing", r.IngredientGroups[1].Title)
	assert.Empty(t, r.IngredientGroups[1].IngredientGroups)
	assert.Equal(t, "Mix.", r.Instructions)
}

func TestParse_GroupWithoutList(t *testing.T) {
	src := "# Cake\n\n---\n\n## Dough\n\n### Wet\n\n- milk\n"
	r, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, r.IngredientGroups, 1)
	assert.Empty(t, r.IngredientGroups[0].Ingredients)
	require.Len(t, r.IngredientGroups[0].IngredientGroups, 1)
	assert.Equal(t, "Wet", r.IngredientGroups[0].IngredientGroups[0].Title)
}

func TestParse_InstructionsKeepSourceText(t *testing.T) {
	src := "# Tea\n\n---\n\n- tea\n\n---\n\n1. Boil water.\n2. Steep *3 minutes*.\n\nEnjoy.\n"
	r, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "1. Boil water.\n2. Steep *3 minutes*.\n\nEnjoy.", r.Instructions)
}

func TestParse_CRLFLineEndings(t *testing.T) {
	src := "# Water\r\n\r\n---\r\n\r\n- *1* glass\r\n\r\n---\r\n\r\nFill it."
	r, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "Water", r.Title)
	assert.Equal(t, "Fill it.", r.Instructions)
}

// fakeTokenizer replays a fixed block stream, for token streams the
// goldmark adapter never produces.
type fakeTokenizer struct {
	blocks []markdown.Token
}

func (f fakeTokenizer) Blocks(string) []markdown.Token { return f.blocks }

func (fakeTokenizer) Emphasis(s string) []markdown.Token { return markdown.Goldmark{}.Emphasis(s) }

func (fakeTokenizer) Links(s string) []markdown.Token { return markdown.Goldmark{}.Links(s) }

func lines(start, end int) *markdown.LineRange {
	return &markdown.LineRange{Start: start, End: end}
}

func titleAndRule() []markdown.Token {
	return []markdown.Token{
		{Type: "heading_open", Tag: "h1", Nesting: markdown.Opening, Map: lines(0, 1)},
		{Type: "inline", Level: 1, Content: "T", Map: lines(0, 1)},
		{Type: "heading_close", Tag: "h1", Nesting: markdown.Closing},
		{Type: "hr", Map: lines(2, 3)},
	}
}

func TestParse_UnclosedListConsumesThroughEnd(t *testing.T) {
	blocks := append(titleAndRule(),
		markdown.Token{Type: "bullet_list_open", Nesting: markdown.Opening, Map: lines(4, 5)},
		markdown.Token{Type: "list_item_open", Nesting: markdown.Opening, Level: 1, Map: lines(4, 5)},
		markdown.Token{Type: "paragraph_open", Nesting: markdown.Opening, Level: 2, Map: lines(4, 5)},
		markdown.Token{Type: "inline", Level: 3, Content: "*1* egg", Map: lines(4, 5)},
		markdown.Token{Type: "paragraph_close", Nesting: markdown.Closing, Level: 2},
	)

	r, err := New(fakeTokenizer{blocks: blocks}).Parse("# T\n\n---\n\n- *1* egg")
	require.NoError(t, err)
	assert.Equal(t, []Ingredient{{Name: "egg", Amount: &Amount{Factor: factor(1)}}}, r.Ingredients)
}

func TestParse_MisplacedListCloseIsInvariantViolation(t *testing.T) {
	blocks := append(titleAndRule(),
		markdown.Token{Type: "bullet_list_open", Nesting: markdown.Opening, Map: lines(4, 6)},
		markdown.Token{Type: "list_item_open", Nesting: markdown.Opening, Level: 1, Map: lines(4, 5)},
		markdown.Token{Type: "paragraph_open", Nesting: markdown.Opening, Level: 2, Map: lines(4, 5)},
		markdown.Token{Type: "inline", Level: 3, Content: "egg", Map: lines(4, 5)},
		markdown.Token{Type: "paragraph_close", Nesting: markdown.Closing, Level: 2},
		markdown.Token{Type: "list_item_close", Nesting: markdown.Closing, Level: 1},
		markdown.Token{Type: "hr", Level: 1, Map: lines(5, 6)},
		markdown.Token{Type: "bullet_list_close", Nesting: markdown.Closing},
	)

	_, err := New(fakeTokenizer{blocks: blocks}).Parse("# T\n\n---\n\n- egg\n---")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.False(t, IsInvalid(err))
}

func TestParse_UnmappedBlockIsInvariantViolation(t *testing.T) {
	blocks := append(titleAndRule(),
		markdown.Token{Type: "hr", Map: lines(4, 5)},
		markdown.Token{Type: "paragraph_open", Nesting: markdown.Opening},
		markdown.Token{Type: "inline", Level: 1, Content: "Fill it."},
		markdown.Token{Type: "paragraph_close", Nesting: markdown.Closing},
	)

	_, err := New(fakeTokenizer{blocks: blocks}).Parse("# T\n\n---\n\n---\n\nFill it.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestParse_HeadingWithoutContentIsInvariantViolation(t *testing.T) {
	blocks := []markdown.Token{
		{Type: "heading_open", Tag: "h1", Nesting: markdown.Opening, Map: lines(0, 1)},
	}
	_, err := New(fakeTokenizer{blocks: blocks}).Parse("# T")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", " b"}, splitList("a, b"))
	assert.Equal(t, []string{"1,5 l"}, splitList("1,5 l"))
	assert.Equal(t, []string{"1", " 5"}, splitList("1, 5"))
	assert.Equal(t, []string{"", "2"}, splitList(",2"))
	assert.Equal(t, []string{""}, splitList(""))
}

func TestCloseIndex_SkipsNestedSameKind(t *testing.T) {
	tokens := []markdown.Token{
		{Type: "bullet_list_open", Nesting: markdown.Opening, Level: 0},
		{Type: "bullet_list_open", Nesting: markdown.Opening, Level: 2},
		{Type: "bullet_list_close", Nesting: markdown.Closing, Level: 2},
		{Type: "bullet_list_close", Nesting: markdown.Closing, Level: 0},
	}
	end, err := closeIndex(tokens, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, end)

	end, err = closeIndex(tokens[:3], 0)
	require.NoError(t, err)
	assert.Equal(t, 3, end)

	_, err = closeIndex(tokens, 2)
	assert.True(t, errors.Is(err, ErrInvariant))
}
