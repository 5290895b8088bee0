package parser

import "strings"

// parseIngredientSection parses the ingredient lists and headed groups
// between the two separators.
func (s *state) parseIngredientSection() ([]Ingredient, []IngredientGroup, error) {
	var ingredients []Ingredient
	var groups []IngredientGroup
	for {
		switch typ := s.peekType(); {
		case typ == "heading_open":
			more, err := s.parseGroups(-1)
			if err != nil {
				return nil, nil, err
			}
			groups = append(groups, more...)
		case isList(typ):
			var err error
			ingredients, err = s.parseList(ingredients)
			if err != nil {
				return nil, nil, err
			}
		default:
			return ingredients, groups, nil
		}
	}
}

// parseGroups parses consecutive headings deeper than parentLevel, each
// with its own list and deeper subgroups.
func (s *state) parseGroups(parentLevel int) ([]IngredientGroup, error) {
	var groups []IngredientGroup
	for s.peekType() == "heading_open" {
		level := s.tokens[s.pos].HeadingLevel()
		if level <= parentLevel {
			break
		}

		line := s.line()
		s.pos++
		content, ok := s.next()
		if !ok {
			return nil, invariantf(line, "expected heading content, got end of document instead")
		}
		if _, ok := s.next(); !ok {
			return nil, invariantf(line, "expected heading_close, got end of document instead")
		}

		group := IngredientGroup{Title: content.Content}
		if isList(s.peekType()) {
			var err error
			if group.Ingredients, err = s.parseList(nil); err != nil {
				return nil, err
			}
		}

		sub, err := s.parseGroups(level)
		if err != nil {
			return nil, err
		}
		group.IngredientGroups = sub
		groups = append(groups, group)
	}
	return groups, nil
}

// parseList parses consecutive bullet or ordered lists into ingredients.
func (s *state) parseList(ingredients []Ingredient) ([]Ingredient, error) {
	for isList(s.peekType()) {
		line := s.line()
		end, err := closeIndex(s.tokens, s.pos)
		if err != nil {
			return nil, err
		}
		s.pos++

		for s.peekType() == "list_item_open" {
			ing, err := s.parseIngredient()
			if err != nil {
				return nil, err
			}
			ingredients = append(ingredients, ing)
		}

		if s.pos != end {
			return nil, invariantf(line, "list ends at token %d, expected %d", s.pos, end)
		}
		s.pos = min(end+1, len(s.tokens))
	}
	return ingredients, nil
}

// parseIngredient parses one list item. The first paragraph holds the
// amount and name; any further blocks continue the name verbatim.
func (s *state) parseIngredient() (Ingredient, error) {
	line := s.line()
	if s.peekType() != "list_item_open" {
		return Ingredient{}, invariantf(line, "expected list_item_open, got %s instead", describe(s.peek()))
	}
	end, err := closeIndex(s.tokens, s.pos)
	if err != nil {
		return Ingredient{}, err
	}
	s.pos++

	continuation := -1
	var first *string
	if s.peekType() == "paragraph_open" {
		para := s.tokens[s.pos]
		paraEnd, err := closeIndex(s.tokens, s.pos)
		if err != nil {
			return Ingredient{}, err
		}
		if s.pos+1 < len(s.tokens) && s.tokens[s.pos+1].Type == "inline" {
			first = &s.tokens[s.pos+1].Content
		}
		s.pos = min(paraEnd+1, len(s.tokens))
		if para.Map != nil {
			continuation = para.Map.End
		}
	}

	var ing Ingredient
	if first != nil {
		amount, found, rest, err := s.leadingAmount(*first)
		if err != nil {
			return Ingredient{}, err
		}
		if found {
			a := ParseAmount(amount)
			ing.Amount = &a
		}
		if s.pos == end {
			if ing.Link, ing.Name, err = s.wrappingLink(rest); err != nil {
				return Ingredient{}, err
			}
		} else {
			ing.Name = rest
		}
	}

	more, err := s.blocksWhile(func() bool { return s.pos < end }, continuation)
	if err != nil {
		return Ingredient{}, err
	}
	if more != "" {
		ing.Name += "\n" + more
	}

	if s.pos != end {
		return Ingredient{}, invariantf(line, "list item ends at token %d, expected %d", s.pos, end)
	}
	s.pos = min(end+1, len(s.tokens))

	ing.Name = strings.TrimSpace(ing.Name)
	if ing.Name == "" {
		return Ingredient{}, invalidf(line, "missing ingredient name")
	}
	return ing, nil
}
