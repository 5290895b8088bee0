package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/rmd/internal/parser"
)

// GroupSeparator joins the titles of nested ingredient groups in
// ingredients.group_path.
const GroupSeparator = " / "

// SaveRecipe replaces whatever is indexed for fileID with r and clears any
// parse error recorded for the file.
func SaveRecipe(tx *sql.Tx, fileID int64, r *parser.Recipe) (int64, error) {
	if err := clearFile(tx, fileID); err != nil {
		return 0, err
	}

	res, err := tx.Exec(`INSERT INTO recipes (file_id, title, description, instructions) VALUES (?, ?, ?, ?)`,
		fileID, r.Title, nullString(r.Description), nullString(r.Instructions))
	if err != nil {
		return 0, fmt.Errorf("inserting recipe: %w", err)
	}
	recipeID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading recipe id: %w", err)
	}

	for i, tag := range r.Tags {
		if _, err := tx.Exec(`INSERT INTO tags (recipe_id, position, name) VALUES (?, ?, ?)`, recipeID, i, tag); err != nil {
			return 0, fmt.Errorf("inserting tag %q: %w", tag, err)
		}
	}
	for i, y := range r.Yields {
		if _, err := tx.Exec(`INSERT INTO yields (recipe_id, position, factor, unit) VALUES (?, ?, ?, ?)`,
			recipeID, i, nullFloat(y.Factor), nullString(y.Unit)); err != nil {
			return 0, fmt.Errorf("inserting yield: %w", err)
		}
	}

	var walkErr error
	position := 0
	r.Walk(func(path []string, ing parser.Ingredient) {
		if walkErr != nil {
			return
		}
		var factor sql.NullFloat64
		var unit sql.NullString
		if ing.Amount != nil {
			factor = nullFloat(ing.Amount.Factor)
			unit = nullString(ing.Amount.Unit)
		}
		_, walkErr = tx.Exec(`INSERT INTO ingredients (recipe_id, position, group_path, name, factor, unit, link) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			recipeID, position, strings.Join(path, GroupSeparator), ing.Name, factor, unit, nullString(ing.Link))
		position++
	})
	if walkErr != nil {
		return 0, fmt.Errorf("inserting ingredient: %w", walkErr)
	}

	return recipeID, nil
}

// SaveParseError records why fileID could not be indexed, dropping any
// recipe previously indexed for it.
func SaveParseError(tx *sql.Tx, fileID int64, parseErr error) error {
	if err := clearFile(tx, fileID); err != nil {
		return err
	}

	kind, line, message := "invariant", 0, parseErr.Error()
	var pe *parser.ParseError
	if errors.As(parseErr, &pe) {
		line, message = pe.Line, pe.Message
	}
	if parser.IsInvalid(parseErr) {
		kind = "invalid"
	}

	_, err := tx.Exec(`INSERT INTO parse_errors (file_id, kind, line, message) VALUES (?, ?, ?, ?)`,
		fileID, kind, line, message)
	if err != nil {
		return fmt.Errorf("inserting parse error: %w", err)
	}
	return nil
}

func clearFile(tx *sql.Tx, fileID int64) error {
	if _, err := tx.Exec(`DELETE FROM recipes WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clearing recipe: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM parse_errors WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("clearing parse error: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
