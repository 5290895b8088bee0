package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/rmd/internal/config"
	"github.com/chriserin/rmd/internal/ui"
)

var (
	tagFlag        string
	ingredientFlag string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), cfg, tagFlag, ingredientFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Only recipes with this tag")
	listCmd.Flags().StringVar(&ingredientFlag, "ingredient", "", "Only recipes using this ingredient")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	fileName string
	title    string
	tags     []string
}

func RunList(w io.Writer, c config.Config, tag, ingredient string) error {
	sqlDB, err := openIndex(c)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var where []string
	var args []any
	if tag != "" {
		where = append(where, `EXISTS (SELECT 1 FROM tags t WHERE t.recipe_id = r.id AND t.name = ? COLLATE NOCASE)`)
		args = append(args, tag)
	}
	if ingredient != "" {
		where = append(where, `EXISTS (SELECT 1 FROM ingredients i WHERE i.recipe_id = r.id AND i.name = ? COLLATE NOCASE)`)
		args = append(args, ingredient)
	}
	query := `SELECT r.id, f.file_path, r.title FROM recipes r JOIN files f ON r.file_id = f.id`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY f.file_path`

	rows, err := sqlDB.Query(query, args...)
	if err != nil {
		return fmt.Errorf("querying recipes: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		if err := rows.Scan(&r.id, &filePath, &r.title); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.fileName = filepath.Base(filePath)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}
	rows.Close()

	if len(results) == 0 {
		return nil
	}

	tags, err := sqlDB.Query(`SELECT recipe_id, name FROM tags ORDER BY recipe_id, position`)
	if err != nil {
		return fmt.Errorf("querying tags: %w", err)
	}
	defer tags.Close()
	byRecipe := make(map[int64][]string)
	for tags.Next() {
		var id int64
		var name string
		if err := tags.Scan(&id, &name); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		byRecipe[id] = append(byRecipe[id], name)
	}
	if err := tags.Err(); err != nil {
		return fmt.Errorf("iterating tags: %w", err)
	}

	// Compute column widths
	idWidth, fileWidth, titleWidth := 0, 0, 0
	for i, r := range results {
		results[i].tags = byRecipe[r.id]
		idWidth = max(idWidth, len(fmt.Sprintf("#%d", r.id)))
		fileWidth = max(fileWidth, len(r.fileName))
		titleWidth = max(titleWidth, len(r.title))
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.fileName, r.title, r.tags, idWidth, fileWidth, titleWidth)
	}

	return nil
}
