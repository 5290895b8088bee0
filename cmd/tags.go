package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/rmd/internal/config"
	"github.com/chriserin/rmd/internal/ui"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag with the number of recipes using it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTags(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

type tagCount struct {
	name  string
	count int
}

func RunTags(w io.Writer, c config.Config) error {
	sqlDB, err := openIndex(c)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT name, COUNT(DISTINCT recipe_id) AS cnt
		FROM tags
		GROUP BY name
		ORDER BY cnt DESC, name
	`)
	if err != nil {
		return fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var counts []tagCount
	width := 0
	for rows.Next() {
		var tc tagCount
		if err := rows.Scan(&tc.name, &tc.count); err != nil {
			return fmt.Errorf("scanning tag row: %w", err)
		}
		width = max(width, len(tc.name))
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tags: %w", err)
	}

	if len(counts) == 0 {
		fmt.Fprintln(w, "no tags")
		return nil
	}
	for _, tc := range counts {
		ui.TagRow(w, tc.name, tc.count, width)
	}
	return nil
}
