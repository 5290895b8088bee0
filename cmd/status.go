package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/rmd/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the index and list files that are not valid recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer, c config.Config) error {
	sqlDB, err := openIndex(c)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var recipes, invalid int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM recipes`).Scan(&recipes); err != nil {
		return fmt.Errorf("counting recipes: %w", err)
	}
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM parse_errors`).Scan(&invalid); err != nil {
		return fmt.Errorf("counting parse errors: %w", err)
	}

	fmt.Fprintf(w, "Recipes: %d\n", recipes)
	fmt.Fprintf(w, "Invalid: %d\n", invalid)

	if invalid == 0 {
		return nil
	}

	rows, err := sqlDB.Query(`
		SELECT f.file_path, e.kind, e.line, e.message
		FROM parse_errors e
		JOIN files f ON e.file_id = f.id
		ORDER BY f.file_path
	`)
	if err != nil {
		return fmt.Errorf("querying parse errors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path, kind, message string
		var line int
		if err := rows.Scan(&path, &kind, &line, &message); err != nil {
			return fmt.Errorf("scanning parse error: %w", err)
		}
		loc := path
		if line > 0 {
			loc = fmt.Sprintf("%s:%d", path, line)
		}
		if kind == "invalid" {
			fmt.Fprintf(w, "  %s: %s\n", loc, message)
		} else {
			fmt.Fprintf(w, "  %s: %s (%s)\n", loc, message, kind)
		}
	}

	return rows.Err()
}
