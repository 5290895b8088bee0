package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/rmd/internal/config"
	"github.com/chriserin/rmd/internal/export"
	"github.com/chriserin/rmd/internal/parser"
	"github.com/chriserin/rmd/internal/ui"
)

// ShowOptions control how `rmd show` renders a recipe.
type ShowOptions struct {
	Format   string  // pretty, json or yaml; empty means the configured format
	Multiply float64 // 0 leaves amounts alone
	Yield    string  // e.g. "6 servings"; scales the recipe to that yield
}

var showOpts ShowOptions

var errMultiplyFactor = errors.New("--multiply must be greater than 0")

var showCmd = &cobra.Command{
	Use:   "show <id|path>",
	Short: "Show a recipe by index id or file path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The zero value means "not given", so an explicit 0 is caught here.
		if cmd.Flags().Changed("multiply") && showOpts.Multiply <= 0 {
			return errMultiplyFactor
		}
		return RunShow(cmd.OutOrStdout(), cfg, args[0], showOpts)
	},
}

func init() {
	showCmd.Flags().StringVarP(&showOpts.Format, "format", "f", "", "Output format: pretty, json or yaml")
	showCmd.Flags().Float64VarP(&showOpts.Multiply, "multiply", "m", 0, "Multiply every amount by this factor")
	showCmd.Flags().StringVarP(&showOpts.Yield, "yield", "y", "", "Scale the recipe to this yield, e.g. \"6 servings\"")
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, c config.Config, target string, opts ShowOptions) error {
	format := opts.Format
	if format == "" {
		format = c.Format
	}
	if !slices.Contains(config.Formats, format) {
		return fmt.Errorf("unknown format %q (want one of %v)", format, config.Formats)
	}
	if opts.Multiply < 0 {
		return errMultiplyFactor
	}
	if opts.Multiply != 0 && opts.Yield != "" {
		return fmt.Errorf("--multiply and --yield cannot be combined")
	}

	path, id, err := resolveRecipe(c, target)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	r, err := parser.Parse(string(content))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	switch {
	case opts.Multiply != 0:
		r = r.Multiply(opts.Multiply)
	case opts.Yield != "":
		if r, err = r.ScaleToYield(parser.ParseAmount(opts.Yield)); err != nil {
			return fmt.Errorf("scaling %s: %w", path, err)
		}
	}

	switch format {
	case "json":
		out, err := export.JSON(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "yaml":
		out, err := export.YAML(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}

	if id != 0 {
		ui.ShowHeader(w, id, filepath.Base(path))
		fmt.Fprintln(w)
	}
	ui.ShowRecipe(w, r)
	return nil
}

// resolveRecipe maps an index id ("3" or "#3") to its file. Anything else
// is taken as a path and read directly.
func resolveRecipe(c config.Config, target string) (string, int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(target, "#"), 10, 64)
	if err != nil {
		return target, 0, nil
	}
	if _, statErr := os.Stat(target); statErr == nil {
		return target, 0, nil
	}

	sqlDB, err := openIndex(c)
	if err != nil {
		return "", 0, err
	}
	defer sqlDB.Close()

	var path string
	err = sqlDB.QueryRow(`
		SELECT f.file_path
		FROM recipes r
		JOIN files f ON r.file_id = f.id
		WHERE r.id = ?
	`, id).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, fmt.Errorf("recipe %d not found", id)
	}
	if err != nil {
		return "", 0, fmt.Errorf("looking up recipe %d: %w", id, err)
	}
	return path, id, nil
}
