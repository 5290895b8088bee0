package cmd

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chriserin/rmd/internal/config"
	"github.com/chriserin/rmd/internal/db"
	"github.com/chriserin/rmd/internal/logfields"
	"github.com/chriserin/rmd/internal/parser"
	"github.com/chriserin/rmd/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index every .md recipe in the recipes folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

type trackedFile struct {
	id   int64
	hash string
}

func RunSync(w io.Writer, c config.Config) error {
	start := time.Now()

	sqlDB, err := openIndex(c)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	paths, err := findRecipes(c.RecipesDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", c.RecipesDir, err)
	}

	tracked, err := loadTracked(sqlDB)
	if err != nil {
		return err
	}

	count := 0
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		sum := sha256.Sum256(content)
		hash := hex.EncodeToString(sum[:])

		prev, known := tracked[path]
		delete(tracked, path)
		count++

		if known && prev.hash == hash {
			slog.Debug("unchanged", logfields.Path(path))
			ui.TrkLine(w, path)
			continue
		}

		parseErr, err := indexFile(sqlDB, path, hash, prev.id, string(content))
		if err != nil {
			return err
		}
		switch {
		case parseErr != nil:
			slog.Debug("invalid recipe", logfields.Path(path), logfields.Error(parseErr))
			ui.ErrLine(w, path, parseErr.Error())
		case known:
			slog.Debug("reindexed", logfields.Path(path), logfields.Action("upd"))
			ui.UpdLine(w, path)
		default:
			slog.Debug("indexed", logfields.Path(path), logfields.Action("new"))
			ui.NewLine(w, path)
		}
	}

	removed := make([]string, 0, len(tracked))
	for path := range tracked {
		removed = append(removed, path)
	}
	sort.Strings(removed)
	for _, path := range removed {
		if _, err := sqlDB.Exec(`DELETE FROM files WHERE id = ?`, tracked[path].id); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		ui.DelLine(w, path)
	}

	ui.SummaryLine(w, count)
	slog.Debug("sync finished",
		logfields.Count(count),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return nil
}

// findRecipes returns the .md files under dir in lexical order, skipping
// hidden directories.
func findRecipes(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, filepath.ToSlash(path))
		}
		return nil
	})
	return paths, err
}

func loadTracked(sqlDB *sql.DB) (map[string]trackedFile, error) {
	rows, err := sqlDB.Query(`SELECT id, file_path, content_hash FROM files`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	tracked := make(map[string]trackedFile)
	for rows.Next() {
		var path string
		var f trackedFile
		if err := rows.Scan(&f.id, &path, &f.hash); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		tracked[path] = f
	}
	return tracked, rows.Err()
}

// indexFile parses content and stores the result for path in a single
// transaction. A rejected recipe is recorded and returned as parseErr.
func indexFile(sqlDB *sql.DB, path, hash string, fileID int64, content string) (parseErr error, err error) {
	tx, err := sqlDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction for %s: %w", path, err)
	}
	defer tx.Rollback()

	if fileID == 0 {
		res, err := tx.Exec(`INSERT INTO files (file_path, content_hash) VALUES (?, ?)`, path, hash)
		if err != nil {
			return nil, fmt.Errorf("inserting %s: %w", path, err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("inserting %s: %w", path, err)
		}
	} else {
		_, err := tx.Exec(`UPDATE files SET content_hash = ?, updated_at = datetime('now') WHERE id = ?`, hash, fileID)
		if err != nil {
			return nil, fmt.Errorf("updating %s: %w", path, err)
		}
	}

	r, parseErr := parser.Parse(content)
	if parseErr != nil {
		attrs := []any{logfields.Path(path), logfields.Error(parseErr)}
		var pe *parser.ParseError
		if errors.As(parseErr, &pe) {
			attrs = append(attrs, logfields.Line(pe.Line))
		}
		if errors.Is(parseErr, parser.ErrInvalidRecipe) {
			slog.Debug("recipe rejected", attrs...)
		} else {
			slog.Warn("parser could not read recipe", attrs...)
		}
		if err := db.SaveParseError(tx, fileID, parseErr); err != nil {
			return nil, fmt.Errorf("recording error for %s: %w", path, err)
		}
	} else {
		id, err := db.SaveRecipe(tx, fileID, r)
		if err != nil {
			return nil, fmt.Errorf("indexing %s: %w", path, err)
		}
		slog.Debug("recipe stored", logfields.Path(path), logfields.RecipeID(id), logfields.Title(r.Title))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing %s: %w", path, err)
	}
	return parseErr, nil
}
