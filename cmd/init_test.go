package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/rmd/internal/config"
	"github.com/chriserin/rmd/internal/db"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func runInit(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf, config.Default()))
	return buf.String()
}

func TestInit_CreatesRecipesDirectory(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	info, err := os.Stat(filepath.Join(dir, "recipes"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out, "recipes/ created")
}

func TestInit_RecipesDirectoryAlreadyExists(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "recipes"), 0o755))

	out := runInit(t)
	assert.Contains(t, out, "recipes/ already exists")
}

func TestInit_InitializesSQLiteDatabase(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	dbPath := filepath.Join(dir, "recipes", "rmd.db")
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.Open(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Contains(t, out, "recipes/rmd.db created")
}

func TestInit_DatabaseAlreadyExists(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)
	assert.Contains(t, out, "recipes/rmd.db already exists")
}

func TestInit_AppliesAllMigrations(t *testing.T) {
	inTempDir(t)
	runInit(t)

	sqlDB, err := db.Open("recipes/rmd.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var version int
	require.NoError(t, sqlDB.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, len(db.All), version)
}

func TestInit_CustomLocations(t *testing.T) {
	dir := inTempDir(t)
	c := config.Default()
	c.RecipesDir = "cookbook"
	c.Database = ".rmd/index.db"

	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf, c))

	_, err := os.Stat(filepath.Join(dir, "cookbook"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".rmd", "index.db"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ".rmd/index.db added to .gitignore")
}

func TestInit_AddsToGitignore(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules"), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "node_modules\nrecipes/rmd.db\n", string(data))
	assert.Contains(t, out, "recipes/rmd.db added to .gitignore")
}

func TestInit_GitignoreAlreadyHasEntry(t *testing.T) {
	dir := inTempDir(t)
	original := "node_modules\nrecipes/rmd.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(original), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.Contains(t, out, "recipes/rmd.db already in .gitignore")
}

func TestInit_NoGitignoreExists(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "recipes/rmd.db\n", string(data))
	assert.Contains(t, out, ".gitignore created")
}
