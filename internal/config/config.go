package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Formats lists the output formats accepted by `rmd show`.
var Formats = []string{"pretty", "json", "yaml"}

// Config holds the settings shared by every command.
type Config struct {
	RecipesDir string `yaml:"recipes_dir"`
	Database   string `yaml:"database"`
	Format     string `yaml:"format"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		RecipesDir: "recipes",
		Database:   "recipes/rmd.db",
		Format:     "pretty",
	}
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when it does not exist) and RMD_* environment variables. A .env
// file in the working directory is loaded first; it never overrides
// variables that are already set.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	overlay(&cfg.RecipesDir, "RMD_RECIPES_DIR")
	overlay(&cfg.Database, "RMD_DATABASE")
	overlay(&cfg.Format, "RMD_FORMAT")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects empty paths and unknown formats.
func (c Config) Validate() error {
	if c.RecipesDir == "" {
		return fmt.Errorf("recipes_dir must not be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("database must not be empty")
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q (want one of %v)", c.Format, Formats)
	}
	return nil
}

func overlay(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
