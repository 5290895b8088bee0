package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/rmd/internal/config"
	"github.com/chriserin/rmd/internal/db"
	"github.com/chriserin/rmd/internal/logfields"
)

var (
	configPath  string
	verboseFlag bool
	cfg         = config.Default()
)

var rootCmd = &cobra.Command{
	Use:           "rmd",
	Short:         "rmd — index and read RecipeMD recipes",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verboseFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		slog.Debug("configuration loaded", logfields.Config(configPath), logfields.Path(cfg.RecipesDir))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "rmd.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openIndex opens the recipe index, failing when `rmd init` has not run.
func openIndex(c config.Config) (*sql.DB, error) {
	if _, err := os.Stat(c.RecipesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `rmd init` first")
	}
	sqlDB, err := db.Open(c.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}
