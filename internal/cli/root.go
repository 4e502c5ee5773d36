// Package cli implements the serdetable command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/serdetable/internal/config"
	"github.com/JonMunkholm/serdetable/internal/logging"
	"github.com/JonMunkholm/serdetable/table"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var (
	configPath string
	envFile    string
	logLevel   string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "serdetable",
	Short: "Convert text tables into typed records",
	Long: `serdetable reads whitespace-separated text tables, where quoted cells
may contain spaces, and converts each row into a record of a registered
schema. The first row names the columns unless --columns is given.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default $"+config.FileEnv+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration; missing files are ignored")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
}

// Execute runs the root command and reports any error on stderr.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(rootCmd, err)
		return 1
	}
	return 0
}

func reportError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Error: %v\n", err)
	if table.IsUserFacing(err) {
		fmt.Fprintln(w, table.FormatUserError(err))
	}
}

// setup loads the dotenv file, configuration and logger.
func setup(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		// Variables already in the environment win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	path := configPath
	if path == "" {
		path = os.Getenv(config.FileEnv)
	}

	c, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	level := c.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, c.Logging.Format))

	slog.Debug("configuration loaded", "config", c.String())
	cfg = c
	return nil
}
