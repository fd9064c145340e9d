// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qbank CLI. qbank builds a
// deduplicated question corpus from markdown Q/A documents, writes it to
// JSON or YAML, and optionally loads it into a queryable SQLite store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the qbank CLI.
var rootCmd = &cobra.Command{
	Use:   "qbank",
	Short: "Build a deduplicated question bank from markdown Q/A documents",
	Long: `qbank reads markdown documents made of "## Q:" sections, extracts one
typed record per section, classifies each record by difficulty, type and
tags, merges near-duplicate questions across documents, and writes the
resulting corpus.

Use "build" to produce the corpus and "query" to search a corpus that was
loaded into SQLite with --db.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return setupLogger(level)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qbank.yaml or ~/.config/qbank/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qbank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qbank"))
		}
	}

	viper.SetEnvPrefix("QBANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogger installs a text slog handler on stderr at the given level.
func setupLogger(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info", "":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q: use debug, info, warn, or error", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// yamlTags makes viper decode into structs by their yaml tags, so one set
// of struct tags serves both the config file and the output formats.
func yamlTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
