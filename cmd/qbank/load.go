// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qbank/internal/export"
	"github.com/pdiddy/qbank/pkg/types"
)

var loadCmd = &cobra.Command{
	Use:   "load <corpus.json>",
	Short: "Load a built JSON corpus into SQLite",
	Long: `Load replaces the contents of the SQLite database with the records of
a JSON corpus written by "build". Use it to index a corpus that was built
without --db.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("db_path")
	}
	if dbPath == "" {
		return errors.New("database path required: set --db or db_path in the config file")
	}

	records, err := export.ReadJSON(args[0])
	if err != nil {
		return err
	}

	result := &types.Corpus{
		Records: records,
		Summary: types.BuildSummary{Candidates: len(records), Unique: len(records)},
	}
	if err := loadStore(commandContext(cmd), dbPath, result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "loaded %d questions into %s\n", len(records), dbPath)
	return nil
}

func init() {
	loadCmd.Flags().String("db", "", "SQLite database to replace")

	rootCmd.AddCommand(loadCmd)
}
