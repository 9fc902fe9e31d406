package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/deepthink/internal/config"
	"github.com/steveyegge/deepthink/internal/session"
)

var sessionsDB string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List persisted refinement sessions",
	Long: `List the sessions stored in a SQLite session database, newest first.

Only applies to servers run with --store sqlite; in-memory sessions die
with their process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := sessionsDB
		if path == "" {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			path = cfg.Store.Path
		}

		store, err := session.NewSQLiteStore(path)
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		defer store.Close()

		records, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(records) == 0 {
			fmt.Printf("%s\n", gray("No sessions in "+path))
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("%s\n\n", cyan(fmt.Sprintf("=== %d session(s) in %s ===", len(records), path)))
		for _, rec := range records {
			status := yellow("in progress")
			if rec.State.Complete {
				status = green("complete")
			}
			fmt.Printf("%s  %s\n", cyan(shortID(rec.ID)), excerpt(rec.Task, 60))
			fmt.Printf("  %s, depth %d/%d, confidence %.2f, updated %s\n",
				status, rec.State.Depth, rec.Config.MaxDepth, rec.State.Confidence,
				rec.UpdatedAt.Local().Format(time.RFC822))
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func excerpt(s string, maxChars int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > maxChars {
		return s[:maxChars] + "..."
	}
	return s
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsDB, "db", "", "SQLite database path (default: store.path from config)")
	rootCmd.AddCommand(sessionsCmd)
}
