package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ogomez92/brook-feeder/internal/store"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a subscription interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		feeds := store.NewFeeds(db)
		all, err := feeds.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No feeds configured.")
			return nil
		}

		for i, rec := range all {
			fmt.Printf("%d. %s\n", i+1, feedLabel(rec))
		}
		fmt.Print("Number to remove (q to cancel): ")

		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading selection: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "q" || line == "" {
			fmt.Println("Cancelled.")
			return nil
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(all) {
			return fmt.Errorf("invalid selection %q", line)
		}

		rec := all[n-1]
		if err := feeds.Remove(cmd.Context(), rec.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", feedLabel(rec))
		return nil
	},
}

// feedLabel prefers the resolved title; unresolved feeds only have a URL.
func feedLabel(rec store.FeedRecord) string {
	if rec.Title != "" {
		return rec.Title
	}
	return rec.URL
}
