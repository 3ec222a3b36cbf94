package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogomez92/brook-feeder/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribed feeds",
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

		all, err := store.NewFeeds(db).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No feeds configured.")
			return nil
		}

		for _, rec := range all {
			if rec.Resolved() {
				fmt.Printf("%s [%s]\n  %s\n", rec.Title, rec.SourceType, rec.URL)
				if rec.FeedURL != rec.URL {
					fmt.Printf("  feed: %s\n", rec.FeedURL)
				}
			} else {
				fmt.Printf("%s [unresolved]\n", rec.URL)
			}
		}
		return nil
	},
}
