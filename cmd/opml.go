package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogomez92/brook-feeder/internal/opml"
	"github.com/ogomez92/brook-feeder/internal/store"
)

var flagExportOut string

var importCmd = &cobra.Command{
	Use:   "import <file.opml>",
	Short: "Import subscriptions from an OPML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		urls, err := opml.ExtractURLs(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if len(urls) == 0 {
			fmt.Println("No feeds found in document.")
			return nil
		}

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
		var added, dupes, failed int
		for _, url := range urls {
			rec, err := subscribe(cmd.Context(), cfg, feeds, url)
			switch {
			case err == nil:
				added++
				fmt.Printf("Added %q\n", rec.Title)
			case isDuplicate(err):
				dupes++
				fmt.Printf("Skipped %s (already subscribed)\n", url)
			default:
				failed++
				fmt.Printf("Failed %s: %v\n", url, err)
			}
		}
		fmt.Printf("Imported %d feed(s), %d duplicate(s), %d failure(s).\n", added, dupes, failed)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export subscriptions as OPML",
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
		doc, err := opml.Export(all)
		if err != nil {
			return err
		}

		if flagExportOut == "" {
			fmt.Println(doc)
			return nil
		}
		if err := os.WriteFile(flagExportOut, []byte(doc+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flagExportOut, err)
		}
		fmt.Printf("Exported %d feed(s) to %s\n", len(all), flagExportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "write OPML to a file instead of stdout")
}
