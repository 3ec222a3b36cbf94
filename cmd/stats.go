package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbPath := cfg.DatabasePath()
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		feeds, notified, err := db.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		var size int64
		if fi, err := os.Stat(dbPath); err == nil {
			size = fi.Size()
		}

		fmt.Printf("Database: %s\n", dbPath)
		fmt.Printf("Feeds: %d\n", feeds)
		fmt.Printf("Notified articles: %d\n", notified)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
