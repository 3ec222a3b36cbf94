package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ogomez92/brook-feeder/internal/feed"
	"github.com/ogomez92/brook-feeder/internal/notify"
	"github.com/ogomez92/brook-feeder/internal/runner"
	"github.com/ogomez92/brook-feeder/internal/source"
	"github.com/ogomez92/brook-feeder/internal/store"
)

var (
	flagDryRun     bool
	flagSkipNotify bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch all feeds and notify new articles",
	Long: `Fetch every subscribed feed, diff against the notification cache and
post new articles to Notebrook. Articles are recorded as seen only after
a confirmed send, so failed sends are retried on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagDryRun && flagSkipNotify {
			return fmt.Errorf("--dry-run and --skip-notify are mutually exclusive")
		}
		mode := runner.Normal
		switch {
		case flagDryRun:
			mode = runner.DryRun
		case flagSkipNotify:
			mode = runner.SkipNotify
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if mode == runner.Normal {
			if err := cfg.ValidateNotify(); err != nil {
				return err
			}
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		timeout := cfg.TimeoutDuration()
		r := runner.New(
			store.NewFeeds(db),
			store.NewSeen(db),
			source.NewRegistry(&http.Client{Timeout: timeout}),
			feed.NewFetcher(timeout),
			notify.NewClient(cfg.Notebrook.URL, cfg.NotebrookToken(), cfg.Notebrook.Channel, timeout),
			cfg.WorkerCount(),
		)

		report, err := r.Run(cmd.Context(), mode)
		if err != nil {
			return err
		}
		printReport(report, mode)

		if n := report.Failures(); n > 0 {
			return fmt.Errorf("%d feed(s) failed", n)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "report new articles without notifying or recording")
	runCmd.Flags().BoolVar(&flagSkipNotify, "skip-notify", false, "record new articles as seen without notifying")
}

func printReport(report runner.Report, mode runner.Mode) {
	for _, res := range report.Results {
		label := feedLabel(res.Feed)
		if res.Title != "" {
			label = res.Title
		}
		if res.Failed() {
			fmt.Printf("%s: failed: %v\n", label, res.Err)
			continue
		}
		switch mode {
		case runner.DryRun:
			fmt.Printf("%s: %d article(s), %d new\n", label, res.Found, len(res.New))
		case runner.SkipNotify:
			fmt.Printf("%s: %d article(s), %d marked seen\n", label, res.Found, len(res.New))
		default:
			line := fmt.Sprintf("%s: %d article(s), %d new, %d notified", label, res.Found, len(res.New), res.Notified)
			if res.SendFail > 0 {
				line += fmt.Sprintf(", %d send failure(s)", res.SendFail)
			}
			fmt.Println(line)
		}
	}

	switch mode {
	case runner.DryRun:
		fmt.Printf("Dry run: %d new article(s) across %d feed(s).\n", report.TotalNew(), len(report.Results))
	case runner.SkipNotify:
		fmt.Printf("Marked %d article(s) as seen across %d feed(s).\n", report.TotalNew(), len(report.Results))
	default:
		fmt.Printf("Notified %d article(s) across %d feed(s).\n", report.TotalNotified(), len(report.Results))
	}
}
