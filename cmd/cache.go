package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the raw-data cache",
	Long: `The cache holds raw fetched pull requests and comments so offline
reports and rate-limited environments can skip refetching. Verdicts are
never cached; every run recomputes them.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache contents and recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cacheStatsRun(cmd)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cacheClearRun(cmd)
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cacheStatsRun(cmd *cobra.Command) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	stats, err := s.Stats(ctx)
	if err != nil {
		return err
	}

	ui.Info("Pull requests: %d", stats.PullRequests)
	ui.Info("Comments:      %d", stats.Comments)
	ui.Info("Runs:          %d", stats.Runs)
	if !stats.LastFetched.IsZero() {
		ui.Info("Last fetched:  %s", stats.LastFetched.UTC().Format("2006-01-02 15:04 MST"))
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	table := ui.Table([]string{"Run", "Mode", "PRs", "Comments", "Verdicts", "Warnings", "Finished"})
	for _, r := range runs {
		_ = table.Append([]string{
			r.ID,
			r.Mode,
			fmt.Sprintf("%d", r.PRCount),
			fmt.Sprintf("%d", r.CommentCount),
			fmt.Sprintf("%d", r.VerdictCount),
			fmt.Sprintf("%d", r.WarningCount),
			r.FinishedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
	return nil
}

func cacheClearRun(cmd *cobra.Command) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would clear all cached data")
		return nil
	}

	if err := s.Clear(cmd.Context()); err != nil {
		return err
	}
	ui.Success("Cache cleared")
	return nil
}
