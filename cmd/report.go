package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reez/ackamoto/internal/output"
	"github.com/reez/ackamoto/internal/report"
)

var (
	reportMode    string
	reportFormat  string
	reportSort    string
	reportOffline bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the verdict report to the terminal or export it",
	Long:  "Run the verdict engine and print per-PR review states as a table, JSON, CSV, or Markdown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportRun(cmd)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMode, "mode", "ack", "Report mode: ack or nack")
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, csv, markdown")
	reportCmd.Flags().StringVar(&reportSort, "sort", "activity", "Sort key: activity, number, verdicts")
	reportCmd.Flags().BoolVar(&reportOffline, "offline", false, "Use only cached data, skip the network")
	rootCmd.AddCommand(reportCmd)
}

func reportRun(cmd *cobra.Command) error {
	mode, err := parseMode(reportMode)
	if err != nil {
		return err
	}
	sortKey, err := report.ParseSortKey(reportSort)
	if err != nil {
		return err
	}

	res, err := runPipeline(cmd.Context(), mode, sortKey, reportOffline)
	if err != nil {
		return err
	}

	switch reportFormat {
	case "table":
		return reportTable(res)
	case "json":
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Reports)
	case "csv":
		return reportCSV(res)
	case "markdown":
		return reportMarkdown(res)
	default:
		return fmt.Errorf("unknown format: %s (use: table, json, csv, markdown)", reportFormat)
	}
}

func reportTable(res *pipelineResult) error {
	table := ui.Table([]string{"PR", "Title", "Disposition", "Primary", "Reviewers", "Activity"})
	for _, r := range res.Reports {
		title := r.Meta.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		activity := ""
		if !r.LastActivity.IsZero() {
			activity = r.LastActivity.UTC().Format("2006-01-02")
		}
		_ = table.Append([]string{
			fmt.Sprintf("#%d", r.Meta.Number),
			title,
			output.DispositionColor(r.Disposition),
			fmt.Sprintf("%d", r.PrimaryCount),
			fmt.Sprintf("%d", r.ReviewerCount),
			activity,
		})
	}
	_ = table.Render()

	ui.Info("%d PRs, %d current verdicts (mode: %s)", len(res.Reports), res.VerdictCount, res.Mode)
	return nil
}

func reportCSV(res *pipelineResult) error {
	w := csv.NewWriter(ui.Out)
	w.Write([]string{"PR", "Title", "Disposition", "Category", "Reviewer", "Commit", "Date"})
	for _, r := range res.Reports {
		if len(r.Buckets) == 0 {
			w.Write([]string{fmt.Sprintf("%d", r.Meta.Number), r.Meta.Title, string(r.Disposition), "", "", "", ""})
			continue
		}
		for _, b := range r.Buckets {
			for _, rv := range b.Reviewers {
				w.Write([]string{
					fmt.Sprintf("%d", r.Meta.Number), r.Meta.Title, string(r.Disposition),
					string(b.Category), rv.Author, rv.Commit,
					rv.Timestamp.UTC().Format("2006-01-02"),
				})
			}
		}
	}
	w.Flush()
	return w.Error()
}

func reportMarkdown(res *pipelineResult) error {
	fmt.Fprintf(ui.Out, "# %s review verdicts\n", res.Repo)
	fmt.Fprintln(ui.Out)
	for _, r := range res.Reports {
		fmt.Fprintf(ui.Out, "## #%d %s — %s\n", r.Meta.Number, r.Meta.Title, r.Disposition)
		for _, b := range r.Buckets {
			var names []string
			for _, rv := range b.Reviewers {
				names = append(names, rv.Author)
			}
			fmt.Fprintf(ui.Out, "- **%s** (%d): %s\n", b.Category, b.Count(), strings.Join(names, ", "))
		}
		fmt.Fprintln(ui.Out)
	}
	return nil
}
