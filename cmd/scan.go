package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reez/ackamoto/internal/aggregate"
	"github.com/reez/ackamoto/internal/classify"
	"github.com/reez/ackamoto/internal/github"
	"github.com/reez/ackamoto/internal/lexicon"
	"github.com/reez/ackamoto/internal/models"
	"github.com/reez/ackamoto/internal/render"
	"github.com/reez/ackamoto/internal/report"
	"github.com/reez/ackamoto/internal/store"
)

var (
	scanMode    string
	scanOffline bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan PR comments and write the report page",
	Long: `Fetch pull requests and comments, classify review verdicts, and write
index.html and report.json to the output directory. On fetch failure an
error page is written instead; the scan never fails the invoking job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return scanRun(cmd.Context())
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanMode, "mode", "ack", "Report mode: ack or nack")
	scanCmd.Flags().BoolVar(&scanOffline, "offline", false, "Use only cached data, skip the network")
	rootCmd.AddCommand(scanCmd)
}

// parseMode validates a user-supplied mode flag.
func parseMode(s string) (models.Mode, error) {
	switch models.Mode(s) {
	case models.ModeACK, models.ModeNACK:
		return models.Mode(s), nil
	case "":
		return models.ModeACK, nil
	default:
		return "", fmt.Errorf("unknown mode: %s (use: ack, nack)", s)
	}
}

// pipelineResult is everything one engine run produces.
type pipelineResult struct {
	Repo         string
	Mode         models.Mode
	Reports      []models.PRReport
	Warnings     []models.Warning
	PRCount      int
	CommentCount int
	VerdictCount int
}

// runPipeline executes the full engine once: fetch (or cache-read),
// classify, aggregate, build.
func runPipeline(ctx context.Context, mode models.Mode, sortKey report.SortKey, offline bool) (*pipelineResult, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}

	lex := lexicon.Default()
	if path := viper.GetString("lexicon.file"); path != "" {
		lex, err = lexicon.Load(path)
		if err != nil {
			return nil, err
		}
	}

	repo := viper.GetString("github.repo")
	token := githubToken()
	if token == "" && !offline {
		ui.Warning("No GitHub token configured; API requests will be rate limited")
	}

	rest := github.NewRESTClient(repo, token)
	rest.MaxPages = viper.GetInt("github.max_pages")
	client := github.NewCachingClient(rest, s, repo)
	client.Offline = offline

	prs, err := client.ListPullRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch pull requests: %w", err)
	}
	ui.VerboseLog("Found %d pull requests", len(prs))

	limit := github.ScanLimit(viper.GetInt("github.pr_limit"), token != "")
	if len(prs) > limit {
		prs = prs[:limit]
	}

	prMeta := make(map[int]models.PRMeta, len(prs))
	for _, pr := range prs {
		prMeta[pr.Number] = pr
	}

	classifier := classify.New(lex)
	var classified []models.ClassifiedComment
	commentCount := 0

	for i, pr := range prs {
		if verbose && i%10 == 0 {
			ui.VerboseLog("Processing PR %d/%d", i+1, len(prs))
		}

		comments, err := client.ListComments(ctx, pr.Number)
		if err != nil {
			// A single PR's comments failing is not fatal to the run.
			ui.Warning("PR #%d: %v", pr.Number, err)
			continue
		}
		commentCount += len(comments)

		for _, rc := range comments {
			classified = append(classified, classifier.Classify(rc))
		}
	}

	states, warnings := aggregate.Aggregate(classified, prMeta, aggregate.Options{
		ExcludedAuthors: viper.GetStringSlice("exclude.authors"),
	})

	reports, reportWarnings := report.Build(states, prMeta, report.Options{Mode: mode, Sort: sortKey})
	warnings = append(warnings, reportWarnings...)

	for _, w := range warnings {
		ui.Warning("%s", w)
	}

	return &pipelineResult{
		Repo:         repo,
		Mode:         mode,
		Reports:      reports,
		Warnings:     warnings,
		PRCount:      len(prs),
		CommentCount: commentCount,
		VerdictCount: len(states),
	}, nil
}

func scanRun(ctx context.Context) error {
	mode, err := parseMode(scanMode)
	if err != nil {
		return err
	}

	outDir := viper.GetString("output.dir")
	started := time.Now().UTC()

	res, err := runPipeline(ctx, mode, report.SortActivity, scanOffline)
	if err != nil {
		// Best-effort contract: publish an error page instead of failing,
		// so the scheduled run keeps the site explaining itself.
		ui.Error("Scan failed: %v", err)
		page, rerr := render.ErrorPage(render.ErrorData{
			Mode:    mode,
			Message: "Unable to fetch data from the GitHub API. This may be due to rate limiting.",
		})
		if rerr != nil {
			return rerr
		}
		return writeArtifact(outDir, "index.html", page)
	}

	page, err := render.Page(render.PageData{
		Mode:        mode,
		Repo:        res.Repo,
		GeneratedAt: time.Now(),
		Reports:     res.Reports,
	})
	if err != nil {
		return err
	}
	if err := writeArtifact(outDir, "index.html", page); err != nil {
		return err
	}

	data, err := json.MarshalIndent(res.Reports, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := writeArtifact(outDir, "report.json", data); err != nil {
		return err
	}

	if !dryRun {
		if s, serr := getStore(); serr == nil {
			run := &store.Run{
				Repo:         res.Repo,
				Mode:         string(mode),
				PRCount:      res.PRCount,
				CommentCount: res.CommentCount,
				VerdictCount: res.VerdictCount,
				WarningCount: len(res.Warnings),
				StartedAt:    started,
				FinishedAt:   time.Now().UTC(),
			}
			if err := s.RecordRun(ctx, run); err != nil {
				ui.Warning("record run: %v", err)
			}
		}
	}

	printScanSummary(res)
	return nil
}

func writeArtifact(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if dryRun {
		ui.DryRunMsg("Would write %s (%d bytes)", path, len(data))
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	ui.Success("Wrote %s", path)
	return nil
}

func printScanSummary(res *pipelineResult) {
	reviewed := 0
	for _, r := range res.Reports {
		if r.Disposition != models.DispositionUnreviewed {
			reviewed++
		}
	}
	ui.Info("Scanned %d PRs, %d comments: %d current verdicts across %d reviewed PRs",
		res.PRCount, res.CommentCount, res.VerdictCount, reviewed)
}
