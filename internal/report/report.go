// Package report aggregates per-PR reviewer states into presentation-ready
// PR reports: category buckets, counts, and an overall disposition.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reez/ackamoto/internal/models"
)

// SortKey selects the presentation order of PR reports.
type SortKey string

const (
	// SortActivity orders by most recent verdict activity, descending.
	SortActivity SortKey = "activity"
	// SortNumber orders by PR number, descending.
	SortNumber SortKey = "number"
	// SortVerdicts orders by the count of primary-family verdicts, descending.
	SortVerdicts SortKey = "verdicts"
)

// Options controls report construction.
type Options struct {
	// Mode selects which verdict family is primary for counting and
	// display emphasis. Defaults to ack.
	Mode models.Mode
	// Sort defaults to SortActivity.
	Sort SortKey
}

// PlaceholderTitle is used for PRs referenced by comments but missing from
// the fetched metadata.
const PlaceholderTitle = "(unknown PR)"

// Build produces one immutable PRReport per PR, covering every PR present
// in the metadata set or referenced by a reviewer state. PRs with no states
// get the Unreviewed disposition and empty buckets; PRs with states but no
// metadata get a placeholder title and a metadata-gap warning.
func Build(states []models.ReviewerState, prs map[int]models.PRMeta, opts Options) ([]models.PRReport, []models.Warning) {
	if opts.Mode == "" {
		opts.Mode = models.ModeACK
	}
	if opts.Sort == "" {
		opts.Sort = SortActivity
	}

	byPR := make(map[int][]models.ReviewerState)
	for _, st := range states {
		byPR[st.PRNumber] = append(byPR[st.PRNumber], st)
	}

	numbers := make(map[int]struct{}, len(prs)+len(byPR))
	for n := range prs {
		numbers[n] = struct{}{}
	}
	for n := range byPR {
		numbers[n] = struct{}{}
	}

	var warnings []models.Warning
	reports := make([]models.PRReport, 0, len(numbers))
	for n := range numbers {
		meta, ok := prs[n]
		placeholder := !ok
		if placeholder {
			meta = models.PRMeta{Number: n, Title: PlaceholderTitle}
			warnings = append(warnings, models.Warning{
				Code:     models.WarnMetadataGap,
				Message:  fmt.Sprintf("PR #%d referenced by comments but missing from metadata", n),
				PRNumber: n,
			})
		}
		reports = append(reports, buildOne(meta, placeholder, byPR[n], opts))
	}

	sortReports(reports, opts.Sort)
	return reports, warnings
}

func buildOne(meta models.PRMeta, placeholder bool, states []models.ReviewerState, opts Options) models.PRReport {
	r := models.PRReport{
		Meta:            meta,
		MetaPlaceholder: placeholder,
		Disposition:     models.DispositionUnreviewed,
		LastActivity:    meta.UpdatedAt,
	}

	byCategory := make(map[models.VerdictCategory][]models.ReviewerState)
	for _, st := range states {
		byCategory[st.Category] = append(byCategory[st.Category], st)
		r.ReviewerCount++
		if opts.Mode.Matches(st.Category) {
			r.PrimaryCount++
		}
		if st.Timestamp.After(r.LastActivity) {
			r.LastActivity = st.Timestamp
		}
	}

	anyACK, anyNACK := false, false
	for _, cat := range models.Categories {
		reviewers, ok := byCategory[cat]
		if !ok {
			continue
		}
		sort.Slice(reviewers, func(i, j int) bool {
			return strings.ToLower(reviewers[i].Author) < strings.ToLower(reviewers[j].Author)
		})
		r.Buckets = append(r.Buckets, models.Bucket{Category: cat, Reviewers: reviewers})
		anyACK = anyACK || cat.IsACK()
		anyNACK = anyNACK || cat.IsNACK()
	}

	switch {
	case anyNACK:
		r.Disposition = models.DispositionNACKed
	case anyACK:
		r.Disposition = models.DispositionACKed
	}
	return r
}

// sortReports orders reports by the configured key, with PR number
// descending as the tie-breaker so output is reproducible.
func sortReports(reports []models.PRReport, key SortKey) {
	sort.Slice(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		switch key {
		case SortNumber:
		case SortVerdicts:
			if a.PrimaryCount != b.PrimaryCount {
				return a.PrimaryCount > b.PrimaryCount
			}
		default: // SortActivity
			if !a.LastActivity.Equal(b.LastActivity) {
				return a.LastActivity.After(b.LastActivity)
			}
		}
		return a.Meta.Number > b.Meta.Number
	})
}

// ParseSortKey validates a user-supplied sort key.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortActivity, SortNumber, SortVerdicts:
		return SortKey(s), nil
	case "":
		return SortActivity, nil
	default:
		return "", fmt.Errorf("unknown sort key: %s (use: activity, number, verdicts)", s)
	}
}
