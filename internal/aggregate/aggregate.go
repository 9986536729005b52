// Package aggregate folds classified comments into per-reviewer states.
// Supersession is by recency: the latest classified comment from an author
// on a PR always replaces their prior verdict, regardless of strength.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reez/ackamoto/internal/models"
)

// Options controls which commenters are excluded from aggregation.
type Options struct {
	// ExcludedAuthors are exact logins to skip, case-insensitive, in
	// addition to the built-in bot filter.
	ExcludedAuthors []string
}

// excluded reports whether a login is filtered out. Usernames containing
// "bot" (CI and automation accounts) are always skipped.
func (o Options) excluded(author string) bool {
	lower := strings.ToLower(author)
	if strings.Contains(lower, "bot") {
		return true
	}
	for _, ex := range o.ExcludedAuthors {
		if lower == strings.ToLower(ex) {
			return true
		}
	}
	return false
}

type pairKey struct {
	pr     int
	author string
}

// Aggregate folds comments into the final ReviewerState per (PR, author)
// pair. Input order does not matter: comments are sorted into a total order
// keyed by (PR, author, timestamp, comment ID) first, so two runs fed the
// same set in different orderings produce identical output.
//
// Records with a missing timestamp, author, or PR linkage are skipped with
// a data-defect warning. Comments by the PR's own author are excluded.
// Unclassified comments never alter a running state.
func Aggregate(comments []models.ClassifiedComment, prs map[int]models.PRMeta, opts Options) ([]models.ReviewerState, []models.Warning) {
	sorted := make([]models.ClassifiedComment, len(comments))
	copy(sorted, comments)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PRNumber != b.PRNumber {
			return a.PRNumber < b.PRNumber
		}
		if a.Author != b.Author {
			return a.Author < b.Author
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	var warnings []models.Warning
	states := make(map[pairKey]models.ReviewerState)

	for _, cc := range sorted {
		switch {
		case cc.PRNumber <= 0:
			warnings = append(warnings, models.Warning{
				Code:    models.WarnDataDefect,
				Message: fmt.Sprintf("comment %d has no PR linkage, skipped", cc.ID),
				Author:  cc.Author,
			})
			continue
		case cc.Author == "":
			warnings = append(warnings, models.Warning{
				Code:     models.WarnDataDefect,
				Message:  fmt.Sprintf("comment %d has no author, skipped", cc.ID),
				PRNumber: cc.PRNumber,
			})
			continue
		case cc.CreatedAt.IsZero():
			warnings = append(warnings, models.Warning{
				Code:     models.WarnDataDefect,
				Message:  fmt.Sprintf("comment %d has no timestamp, skipped", cc.ID),
				PRNumber: cc.PRNumber,
				Author:   cc.Author,
			})
			continue
		}

		if opts.excluded(cc.Author) {
			continue
		}
		if meta, ok := prs[cc.PRNumber]; ok && strings.EqualFold(meta.Author, cc.Author) {
			// A PR author cannot ACK their own PR.
			continue
		}

		if cc.Category == models.VerdictUnclassified {
			continue
		}

		key := pairKey{pr: cc.PRNumber, author: strings.ToLower(cc.Author)}
		states[key] = models.ReviewerState{
			PRNumber:   cc.PRNumber,
			Author:     cc.Author,
			AuthorURL:  cc.AuthorURL,
			Category:   cc.Category,
			Commit:     cc.Commit,
			CommentURL: cc.URL,
			Snippet:    cc.Snippet,
			Timestamp:  cc.CreatedAt,
		}
	}

	out := make([]models.ReviewerState, 0, len(states))
	for _, st := range states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PRNumber != out[j].PRNumber {
			return out[i].PRNumber < out[j].PRNumber
		}
		return strings.ToLower(out[i].Author) < strings.ToLower(out[j].Author)
	})
	return out, warnings
}
