package models

import "time"

// Disposition is the PR-level summary label derived from the set of current
// reviewer verdicts.
type Disposition string

const (
	DispositionACKed      Disposition = "ACKed"
	DispositionNACKed     Disposition = "NACKed"
	DispositionUnreviewed Disposition = "Unreviewed"
)

// Bucket groups the reviewers currently holding one verdict category on a PR.
type Bucket struct {
	Category  VerdictCategory `json:"category"`
	Reviewers []ReviewerState `json:"reviewers"`
}

// Count returns the number of reviewers in the bucket.
func (b Bucket) Count() int { return len(b.Reviewers) }

// PRReport is the per-PR aggregate built once per run and never mutated.
// Buckets appear in lexicon precedence order and only when non-empty.
type PRReport struct {
	Meta            PRMeta      `json:"meta"`
	Buckets         []Bucket    `json:"buckets"`
	ReviewerCount   int         `json:"reviewer_count"`
	PrimaryCount    int         `json:"primary_count"`
	Disposition     Disposition `json:"disposition"`
	MetaPlaceholder bool        `json:"meta_placeholder,omitempty"`
	LastActivity    time.Time   `json:"last_activity"`
}

// Bucket returns the bucket for a category, or nil if no reviewer holds it.
func (r *PRReport) Bucket(c VerdictCategory) *Bucket {
	for i := range r.Buckets {
		if r.Buckets[i].Category == c {
			return &r.Buckets[i]
		}
	}
	return nil
}
