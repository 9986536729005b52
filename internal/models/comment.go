package models

import "time"

// RawComment is one PR comment as delivered by the source fetcher.
// Immutable once fetched.
type RawComment struct {
	ID        int64
	PRNumber  int
	Author    string
	AuthorURL string
	Body      string
	URL       string
	CreatedAt time.Time
}

// ClassifiedComment is a RawComment with an assigned verdict category,
// the commit hash the verdict references (if any), and a display snippet.
type ClassifiedComment struct {
	RawComment
	Category VerdictCategory
	Commit   string
	Snippet  string
}

// ReviewerState is the current verdict of one author on one PR: the latest
// classified comment from that (PR, author) pair. Overwritten on each newer
// classified comment, never merged.
type ReviewerState struct {
	PRNumber   int
	Author     string
	AuthorURL  string
	Category   VerdictCategory
	Commit     string
	CommentURL string
	Snippet    string
	Timestamp  time.Time
}
