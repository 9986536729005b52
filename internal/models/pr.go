package models

import "time"

// PRState is the lifecycle state of a pull request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// PRMeta is pull request metadata owned by the source fetcher.
type PRMeta struct {
	Number    int
	Title     string
	URL       string
	Author    string
	State     PRState
	UpdatedAt time.Time
}
