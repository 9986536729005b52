package models

import "fmt"

// WarningCode classifies a non-fatal defect encountered during a run.
type WarningCode string

const (
	// WarnDataDefect marks an input record skipped for a missing or
	// malformed timestamp, author, or PR linkage.
	WarnDataDefect WarningCode = "data_defect"

	// WarnMetadataGap marks a PR referenced by comments but absent from
	// the fetched PR metadata.
	WarnMetadataGap WarningCode = "metadata_gap"
)

// Warning is a non-fatal defect surfaced to the caller for logging.
// Warnings never abort a run.
type Warning struct {
	Code     WarningCode
	Message  string
	PRNumber int
	Author   string
}

func (w Warning) String() string {
	if w.PRNumber > 0 {
		return fmt.Sprintf("%s: PR #%d: %s", w.Code, w.PRNumber, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}
