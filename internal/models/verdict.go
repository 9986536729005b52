package models

// VerdictCategory is a reviewer's current sentiment on a pull request,
// extracted from comment text.
type VerdictCategory string

const (
	VerdictTestedACK     VerdictCategory = "Tested ACK"
	VerdictCodeReviewACK VerdictCategory = "Code Review ACK"
	VerdictUtACK         VerdictCategory = "utACK"
	VerdictConceptACK    VerdictCategory = "Concept ACK"
	VerdictApproachACK   VerdictCategory = "Approach ACK"
	VerdictACK           VerdictCategory = "ACK"
	VerdictStrongNACK    VerdictCategory = "Strong NACK"
	VerdictWeakNACK      VerdictCategory = "Weak NACK"
	VerdictConceptNACK   VerdictCategory = "Concept NACK"
	VerdictNACK          VerdictCategory = "NACK"
	VerdictUnclassified  VerdictCategory = "Unclassified"
)

// Categories lists every category in precedence/display order, strongest
// first within each family. Unclassified is deliberately absent: it is a
// classifier result, never a report bucket.
var Categories = []VerdictCategory{
	VerdictTestedACK,
	VerdictCodeReviewACK,
	VerdictUtACK,
	VerdictConceptACK,
	VerdictApproachACK,
	VerdictACK,
	VerdictStrongNACK,
	VerdictWeakNACK,
	VerdictConceptNACK,
	VerdictNACK,
}

// IsACK reports whether the category belongs to the positive (ACK) family.
func (c VerdictCategory) IsACK() bool {
	switch c {
	case VerdictTestedACK, VerdictCodeReviewACK, VerdictUtACK,
		VerdictConceptACK, VerdictApproachACK, VerdictACK:
		return true
	}
	return false
}

// IsNACK reports whether the category belongs to the negative (NACK) family.
func (c VerdictCategory) IsNACK() bool {
	switch c {
	case VerdictStrongNACK, VerdictWeakNACK, VerdictConceptNACK, VerdictNACK:
		return true
	}
	return false
}

// Mode selects which verdict family a run treats as primary.
type Mode string

const (
	ModeACK  Mode = "ack"
	ModeNACK Mode = "nack"
)

// Matches reports whether the category belongs to the mode's primary family.
func (m Mode) Matches(c VerdictCategory) bool {
	if m == ModeNACK {
		return c.IsNACK()
	}
	return c.IsACK()
}
