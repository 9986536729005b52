// Package classify maps raw PR comments to verdict categories. Quoted
// replies and fenced code blocks are stripped before matching so that
// quoting someone else's NACK never attributes a NACK to the commenter.
package classify

import (
	"regexp"
	"strings"

	"github.com/reez/ackamoto/internal/lexicon"
	"github.com/reez/ackamoto/internal/models"
)

// DefaultSnippetLen is the display snippet budget in bytes.
const DefaultSnippetLen = 200

// Classifier turns RawComments into ClassifiedComments. It is total:
// unmatchable input degrades to Unclassified, never an error.
type Classifier struct {
	lex        *lexicon.Lexicon
	snippetLen int
}

// New returns a Classifier using the given lexicon.
func New(lex *lexicon.Lexicon) *Classifier {
	return &Classifier{lex: lex, snippetLen: DefaultSnippetLen}
}

// Classify produces exactly one ClassifiedComment per RawComment.
func (c *Classifier) Classify(rc models.RawComment) models.ClassifiedComment {
	visible := stripQuotedAndFenced(rc.Body)
	return models.ClassifiedComment{
		RawComment: rc,
		Category:   c.lex.Match(visible),
		Commit:     extractCommit(visible),
		Snippet:    Snippet(rc.Body, c.snippetLen),
	}
}

// stripQuotedAndFenced removes quoted-reply lines (`> ...`) and fenced code
// blocks (``` or ~~~) so only text the author wrote themselves is matched.
func stripQuotedAndFenced(body string) string {
	var out []string
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(trimmed, ">") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// hexToken matches commit-hash shaped tokens: 7 to 40 hex characters.
var hexToken = regexp.MustCompile(`(?i)\b[0-9a-f]{7,40}\b`)

// extractCommit returns the first commit-hash reference in the text, or "".
// Backticks are treated as separators so `ab12cd34` is recognized, and
// all-digit tokens are rejected to avoid picking up issue numbers.
func extractCommit(text string) string {
	cleaned := strings.ReplaceAll(text, "`", " ")
	for _, tok := range hexToken.FindAllString(cleaned, -1) {
		if strings.ContainsAny(strings.ToLower(tok), "abcdef") {
			return tok
		}
	}
	return ""
}

// Snippet returns the leading lines of body up to max bytes, appending "..."
// when truncated.
func Snippet(body string, max int) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if b.Len()+len(line) > max {
			b.WriteString("...")
			break
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
