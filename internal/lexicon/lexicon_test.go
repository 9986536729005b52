package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reez/ackamoto/internal/models"
)

func TestMatch_Categories(t *testing.T) {
	lex := Default()

	tests := []struct {
		text string
		want models.VerdictCategory
	}{
		{"ACK", models.VerdictACK},
		{"ack, nice work", models.VerdictACK},
		{"Concept ACK", models.VerdictConceptACK},
		{"concept ack from me", models.VerdictConceptACK},
		{"Approach ACK", models.VerdictApproachACK},
		{"utACK ab12cd34", models.VerdictUtACK},
		{"untested ACK", models.VerdictUtACK},
		{"Tested ACK on macOS", models.VerdictTestedACK},
		{"Code review ACK", models.VerdictCodeReviewACK},
		{"code-review ACK", models.VerdictCodeReviewACK},
		{"NACK", models.VerdictNACK},
		{"Concept NACK", models.VerdictConceptNACK},
		{"Strong NACK, this breaks consensus", models.VerdictStrongNACK},
		{"weak NACK for now", models.VerdictWeakNACK},
		{"looks interesting", models.VerdictUnclassified},
		{"", models.VerdictUnclassified},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.Match(tt.text), "text: %q", tt.text)
	}
}

func TestMatch_WholeWordOnly(t *testing.T) {
	lex := Default()

	// Substrings of unrelated words must not trigger a verdict.
	for _, text := range []string{
		"this is a hack",
		"hacky workaround",
		"let me backtrack a bit",
		"grabbing a snack",
		"unacknowledged so far",
	} {
		assert.Equal(t, models.VerdictUnclassified, lex.Match(text), "text: %q", text)
	}
}

func TestMatch_MarkdownEmphasis(t *testing.T) {
	lex := Default()

	tests := []struct {
		text string
		want models.VerdictCategory
	}{
		{"**ACK**", models.VerdictACK},
		{"*NACK*", models.VerdictNACK},
		{"_Concept ACK_", models.VerdictConceptACK},
		{"~~ACK~~ actually NACK", models.VerdictACK}, // precedence, not position
		{"__utACK__", models.VerdictUtACK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lex.Match(tt.text), "text: %q", tt.text)
	}
}

func TestMatch_SnakeCaseUnderscoresUntouched(t *testing.T) {
	lex := Default()
	assert.Equal(t, models.VerdictUnclassified, lex.Match("renamed send_ack_packet helper"))
}

func TestMatch_Precedence(t *testing.T) {
	lex := Default()

	// Higher-precedence category wins regardless of position in text.
	assert.Equal(t, models.VerdictUtACK, lex.Match("NACK the refactor but utACK the fix"))
	assert.Equal(t, models.VerdictConceptACK, lex.Match("ACK? well, Concept ACK at least"))
	assert.Equal(t, models.VerdictTestedACK, lex.Match("utACK turned tested ACK after a run"))
}

func TestMatch_ModifierWindow(t *testing.T) {
	lex := Default()

	// Small whitespace runs between modifier and keyword are tolerated.
	assert.Equal(t, models.VerdictConceptACK, lex.Match("concept   ACK"))
	// Intervening words break the phrase; the bare keyword still matches.
	assert.Equal(t, models.VerdictACK, lex.Match("the concept of the ACK"))
}

func TestLoad_MergesPhrases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `categories:
  - category: "ACK"
    phrases: ["lgtm"]
  - category: "Concept NACK"
    phrases: ["hard no"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lex, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, models.VerdictACK, lex.Match("LGTM!"))
	assert.Equal(t, models.VerdictConceptNACK, lex.Match("hard no from me"))
	// Defaults still present.
	assert.Equal(t, models.VerdictUtACK, lex.Match("utACK"))
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `categories:
  - category: "Super ACK"
    phrases: ["super ack"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Super ACK")
}

func TestLoad_RejectsEmptyPhrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `categories:
  - category: "ACK"
    phrases: ["  "]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
