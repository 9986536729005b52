// Package lexicon defines the ordered set of recognized review-verdict
// categories and the text patterns that identify them. Precedence is table
// order: the first rule whose full pattern matches wins, so modified forms
// ("Concept ACK") are listed before the bare keywords they contain.
package lexicon

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reez/ackamoto/internal/models"
)

// rule pairs a category with its compiled whole-word pattern.
type rule struct {
	category models.VerdictCategory
	re       *regexp.Regexp
}

// Lexicon is an ordered, immutable verdict matcher.
type Lexicon struct {
	rules []rule
}

// defaultPhrases lists trigger phrases per category in precedence order.
// A space inside a phrase tolerates small runs of whitespace or hyphens, so
// "code-review ACK" and "code review ACK" both match.
var defaultPhrases = []struct {
	category models.VerdictCategory
	phrases  []string
}{
	{models.VerdictTestedACK, []string{"tested ack"}},
	{models.VerdictCodeReviewACK, []string{"code review ack"}},
	{models.VerdictUtACK, []string{"utack", "untested ack"}},
	{models.VerdictConceptACK, []string{"concept ack"}},
	{models.VerdictApproachACK, []string{"approach ack"}},
	{models.VerdictACK, []string{"ack"}},
	{models.VerdictStrongNACK, []string{"strong nack"}},
	{models.VerdictWeakNACK, []string{"weak nack"}},
	{models.VerdictConceptNACK, []string{"concept nack"}},
	{models.VerdictNACK, []string{"nack"}},
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	l, err := build(nil)
	if err != nil {
		// Built-in phrases are literals; compilation cannot fail.
		panic(err)
	}
	return l
}

// overrideFile is the YAML shape for extra trigger phrases.
type overrideFile struct {
	Categories []struct {
		Category string   `yaml:"category"`
		Phrases  []string `yaml:"phrases"`
	} `yaml:"categories"`
}

// Load returns the default lexicon merged with extra phrases from a YAML
// file. Unknown categories and empty phrases are rejected.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon file: %w", err)
	}

	var of overrideFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return nil, fmt.Errorf("parse lexicon file: %w", err)
	}

	extra := make(map[models.VerdictCategory][]string)
	for _, c := range of.Categories {
		cat := models.VerdictCategory(c.Category)
		if !known(cat) {
			return nil, fmt.Errorf("lexicon file: unknown category %q", c.Category)
		}
		for _, p := range c.Phrases {
			if strings.TrimSpace(p) == "" {
				return nil, fmt.Errorf("lexicon file: empty phrase for category %q", c.Category)
			}
			extra[cat] = append(extra[cat], p)
		}
	}

	return build(extra)
}

func known(c models.VerdictCategory) bool {
	for _, want := range models.Categories {
		if c == want {
			return true
		}
	}
	return false
}

func build(extra map[models.VerdictCategory][]string) (*Lexicon, error) {
	l := &Lexicon{}
	for _, dp := range defaultPhrases {
		phrases := append([]string{}, dp.phrases...)
		phrases = append(phrases, extra[dp.category]...)

		alts := make([]string, len(phrases))
		for i, p := range phrases {
			alts[i] = phrasePattern(p)
		}
		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile patterns for %s: %w", dp.category, err)
		}
		l.rules = append(l.rules, rule{category: dp.category, re: re})
	}
	return l, nil
}

// phrasePattern turns a plain phrase into a regexp fragment. Words must
// appear in order within a short window (up to three whitespace or hyphen
// characters between them), which keeps "concept   ACK" matching while
// "concept of the ACK" does not.
func phrasePattern(phrase string) string {
	words := strings.Fields(strings.ToLower(phrase))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `[\s-]{1,3}`)
}

// edgeEmphasis strips markdown emphasis markers so "**ACK**" and "_NACK_"
// match. Underscores interior to a word (snake_case) are left alone.
var (
	starTilde      = strings.NewReplacer("*", "", "~", "")
	edgeUnderscore = regexp.MustCompile(`\b_+|_+\b`)
)

func normalize(text string) string {
	return edgeUnderscore.ReplaceAllString(starTilde.Replace(text), "")
}

// Match returns the highest-precedence category whose pattern matches the
// text, or Unclassified when nothing matches.
func (l *Lexicon) Match(text string) models.VerdictCategory {
	normalized := normalize(text)
	for _, r := range l.rules {
		if r.re.MatchString(normalized) {
			return r.category
		}
	}
	return models.VerdictUnclassified
}
