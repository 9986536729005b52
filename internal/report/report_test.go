package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reez/ackamoto/internal/aggregate"
	"github.com/reez/ackamoto/internal/classify"
	"github.com/reez/ackamoto/internal/lexicon"
	"github.com/reez/ackamoto/internal/models"
)

var t0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func state(pr int, author string, cat models.VerdictCategory, at time.Time) models.ReviewerState {
	return models.ReviewerState{PRNumber: pr, Author: author, Category: cat, Timestamp: at}
}

func meta(numbers ...int) map[int]models.PRMeta {
	m := make(map[int]models.PRMeta)
	for _, n := range numbers {
		m[n] = models.PRMeta{Number: n, Title: "change", Author: "owner", UpdatedAt: t0}
	}
	return m
}

func TestBuild_BucketsAndCounts(t *testing.T) {
	states := []models.ReviewerState{
		state(100, "alice", models.VerdictACK, t0),
		state(100, "carol", models.VerdictACK, t0.Add(time.Hour)),
		state(100, "dave", models.VerdictConceptACK, t0),
	}

	reports, warnings := Build(states, meta(100), Options{})
	require.Empty(t, warnings)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, 3, r.ReviewerCount)
	require.Len(t, r.Buckets, 2)

	ack := r.Bucket(models.VerdictACK)
	require.NotNil(t, ack)
	assert.Equal(t, 2, ack.Count())
	assert.Equal(t, "alice", ack.Reviewers[0].Author)
	assert.Equal(t, "carol", ack.Reviewers[1].Author)

	concept := r.Bucket(models.VerdictConceptACK)
	require.NotNil(t, concept)
	assert.Equal(t, 1, concept.Count())
}

func TestBuild_Dispositions(t *testing.T) {
	states := []models.ReviewerState{
		state(100, "alice", models.VerdictACK, t0),
		state(200, "alice", models.VerdictACK, t0),
		state(200, "carol", models.VerdictNACK, t0),
	}

	reports, _ := Build(states, meta(100, 200, 300), Options{})
	byNumber := make(map[int]models.PRReport)
	for _, r := range reports {
		byNumber[r.Meta.Number] = r
	}

	assert.Equal(t, models.DispositionACKed, byNumber[100].Disposition)
	// Any NACK-family bucket makes the PR NACKed, even with ACKs present.
	assert.Equal(t, models.DispositionNACKed, byNumber[200].Disposition)
	assert.Equal(t, models.DispositionUnreviewed, byNumber[300].Disposition)
	assert.Empty(t, byNumber[300].Buckets)
}

func TestBuild_MetadataGapGetsPlaceholder(t *testing.T) {
	states := []models.ReviewerState{
		state(999, "alice", models.VerdictACK, t0),
	}

	reports, warnings := Build(states, meta(), Options{})
	require.Len(t, reports, 1)
	assert.True(t, reports[0].MetaPlaceholder)
	assert.Equal(t, PlaceholderTitle, reports[0].Meta.Title)
	assert.Equal(t, 999, reports[0].Meta.Number)

	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarnMetadataGap, warnings[0].Code)
}

func TestBuild_SortActivity(t *testing.T) {
	states := []models.ReviewerState{
		state(100, "alice", models.VerdictACK, t0.Add(time.Hour)),
		state(200, "alice", models.VerdictACK, t0.Add(2*time.Hour)),
		state(300, "alice", models.VerdictACK, t0),
	}

	reports, _ := Build(states, meta(100, 200, 300), Options{Sort: SortActivity})
	assert.Equal(t, 200, reports[0].Meta.Number)
	assert.Equal(t, 100, reports[1].Meta.Number)
	assert.Equal(t, 300, reports[2].Meta.Number)
}

func TestBuild_SortVerdictsModeAware(t *testing.T) {
	states := []models.ReviewerState{
		state(100, "alice", models.VerdictACK, t0),
		state(100, "carol", models.VerdictACK, t0),
		state(200, "alice", models.VerdictNACK, t0),
		state(200, "carol", models.VerdictNACK, t0),
		state(200, "dave", models.VerdictNACK, t0),
	}
	prs := meta(100, 200)

	ackFirst, _ := Build(states, prs, Options{Mode: models.ModeACK, Sort: SortVerdicts})
	assert.Equal(t, 100, ackFirst[0].Meta.Number)
	assert.Equal(t, 2, ackFirst[0].PrimaryCount)

	nackFirst, _ := Build(states, prs, Options{Mode: models.ModeNACK, Sort: SortVerdicts})
	assert.Equal(t, 200, nackFirst[0].Meta.Number)
	assert.Equal(t, 3, nackFirst[0].PrimaryCount)
}

func TestBuild_TieBreakIsPRNumberDesc(t *testing.T) {
	states := []models.ReviewerState{
		state(100, "alice", models.VerdictACK, t0),
		state(200, "alice", models.VerdictACK, t0),
	}

	reports, _ := Build(states, meta(100, 200), Options{Sort: SortActivity})
	assert.Equal(t, 200, reports[0].Meta.Number)
	assert.Equal(t, 100, reports[1].Meta.Number)
}

func TestParseSortKey(t *testing.T) {
	for _, ok := range []string{"", "activity", "number", "verdicts"} {
		_, err := ParseSortKey(ok)
		assert.NoError(t, err, "key: %q", ok)
	}
	_, err := ParseSortKey("alphabetical")
	assert.Error(t, err)
}

// End-to-end scenarios through classify, aggregate, and build.

func classifyAll(t *testing.T, raws []models.RawComment) []models.ClassifiedComment {
	t.Helper()
	c := classify.New(lexicon.Default())
	var out []models.ClassifiedComment
	for _, rc := range raws {
		out = append(out, c.Classify(rc))
	}
	return out
}

func TestScenario_SupersessionWithCommit(t *testing.T) {
	raws := []models.RawComment{
		{ID: 1, PRNumber: 100, Author: "alice", Body: "Concept ACK", CreatedAt: t0},
		{ID: 2, PRNumber: 100, Author: "alice", Body: "ACK ab12cd34", CreatedAt: t0.Add(time.Hour)},
	}
	prs := map[int]models.PRMeta{100: {Number: 100, Title: "change", Author: "bob"}}

	states, _ := aggregate.Aggregate(classifyAll(t, raws), prs, aggregate.Options{})
	require.Len(t, states, 1)
	assert.Equal(t, models.VerdictACK, states[0].Category)
	assert.Equal(t, "ab12cd34", states[0].Commit)

	reports, _ := Build(states, prs, Options{})
	require.Len(t, reports, 1)
	ack := reports[0].Bucket(models.VerdictACK)
	require.NotNil(t, ack)
	assert.Equal(t, "alice", ack.Reviewers[0].Author)
	assert.Nil(t, reports[0].Bucket(models.VerdictConceptACK))
}

func TestScenario_SelfACKExcludedFromAllBuckets(t *testing.T) {
	raws := []models.RawComment{
		{ID: 1, PRNumber: 100, Author: "bob", Body: "ACK", CreatedAt: t0},
	}
	prs := map[int]models.PRMeta{100: {Number: 100, Title: "change", Author: "bob"}}

	states, _ := aggregate.Aggregate(classifyAll(t, raws), prs, aggregate.Options{})
	reports, _ := Build(states, prs, Options{})
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Buckets)
	assert.Equal(t, models.DispositionUnreviewed, reports[0].Disposition)
}

func TestScenario_NoClassifiedCommentsUnreviewed(t *testing.T) {
	raws := []models.RawComment{
		{ID: 1, PRNumber: 200, Author: "alice", Body: "will look later", CreatedAt: t0},
	}
	prs := map[int]models.PRMeta{200: {Number: 200, Title: "change", Author: "bob"}}

	states, _ := aggregate.Aggregate(classifyAll(t, raws), prs, aggregate.Options{})
	reports, _ := Build(states, prs, Options{})
	require.Len(t, reports, 1)
	assert.Equal(t, models.DispositionUnreviewed, reports[0].Disposition)
	assert.Empty(t, reports[0].Buckets)
}
