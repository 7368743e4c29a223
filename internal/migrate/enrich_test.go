package migrate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

const (
	testUserID    = "692edd208a4f05bc8c4544b5"
	testSectionID = "695aa324dc873b2b7a911e07"
)

func newTestEnricher(t *testing.T, opts Options) *Enricher {
	t.Helper()
	e, err := NewEnricher(testUserID, testSectionID, opts, nil)
	require.NoError(t, err)
	return e
}

func TestNewEnricherRejectsBadIDs(t *testing.T) {
	_, err := NewEnricher("not-hex", testSectionID, Options{}, nil)
	assert.True(t, errors.Is(err, types.ErrUserIDInvalid), "got %v", err)

	_, err = NewEnricher(testUserID, "", Options{}, nil)
	assert.True(t, errors.Is(err, types.ErrSectionIDInvalid), "got %v", err)
}

func TestEnrichDefaults(t *testing.T) {
	e := newTestEnricher(t, Options{})

	q := e.Enrich(types.RawQA{Question: "Capital of France?", Answer: "Paris"})

	assert.Equal(t, "Capital of France?", q.Question)
	assert.Equal(t, "Paris", q.Answer)
	assert.Equal(t, testUserID, q.UserID.Hex())
	assert.Equal(t, testSectionID, q.SectionID.Hex())
	assert.Equal(t, int32(0), q.TotalCorrect)
	assert.Equal(t, int32(0), q.TotalWrong)
	assert.True(t, q.IsActive)
	assert.False(t, q.IsCode)
	assert.Equal(t, int32(0), q.DueDate)
	assert.Equal(t, int32(0), q.Priority)
	assert.False(t, q.IsPending)
	assert.Nil(t, q.PendingSessionID)
	assert.Equal(t, int32(0), q.TimesReviewed)
	assert.False(t, q.WasRolledOver)
	assert.Equal(t, int32(0), q.PriorityBoosts)
	assert.Equal(t, int32(0), q.ConsecutiveMisses)
	assert.Equal(t, 2.5, q.EaseFactor)
	assert.Equal(t, int32(0), q.CurrentInterval)
	assert.Nil(t, q.LastRating)
	assert.Nil(t, q.LastReviewed)
	assert.False(t, q.TrackLastReviewed)
	assert.Equal(t, int32(0), q.Version)
	assert.False(t, q.ID.IsZero())
}

func TestEnrichAllSharesOneTimestamp(t *testing.T) {
	e := newTestEnricher(t, Options{})
	calls := 0
	base := time.Date(2026, 1, 4, 10, 30, 0, 123456789, time.UTC)
	e.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Hour)
	}

	out := e.EnrichAll([]types.RawQA{{Question: "a"}, {Question: "b"}, {Question: "c"}})

	require.Len(t, out, 3)
	assert.Equal(t, 1, calls, "clock must be sampled once per batch")
	want := base.Add(time.Hour).Truncate(time.Millisecond)
	for _, q := range out {
		assert.True(t, q.CreatedAt.Equal(want), "createdAt %v", q.CreatedAt)
		assert.True(t, q.UpdatedAt.Equal(q.CreatedAt))
		assert.True(t, q.NextReviewDate.Equal(q.CreatedAt))
	}
}

func TestEnrichAllGeneratesDistinctIDs(t *testing.T) {
	e := newTestEnricher(t, Options{})
	raws := make([]types.RawQA, 120)

	out := e.EnrichAll(raws)

	require.Len(t, out, len(raws))
	seen := make(map[primitive.ObjectID]bool, len(out))
	for _, q := range out {
		assert.False(t, seen[q.ID], "duplicate id %s", q.ID.Hex())
		seen[q.ID] = true
	}
}

func TestEnrichTrimsButClassifiesRawText(t *testing.T) {
	e := newTestEnricher(t, Options{})

	// "def " only exists before trimming the trailing space.
	q := e.Enrich(types.RawQA{Question: "  def ", Answer: "\tkeyword\n"})

	assert.Equal(t, "def", q.Question)
	assert.Equal(t, "keyword", q.Answer)
	assert.True(t, q.IsCode)
}

func TestEnrichPreserveIsCode(t *testing.T) {
	no := false
	raw := types.RawQA{Question: "What is a function?", Answer: "", IsCode: &no}

	q := newTestEnricher(t, Options{}).Enrich(raw)
	assert.True(t, q.IsCode, "classifier wins without PreserveIsCode")

	q = newTestEnricher(t, Options{PreserveIsCode: true}).Enrich(raw)
	assert.False(t, q.IsCode, "input isCode wins with PreserveIsCode")

	q = newTestEnricher(t, Options{PreserveIsCode: true}).Enrich(types.RawQA{Question: "What is a function?"})
	assert.True(t, q.IsCode, "classifier used when input has no isCode")
}

func TestEnrichIncludeLastReviewed(t *testing.T) {
	q := newTestEnricher(t, Options{IncludeLastReviewed: true}).Enrich(types.RawQA{})

	assert.True(t, q.TrackLastReviewed)
	assert.Nil(t, q.LastReviewed)
}

func TestExtractThenEnrichClosureExample(t *testing.T) {
	input := []map[string]any{{"question": "What is a closure?", "answer": "A function that captures variables."}}

	projected := Project(input)
	require.Len(t, projected, 1)
	assert.Equal(t, types.RawQA{Question: "What is a closure?", Answer: "A function that captures variables."}, projected[0])

	out := newTestEnricher(t, Options{}).EnrichAll(projected)
	require.Len(t, out, 1)
	q := out[0]
	assert.True(t, q.IsCode)
	assert.Equal(t, int32(0), q.TotalCorrect)
	assert.Equal(t, 2.5, q.EaseFactor)
	assert.False(t, q.ID.IsZero())
	assert.True(t, q.CreatedAt.Equal(q.UpdatedAt))
	assert.True(t, q.CreatedAt.Equal(q.NextReviewDate))
}
