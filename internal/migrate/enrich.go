package migrate

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// enrichProgressEvery controls how often EnrichAll logs progress.
const enrichProgressEvery = 50

// Options adjust the enriched document shape.
type Options struct {
	// IncludeLastReviewed emits an explicit null lastReviewed field.
	// The load pass sets it; the file export does not.
	IncludeLastReviewed bool

	// PreserveIsCode keeps a boolean isCode from the input instead of
	// running the classifier.
	PreserveIsCode bool
}

// Enricher merges question/answer pairs with the default study template.
type Enricher struct {
	userID    primitive.ObjectID
	sectionID primitive.ObjectID
	opts      Options
	log       *zap.Logger

	// Replaceable in tests.
	now   func() time.Time
	newID func() primitive.ObjectID
}

// NewEnricher returns an Enricher that stamps every document with the
// given owner user and section. Both must be 24-character hex ObjectIDs.
func NewEnricher(userID, sectionID string, opts Options, log *zap.Logger) (*Enricher, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("user id %q: %w", userID, types.ErrUserIDInvalid)
	}
	sid, err := primitive.ObjectIDFromHex(sectionID)
	if err != nil {
		return nil, fmt.Errorf("section id %q: %w", sectionID, types.ErrSectionIDInvalid)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{
		userID:    uid,
		sectionID: sid,
		opts:      opts,
		log:       log,
		now:       time.Now,
		newID:     primitive.NewObjectID,
	}, nil
}

// EnrichAll enriches a batch. The clock is read once, so every document in
// the batch shares the same createdAt, updatedAt and nextReviewDate. Each
// document gets its own freshly generated _id.
func (e *Enricher) EnrichAll(raws []types.RawQA) []types.Question {
	// BSON dates carry millisecond precision; truncate so the in-memory
	// batch matches what the store returns.
	now := e.now().UTC().Truncate(time.Millisecond)

	out := make([]types.Question, len(raws))
	for i, qa := range raws {
		out[i] = e.enrich(qa, now)
		if (i+1)%enrichProgressEvery == 0 {
			e.log.Debug("enriched", zap.Int("done", i+1), zap.Int("total", len(raws)))
		}
	}
	return out
}

// Enrich enriches a single pair using the current time.
func (e *Enricher) Enrich(qa types.RawQA) types.Question {
	return e.enrich(qa, e.now().UTC().Truncate(time.Millisecond))
}

func (e *Enricher) enrich(qa types.RawQA, now time.Time) types.Question {
	isCode := IsCode(qa.Question, qa.Answer)
	if e.opts.PreserveIsCode && qa.IsCode != nil {
		isCode = *qa.IsCode
	}

	return types.Question{
		ID:                e.newID(),
		Question:          strings.TrimSpace(qa.Question),
		Answer:            strings.TrimSpace(qa.Answer),
		UserID:            e.userID,
		SectionID:         e.sectionID,
		TotalCorrect:      0,
		TotalWrong:        0,
		IsActive:          true,
		IsCode:            isCode,
		DueDate:           types.DefaultDueDate,
		Priority:          types.DefaultPriority,
		IsPending:         false,
		PendingSessionID:  nil,
		TimesReviewed:     0,
		WasRolledOver:     false,
		PriorityBoosts:    0,
		ConsecutiveMisses: 0,
		EaseFactor:        types.DefaultEaseFactor,
		CurrentInterval:   types.DefaultCurrentInterval,
		LastRating:        nil,
		LastReviewed:      nil,
		CreatedAt:         now,
		UpdatedAt:         now,
		NextReviewDate:    now,
		Version:           types.DocumentVersion,
		TrackLastReviewed: e.opts.IncludeLastReviewed,
	}
}
