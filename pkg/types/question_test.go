package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func keys(q *Question) []string {
	var out []string
	for _, e := range q.Document() {
		out = append(out, e.Key)
	}
	return out
}

func TestQuestionDocumentOrder(t *testing.T) {
	q := &Question{ID: primitive.NewObjectID(), CreatedAt: time.Now()}

	assert.Equal(t, []string{
		"_id", "question", "answer", "userId", "sectionId",
		"totalCorrect", "totalWrong", "isActive", "isCode",
		"dueDate", "priority", "isPending", "pendingSessionId",
		"timesReviewed", "wasRolledOver", "priorityBoosts", "consecutiveMisses",
		"easeFactor", "currentInterval", "lastRating",
		"createdAt", "updatedAt", "nextReviewDate", "__v",
	}, keys(q))
}

func TestQuestionDocumentLastReviewed(t *testing.T) {
	q := &Question{TrackLastReviewed: true}

	doc := q.Document()
	var found bool
	for _, e := range doc {
		if e.Key == "lastReviewed" {
			found = true
			assert.Nil(t, e.Value.(*time.Time))
		}
	}
	assert.True(t, found, "expected lastReviewed when tracked")
	assert.Len(t, doc, 25)
}
