package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scheduling defaults applied to every new question. The downstream review
// scheduler mutates these; this module only ever writes the initial values.
const (
	DefaultEaseFactor      = 2.5
	DefaultCurrentInterval = 0
	DefaultDueDate         = 0
	DefaultPriority        = 0
	DocumentVersion        = 0
)

// Question is one store-ready document. All fields except ID, IsCode and
// the timestamps carry fixed defaults at creation time.
type Question struct {
	ID                primitive.ObjectID  `bson:"_id"`
	Question          string              `bson:"question"`
	Answer            string              `bson:"answer"`
	UserID            primitive.ObjectID  `bson:"userId"`
	SectionID         primitive.ObjectID  `bson:"sectionId"`
	TotalCorrect      int32               `bson:"totalCorrect"`
	TotalWrong        int32               `bson:"totalWrong"`
	IsActive          bool                `bson:"isActive"`
	IsCode            bool                `bson:"isCode"`
	DueDate           int32               `bson:"dueDate"`
	Priority          int32               `bson:"priority"`
	IsPending         bool                `bson:"isPending"`
	PendingSessionID  *primitive.ObjectID `bson:"pendingSessionId"`
	TimesReviewed     int32               `bson:"timesReviewed"`
	WasRolledOver     bool                `bson:"wasRolledOver"`
	PriorityBoosts    int32               `bson:"priorityBoosts"`
	ConsecutiveMisses int32               `bson:"consecutiveMisses"`
	EaseFactor        float64             `bson:"easeFactor"`
	CurrentInterval   int32               `bson:"currentInterval"`
	LastRating        *int32              `bson:"lastRating"`
	LastReviewed      *time.Time          `bson:"lastReviewed,omitempty"`
	CreatedAt         time.Time           `bson:"createdAt"`
	UpdatedAt         time.Time           `bson:"updatedAt"`
	NextReviewDate    time.Time           `bson:"nextReviewDate"`
	Version           int32               `bson:"__v"`

	// TrackLastReviewed emits an explicit null lastReviewed in Document.
	TrackLastReviewed bool `bson:"-"`
}

// Document returns the question as an ordered BSON document. The field
// order is the one the study application's importer expects. Nil pointer
// fields encode as BSON null.
func (q *Question) Document() bson.D {
	doc := bson.D{
		{Key: "_id", Value: q.ID},
		{Key: "question", Value: q.Question},
		{Key: "answer", Value: q.Answer},
		{Key: "userId", Value: q.UserID},
		{Key: "sectionId", Value: q.SectionID},
		{Key: "totalCorrect", Value: q.TotalCorrect},
		{Key: "totalWrong", Value: q.TotalWrong},
		{Key: "isActive", Value: q.IsActive},
		{Key: "isCode", Value: q.IsCode},
		{Key: "dueDate", Value: q.DueDate},
		{Key: "priority", Value: q.Priority},
		{Key: "isPending", Value: q.IsPending},
		{Key: "pendingSessionId", Value: q.PendingSessionID},
		{Key: "timesReviewed", Value: q.TimesReviewed},
		{Key: "wasRolledOver", Value: q.WasRolledOver},
		{Key: "priorityBoosts", Value: q.PriorityBoosts},
		{Key: "consecutiveMisses", Value: q.ConsecutiveMisses},
		{Key: "easeFactor", Value: q.EaseFactor},
		{Key: "currentInterval", Value: q.CurrentInterval},
		{Key: "lastRating", Value: q.LastRating},
	}
	if q.TrackLastReviewed {
		doc = append(doc, bson.E{Key: "lastReviewed", Value: q.LastReviewed})
	}
	return append(doc,
		bson.E{Key: "createdAt", Value: q.CreatedAt},
		bson.E{Key: "updatedAt", Value: q.UpdatedAt},
		bson.E{Key: "nextReviewDate", Value: q.NextReviewDate},
		bson.E{Key: "__v", Value: q.Version},
	)
}
