package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// rollbackTimeout bounds the compensating delete. It runs on a context
// detached from the caller's so a cancelled insert still gets cleaned up.
const rollbackTimeout = 30 * time.Second

// Collection is the subset of *mongo.Collection the loader uses.
type Collection interface {
	InsertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// Result reports a successful load.
type Result struct {
	Inserted int             // Documents inserted by this batch.
	Total    int64           // Documents in the collection afterwards.
	Sample   *types.Question // First document of the batch as stored; nil if it could not be read back.
}

// Loader inserts enriched batches into a collection.
type Loader struct {
	coll Collection
	log  *zap.Logger
}

// NewLoader returns a Loader writing to coll.
func NewLoader(coll Collection, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{coll: coll, log: log}
}

// Load inserts the whole batch with one unordered InsertMany.
//
// The batch is all-or-nothing by compensation: every question carries a
// client-generated _id, and if the insert fails the loader deletes every
// _id of the batch before returning. The returned error wraps
// ErrRolledBack when the cleanup succeeded and ErrRollbackFailed when it
// did not; in the latter case some documents may remain.
func (l *Loader) Load(ctx context.Context, qs []types.Question) (*Result, error) {
	if len(qs) == 0 {
		return nil, types.ErrEmptyBatch
	}

	docs := make([]any, len(qs))
	ids := make([]primitive.ObjectID, len(qs))
	for i := range qs {
		docs[i] = qs[i].Document()
		ids[i] = qs[i].ID
	}

	l.log.Info("inserting batch", zap.Int("documents", len(docs)))
	res, err := l.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return nil, l.rollback(ctx, ids, err)
	}

	total, err := l.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	result := &Result{Inserted: len(res.InsertedIDs), Total: total}

	var sample types.Question
	if err := l.coll.FindOne(ctx, bson.D{{Key: "_id", Value: ids[0]}}).Decode(&sample); err != nil {
		l.log.Warn("reading back sample document", zap.Error(err))
	} else {
		result.Sample = &sample
	}

	return result, nil
}

// rollback deletes every document of the failed batch.
func (l *Loader) rollback(ctx context.Context, ids []primitive.ObjectID, insertErr error) error {
	l.log.Warn("insert failed; rolling back batch", zap.Int("documents", len(ids)), zap.Error(insertErr))

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	res, err := l.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		l.log.Error("rollback failed", zap.Error(err))
		return fmt.Errorf("%w: insert: %w; delete: %w", types.ErrRollbackFailed, insertErr, err)
	}

	l.log.Info("rolled back batch", zap.Int64("deleted", res.DeletedCount))
	return fmt.Errorf("%w: %w", types.ErrRolledBack, insertErr)
}
