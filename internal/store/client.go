// Package store loads enriched question batches into MongoDB.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// appName identifies this tool in server logs.
const appName = "evermind-migrate"

// Client is a connected MongoDB client bound to one database.
type Client struct {
	client   *mongo.Client
	database string
}

// Connect opens a client for cfg.MongoURI and pings the primary before
// returning. The caller must call Close.
func Connect(ctx context.Context, cfg types.Config) (*Client, error) {
	timeout := cfg.OperationTimeout()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return &Client{client: client, database: cfg.Database}, nil
}

// Collection returns the named collection in the client's database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.client.Database(c.database).Collection(name)
}

// Close disconnects the client, waiting at most five seconds.
func (c *Client) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
