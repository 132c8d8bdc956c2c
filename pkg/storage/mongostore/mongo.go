// Package mongostore keeps the visit counter in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/devops-workshop/demo-apps/pkg/logger"
)

var (
	// ErrEmptyURI is returned when no connection string is configured.
	ErrEmptyURI = errors.New("mongostore: connection uri is required")
	// ErrConnect wraps client construction failures.
	ErrConnect = errors.New("mongostore: connect failed")
	// ErrPing wraps the connectivity probe run by Connect and Ping.
	ErrPing = errors.New("mongostore: ping failed")
)

// Config holds the MongoDB connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string

	// ServerSelectionTimeout bounds how long the driver looks for a usable
	// server. Zero keeps the driver default.
	ServerSelectionTimeout time.Duration
}

// Client is one MongoDB connection used by the visit counter.
type Client struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect creates a client and pings the primary. A client whose ping fails is
// disconnected before returning.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, ErrEmptyURI
	}

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetLoggerOptions(options.Logger().
			SetSink(logger.Driver).
			SetComponentLevel(options.LogComponentConnection, options.LogLevelInfo))
	if cfg.ServerSelectionTimeout > 0 {
		clientOptions.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("%w: %w", ErrPing, err)
	}

	return &Client{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Increment records one visit and returns the number of visits so far.
func (c *Client) Increment(ctx context.Context) (int64, error) {
	if _, err := c.collection.InsertOne(ctx, bson.D{{Key: "date", Value: time.Now()}}); err != nil {
		return 0, fmt.Errorf("insert visit: %w", err)
	}

	count, err := c.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return count, nil
}

// Ping checks MongoDB availability using the active connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", ErrPing, err)
	}
	return nil
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		logger.Debugf("MongoDB disconnect failed: %v", err)
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}
