// Package mongo keeps the console session in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "ims-console"
	connectTimeout = 10 * time.Second
)

// Config names the deployment and database holding the session document.
type Config struct {
	URI      string
	Database string
	// Timeout bounds connect, server selection and the startup ping.
	Timeout time.Duration
}

// Connect dials the deployment and waits for the primary to answer. The
// caller owns the returned client and must Disconnect it.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, nil, errors.New("mongo: URI and database are required")
	}
	wait := cfg.Timeout
	if wait <= 0 {
		wait = connectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(wait).
		SetServerSelectionTimeout(wait)

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect %s: %w", cfg.Database, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}
