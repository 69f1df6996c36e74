// Package db establishes the MongoDB connection used by the repositories.
// It centralizes client construction, the startup ping, and collection
// handles so the rest of the application never touches driver options.
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/user/blogql-go/apperror"
	"github.com/user/blogql-go/config"
)

// Store wraps the Mongo client and exposes the collections the application
// uses. The driver owns its own connection pooling and concurrency safety.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect creates a Mongo client from the configuration and verifies the
// connection with a ping before returning.
func Connect(cfg *config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to connect to mongodb", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperror.NewDatabaseError("failed to ping mongodb", err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.DBName),
	}, nil
}

// Users returns the users collection.
func (s *Store) Users() *mongo.Collection {
	return s.db.Collection("users")
}

// Posts returns the posts collection.
func (s *Store) Posts() *mongo.Collection {
	return s.db.Collection("posts")
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
