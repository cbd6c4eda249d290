// Package mongostore keeps durable records as documents keyed by _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/records"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabase   = "ledger"
	DefaultCollection = "records"
)

// DataStore is the subset of *mongo.Collection the store needs, kept small so
// tests can substitute it.
type DataStore interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type recordDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type Store struct {
	collection DataStore
	client     *mongo.Client
}

// NewStore wraps an existing collection.
func NewStore(collection DataStore) *Store {
	return &Store{collection: collection}
}

// Connect establishes a connection to MongoDB and returns a store over
// database/collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	slog.DebugContext(ctx, "Attempting to connect to MongoDB", "database", database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	slog.InfoContext(ctx, "Successfully established connection to MongoDB", "database", database, "collection", collection)
	return &Store{
		collection: client.Database(database).Collection(collection),
		client:     client,
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var doc recordDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		return nil, mapFindError(key, err)
	}
	return []byte(doc.Value), nil
}

// Put upserts the whole record in one document replace.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	doc := recordDocument{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to replace record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", key, err)
	}
	return nil
}

// Close disconnects the client when the store owns it.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mapFindError(key string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return records.ErrNotFound
	}
	return fmt.Errorf("failed to find record %s: %w", key, err)
}

var _ records.Store = (*Store)(nil)
