package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// MongoCollection is the collection holding cache entries.
const MongoCollection = "cache"

// MongoCache stores entries in a MongoDB collection. A TTL index on
// expires_at lets the server purge expired entries; Get also checks the
// expiry because the purge runs only periodically.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB at uri and prepares the cache
// collection in database.
func NewMongoCache(ctx context.Context, uri, database string) (*MongoCache, error) {
	if uri == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo uri cannot be empty")
	}
	if database == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo database cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "connect to mongo")
	}

	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return Retryable(fmt.Errorf("%w: ping mongo: %v", ErrBackend, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "connect to mongo")
	}

	c := &MongoCache{
		client: client,
		coll:   client.Database(database).Collection(MongoCollection),
	}
	if err := c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

func (c *MongoCache) ensureIndexes(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

// Get retrieves a value from MongoDB.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set upserts a value in MongoDB.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl).UTC()
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

// Delete removes a value from MongoDB.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
