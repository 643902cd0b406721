package repository

import (
	"context"
	"errors"
	"time"

	"harvestsync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStoreRepository implements the KeyValueStore interface on MongoDB,
// one document per key
type MongoStoreRepository struct {
	collection *mongo.Collection
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewMongoStoreRepository creates a new MongoDB key/value store repository
func NewMongoStoreRepository(db *mongo.Database) repository.KeyValueStore {
	return &MongoStoreRepository{
		collection: db.Collection("kv_entries"),
	}
}

// Get reads the value stored under key
func (r *MongoStoreRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

// Set writes value under key, replacing any previous value
func (r *MongoStoreRepository) Set(ctx context.Context, key, value string) error {
	doc := kvDocument{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": key},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Remove deletes the given keys; absent keys are not an error
func (r *MongoStoreRepository) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}})
	return err
}
