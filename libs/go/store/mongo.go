package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"example.com/fitness/libs/go/entity"
)

// MongoStore persists records as documents keyed by a hex ObjectID string in _id.
type MongoStore[T entity.Record[T]] struct {
	coll    *mongo.Collection
	uniques []Unique[T]
}

// NewMongoStore binds a store to the named collection.
func NewMongoStore[T entity.Record[T]](db *mongo.Database, collection string, uniques ...Unique[T]) *MongoStore[T] {
	return &MongoStore[T]{coll: db.Collection(collection), uniques: uniques}
}

// EnsureIndexes creates a unique index for every declared unique field.
func (s *MongoStore[T]) EnsureIndexes(ctx context.Context) error {
	for _, u := range s.uniques {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: u.Field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(u.Field + "_unique"),
		}
		if _, err := s.coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create %s index on %s: %w", u.Field, s.coll.Name(), err)
		}
	}
	return nil
}

// Insert implements Store.
func (s *MongoStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	doc = doc.WithID(primitive.NewObjectID().Hex())
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		var zero T
		if mongo.IsDuplicateKeyError(err) {
			return zero, ErrDuplicate
		}
		return zero, err
	}
	return doc, nil
}

// Get implements Store.
func (s *MongoStore[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, ErrNotFound
	}
	return doc, err
}

// Replace implements Store.
func (s *MongoStore[T]) Replace(ctx context.Context, doc T) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.RecordID()}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements Store.
func (s *MongoStore[T]) Delete(ctx context.Context, id string) (T, error) {
	var doc T
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, ErrNotFound
	}
	return doc, err
}

// List implements Store.
func (s *MongoStore[T]) List(ctx context.Context, after string, limit int) ([]T, error) {
	filter := bson.M{}
	if after != "" {
		filter["_id"] = bson.M{"$gt": after}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(pageSize(limit)))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
