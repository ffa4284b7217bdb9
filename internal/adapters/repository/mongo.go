package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/okian/academy/internal/domain/model"
)

// MongoCollection reads documents from one Mongo collection.
type MongoCollection struct {
	coll    *mongo.Collection
	timeout time.Duration
}

var _ Collection = (*MongoCollection)(nil)

// NewMongoCollection wraps coll. timeout bounds FindOne and Count.
func NewMongoCollection(coll *mongo.Collection, timeout time.Duration) *MongoCollection {
	return &MongoCollection{coll: coll, timeout: timeout}
}

func openMongo(ctx context.Context, o options) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, mongooptions.Client().ApplyURI(o.mongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(o.database)
	s := NewStore(
		NewMongoCollection(db.Collection(PlayerDataCollection), o.queryTimeout),
		NewMongoCollection(db.Collection(PartyCollection), o.queryTimeout),
		NewMongoCollection(db.Collection(PCCollection), o.queryTimeout),
	)
	s.close = client.Disconnect
	return s, nil
}

// Name returns the collection name.
func (c *MongoCollection) Name() string { return c.coll.Name() }

// FindOne returns the document whose uuid field equals uuid.
func (c *MongoCollection) FindOne(ctx context.Context, uuid string) (model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var raw bson.M
	err := c.coll.FindOne(ctx, bson.M{identityKey: uuid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s %s: %w", c.Name(), uuid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s find %s: %w", c.Name(), uuid, err)
	}
	return normalizeMap(raw), nil
}

// ScanAll streams every document through a cursor.
func (c *MongoCollection) ScanAll(ctx context.Context) iter.Seq2[model.Document, error] {
	return func(yield func(model.Document, error) bool) {
		cur, err := c.coll.Find(ctx, bson.M{})
		if err != nil {
			yield(nil, fmt.Errorf("%s scan: %w", c.Name(), err))
			return
		}
		defer cur.Close(context.WithoutCancel(ctx))

		for cur.Next(ctx) {
			var raw bson.M
			if err := cur.Decode(&raw); err != nil {
				if !yield(nil, fmt.Errorf("%s decode: %w", c.Name(), err)) {
					return
				}
				continue
			}
			if !yield(normalizeMap(raw), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(nil, fmt.Errorf("%s cursor: %w", c.Name(), err))
		}
	}
}

// Count returns the number of documents in the collection.
func (c *MongoCollection) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%s count: %w", c.Name(), err)
	}
	return int(n), nil
}

// normalizeMap rewrites BSON container types into plain maps and slices so
// the decoder sees the same shapes as JSON fixtures.
func normalizeMap(m map[string]any) model.Document {
	out := make(model.Document, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case primitive.M:
		return normalizeMap(t)
	case map[string]any:
		return normalizeMap(t)
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time()
	default:
		return v
	}
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalize(v)
	}
	return out
}
