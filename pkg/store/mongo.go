package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/shotgrid/pkg/errors"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// DefaultMongoDatabase and DefaultMongoCollection name where MongoStore keeps
// edits unless configured otherwise.
const (
	DefaultMongoDatabase   = "shotgrid"
	DefaultMongoCollection = "edits"
)

// MongoStore keeps one document per edit, keyed by edit ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// editDoc is the stored form of an edit.
type editDoc struct {
	shot.Edit `bson:",inline"`

	ShotCount int       `bson:"shot_count"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	s := NewMongoStoreFromClient(client, database, DefaultMongoCollection)
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client. Close leaves the client
// connected.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{
			{Key: "name", Value: 1},
			{Key: "shot_count", Value: 1},
			{Key: "updated_at", Value: 1},
		})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list edits")
	}
	defer cur.Close(ctx)

	var out []Summary
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode edit summaries")
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*shot.Edit, error) {
	var doc editDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load edit %s", id)
	}
	e := doc.Edit
	if err := e.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "stored edit %s is invalid", id)
	}
	return &e, nil
}

func (s *MongoStore) Put(ctx context.Context, e *shot.Edit) error {
	if err := checkPut(e); err != nil {
		return err
	}
	doc := editDoc{Edit: *e, ShotCount: len(e.Shots), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: e.ID}},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save edit %s", e.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete edit %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
