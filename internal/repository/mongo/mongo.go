package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	discussionsCollection = "discussions"
	defaultDBName         = "child_shield"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrNotMatched means the document exists but the update precondition did not hold.
	ErrNotMatched = errors.New("update precondition not matched")
)

// Mongo holds the client and the collections of the service database.
type Mongo struct {
	client      *mongodriver.Client
	db          *mongodriver.Database
	discussions *mongodriver.Collection
}

// New connects, pings and ensures indexes.
func New(ctx context.Context, uri string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, fmt.Errorf("mongo uri: %w", err)
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseName(cs))
	m := &Mongo{
		client:      cli,
		db:          db,
		discussions: db.Collection(discussionsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes creates:
//   - created_at desc for the full listing;
//   - user_id + created_at desc for the per-owner listing.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_desc"),
		},
	}

	if _, err := m.discussions.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// databaseName is the database named in the connection string, or the default.
func databaseName(cs *connstring.ConnString) string {
	if cs.Database != "" {
		return cs.Database
	}
	return defaultDBName
}
