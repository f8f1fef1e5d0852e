package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Child_Shield/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DiscussionRepository stores each discussion aggregate as a single document.
// Every mutation is one atomic field operator on that document, so concurrent
// likes, comments and attendances never overwrite each other.
type DiscussionRepository struct {
	coll *mongodriver.Collection
}

func NewDiscussionRepository(m *Mongo) *DiscussionRepository {
	return &DiscussionRepository{coll: m.discussions}
}

// MongoDB keeps milliseconds only.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

// parseID treats a malformed id as a missing document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func normalize(d *model.Discussion) {
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	if d.Comments == nil {
		d.Comments = []model.Comment{}
	}
	if d.Likes == nil {
		d.Likes = []uint64{}
	}
	if d.Attendees == nil {
		d.Attendees = []model.Attendee{}
	}
}

func (r *DiscussionRepository) Create(ctx context.Context, d *model.Discussion) error {
	const op = "repository/mongo/Discussion.Create"

	d.CreatedAt = toMS(d.CreatedAt)
	d.UpdatedAt = toMS(d.UpdatedAt)

	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("%s: inserted id type %T", op, res.InsertedID)
	}
	d.ID = oid
	return nil
}

func (r *DiscussionRepository) FindByID(ctx context.Context, id string) (*model.Discussion, error) {
	const op = "repository/mongo/Discussion.FindByID"

	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var d model.Discussion
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	normalize(&d)
	return &d, nil
}

// List returns all discussions, newest first.
func (r *DiscussionRepository) List(ctx context.Context) ([]model.Discussion, error) {
	return r.find(ctx, "repository/mongo/Discussion.List", bson.D{})
}

func (r *DiscussionRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Discussion, error) {
	return r.find(ctx, "repository/mongo/Discussion.ListByUser", bson.D{{Key: "user_id", Value: userID}})
}

func (r *DiscussionRepository) find(ctx context.Context, op string, filter bson.D) ([]model.Discussion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := []model.Discussion{}
	for cur.Next(ctx) {
		var d model.Discussion
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		normalize(&d)
		items = append(items, d)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}
	return items, nil
}

// Update sets the supplied fields only; nil means keep the stored value.
func (r *DiscussionRepository) Update(ctx context.Context, id string, title, description *string, now time.Time) (*model.Discussion, error) {
	set := bson.D{{Key: "updated_at", Value: toMS(now)}}
	if title != nil {
		set = append(set, bson.E{Key: "title", Value: *title})
	}
	if description != nil {
		set = append(set, bson.E{Key: "description", Value: *description})
	}

	return r.modify(ctx, "repository/mongo/Discussion.Update", id, nil, bson.D{{Key: "$set", Value: set}})
}

func (r *DiscussionRepository) Delete(ctx context.Context, id string) error {
	const op = "repository/mongo/Discussion.Delete"

	oid, err := parseID(id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// AddLike uses $addToSet, so likes never holds the same user twice.
func (r *DiscussionRepository) AddLike(ctx context.Context, id string, userID uint64, now time.Time) (*model.Discussion, error) {
	return r.modify(ctx, "repository/mongo/Discussion.AddLike", id, nil, bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "likes", Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: toMS(now)}}},
	})
}

func (r *DiscussionRepository) RemoveLike(ctx context.Context, id string, userID uint64, now time.Time) (*model.Discussion, error) {
	return r.modify(ctx, "repository/mongo/Discussion.RemoveLike", id, nil, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "likes", Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: toMS(now)}}},
	})
}

func (r *DiscussionRepository) AddComment(ctx context.Context, id string, c model.Comment) (*model.Discussion, error) {
	c.CreatedAt = toMS(c.CreatedAt)
	return r.modify(ctx, "repository/mongo/Discussion.AddComment", id, nil, bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: c}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: c.CreatedAt}}},
	})
}

// AddAttendee appends only to a Forum that the user does not attend yet.
// When the document exists but either condition fails it returns ErrNotMatched.
func (r *DiscussionRepository) AddAttendee(ctx context.Context, id string, a model.Attendee) (*model.Discussion, error) {
	a.CreatedAt = toMS(a.CreatedAt)
	guard := bson.D{
		{Key: "type", Value: model.DiscussionForum},
		{Key: "attendees.user_id", Value: bson.D{{Key: "$ne", Value: a.UserID}}},
	}
	return r.modify(ctx, "repository/mongo/Discussion.AddAttendee", id, guard, bson.D{
		{Key: "$push", Value: bson.D{{Key: "attendees", Value: a}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: a.CreatedAt}}},
	})
}

// modify applies update to the document with the given id (and guard, if any)
// and returns the document after the update.
func (r *DiscussionRepository) modify(ctx context.Context, op, id string, guard, update bson.D) (*model.Discussion, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filter := append(bson.D{{Key: "_id", Value: oid}}, guard...)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d model.Discussion
	err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d)
	if err == nil {
		normalize(&d)
		return &d, nil
	}
	if !errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(guard) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	n, cerr := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
	if cerr != nil {
		return nil, fmt.Errorf("%s: count: %w", op, cerr)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrNotMatched)
}
