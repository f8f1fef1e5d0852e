package model

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscussionType string

const (
	DiscussionTheme DiscussionType = "Theme"
	DiscussionForum DiscussionType = "Forum"
)

func (t DiscussionType) Valid() bool {
	return t == DiscussionTheme || t == DiscussionForum
}

// Discussion is the aggregate stored as one MongoDB document.
// Hashtag is set only for Theme, Link only for Forum.
type Discussion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      uint64             `bson:"user_id" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Type        DiscussionType     `bson:"type" json:"type"`
	Hashtag     string             `bson:"hashtag,omitempty" json:"hashtag,omitempty"`
	Link        string             `bson:"link,omitempty" json:"link,omitempty"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	Likes       []uint64           `bson:"likes" json:"likes"`
	Attendees   []Attendee         `bson:"attendees" json:"attendees"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`

	Owner *UserBrief `bson:"-" json:"owner,omitempty"`
}

type Comment struct {
	UserID    uint64    `bson:"user_id" json:"userId"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type Attendee struct {
	UserID    uint64    `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

func (d *Discussion) LikedBy(userID uint64) bool {
	return slices.Contains(d.Likes, userID)
}

func (d *Discussion) Attending(userID uint64) bool {
	return slices.ContainsFunc(d.Attendees, func(a Attendee) bool { return a.UserID == userID })
}

// DiscussionVariant is the type-specific part of a new discussion: Theme or Forum.
type DiscussionVariant interface {
	apply(d *Discussion)
}

type Theme struct {
	Hashtag string
}

type Forum struct {
	Link string
}

func (v Theme) apply(d *Discussion) {
	d.Type = DiscussionTheme
	d.Hashtag = v.Hashtag
	d.Link = ""
}

func (v Forum) apply(d *Discussion) {
	d.Type = DiscussionForum
	d.Link = v.Link
	d.Hashtag = ""
}

// NewDiscussion builds an aggregate with empty embedded collections.
func NewDiscussion(ownerID uint64, title, description string, v DiscussionVariant, now time.Time) *Discussion {
	d := &Discussion{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Comments:    []Comment{},
		Likes:       []uint64{},
		Attendees:   []Attendee{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.apply(d)

	return d
}
