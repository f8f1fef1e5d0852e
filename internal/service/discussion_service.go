package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Child_Shield/internal/model"
	"Child_Shield/internal/repository/mongo"
)

//go:generate mockgen -source=discussion_service.go -destination=../../mocks/discussion_service.go -package=mocks

type DiscussionRepository interface {
	Create(ctx context.Context, d *model.Discussion) error
	FindByID(ctx context.Context, id string) (*model.Discussion, error)
	List(ctx context.Context) ([]model.Discussion, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Discussion, error)
	Update(ctx context.Context, id string, title, description *string, now time.Time) (*model.Discussion, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, id string, userID uint64, now time.Time) (*model.Discussion, error)
	RemoveLike(ctx context.Context, id string, userID uint64, now time.Time) (*model.Discussion, error)
	AddComment(ctx context.Context, id string, c model.Comment) (*model.Discussion, error)
	AddAttendee(ctx context.Context, id string, a model.Attendee) (*model.Discussion, error)
}

// UserDirectory resolves discussion owners for the owner projection.
type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]model.User, error)
}

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID uint64
	Role   int
}

func (a Actor) IsAdmin() bool { return a.Role >= model.RoleAdmin }

type DiscussionService struct {
	repo  DiscussionRepository
	users UserDirectory
	now   func() time.Time
}

func NewDiscussionService(repo DiscussionRepository, users UserDirectory) *DiscussionService {
	return &DiscussionService{repo: repo, users: users, now: time.Now}
}

// DiscussionVariantFrom turns the wire form (type plus optional hashtag/link) into a
// variant. The field that does not belong to the type is dropped.
func DiscussionVariantFrom(typ, hashtag, link string) (model.DiscussionVariant, error) {
	switch model.DiscussionType(typ) {
	case model.DiscussionTheme:
		return model.Theme{Hashtag: strings.TrimSpace(hashtag)}, nil
	case model.DiscussionForum:
		return model.Forum{Link: strings.TrimSpace(link)}, nil
	default:
		return nil, invalid("type must be one of Theme, Forum")
	}
}

// Create validates the input and stores a discussion owned by ownerID.
func (s *DiscussionService) Create(ctx context.Context, ownerID uint64, title, description string, v model.DiscussionVariant) (*model.Discussion, error) {
	const op = "service/Discussion.Create"

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if ownerID == 0 {
		return nil, invalid("owner is required")
	}
	if title == "" {
		return nil, invalid("title is required")
	}
	if description == "" {
		return nil, invalid("description is required")
	}

	switch vv := v.(type) {
	case model.Theme:
		if strings.TrimSpace(vv.Hashtag) == "" {
			return nil, invalid("hashtag is required for a Theme")
		}
	case model.Forum:
		if strings.TrimSpace(vv.Link) == "" {
			return nil, invalid("link is required for a Forum")
		}
	default:
		return nil, invalid("type must be one of Theme, Forum")
	}

	d := model.NewDiscussion(ownerID, title, description, v, s.now())
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, internal(ctx, op, err)
	}
	return d, nil
}

// List returns every discussion with its owner; an empty result is not an error.
func (s *DiscussionService) List(ctx context.Context) ([]model.Discussion, error) {
	const op = "service/Discussion.List"

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(ctx, op, err)
	}
	if err := s.attachOwners(ctx, list); err != nil {
		return nil, internal(ctx, op, err)
	}
	return list, nil
}

// ListByUser fails with ErrNotFound when the user owns no discussion.
func (s *DiscussionService) ListByUser(ctx context.Context, userID uint64) ([]model.Discussion, error) {
	const op = "service/Discussion.ListByUser"

	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(ctx, op, err)
	}
	if len(list) == 0 {
		return nil, notFound("discussions for this user")
	}
	if err := s.attachOwners(ctx, list); err != nil {
		return nil, internal(ctx, op, err)
	}
	return list, nil
}

// GetByID returns one discussion with its owner attached.
func (s *DiscussionService) GetByID(ctx context.Context, id string) (*model.Discussion, error) {
	const op = "service/Discussion.GetByID"

	d, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}

	one := []model.Discussion{*d}
	if err := s.attachOwners(ctx, one); err != nil {
		return nil, internal(ctx, op, err)
	}
	return &one[0], nil
}

// Update changes title and/or description. Only the owner or an admin may do it.
func (s *DiscussionService) Update(ctx context.Context, actor Actor, id string, title, description *string) (*model.Discussion, error) {
	const op = "service/Discussion.Update"

	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, invalid("title must not be empty")
		}
		title = &t
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		if d == "" {
			return nil, invalid("description must not be empty")
		}
		description = &d
	}

	if err := s.authorize(ctx, op, actor, id); err != nil {
		return nil, err
	}

	d, err := s.repo.Update(ctx, id, title, description, s.now())
	if err != nil {
		return nil, s.mapErr(ctx, op, err)
	}
	return d, nil
}

// Delete removes the discussion. Only the owner or an admin may do it.
func (s *DiscussionService) Delete(ctx context.Context, actor Actor, id string) error {
	const op = "service/Discussion.Delete"

	if err := s.authorize(ctx, op, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(ctx, op, err)
	}
	return nil
}

// ToggleLike unlikes when userID already likes the discussion, likes otherwise.
func (s *DiscussionService) ToggleLike(ctx context.Context, id string, userID uint64) (*model.Discussion, error) {
	const op = "service/Discussion.ToggleLike"

	d, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}

	if d.LikedBy(userID) {
		d, err = s.repo.RemoveLike(ctx, id, userID, s.now())
	} else {
		d, err = s.repo.AddLike(ctx, id, userID, s.now())
	}
	if err != nil {
		return nil, s.mapErr(ctx, op, err)
	}
	return d, nil
}

// AddComment appends a non-empty comment by userID.
func (s *DiscussionService) AddComment(ctx context.Context, id string, userID uint64, content string) (*model.Discussion, error) {
	const op = "service/Discussion.AddComment"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content is required")
	}

	d, err := s.repo.AddComment(ctx, id, model.Comment{
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, s.mapErr(ctx, op, err)
	}
	return d, nil
}

// Attend marks userID as attending a Forum discussion.
func (s *DiscussionService) Attend(ctx context.Context, id string, userID uint64) (*model.Discussion, error) {
	const op = "service/Discussion.Attend"

	d, err := s.find(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if d.Type != model.DiscussionForum {
		return nil, invalid("attendance can only be marked for forums")
	}
	if d.Attending(userID) {
		return nil, conflict("already attending")
	}

	d, err = s.repo.AddAttendee(ctx, id, model.Attendee{UserID: userID, CreatedAt: s.now()})
	switch {
	case err == nil:
		return d, nil
	case errors.Is(err, mongo.ErrNotMatched):
		// type is immutable, so a concurrent attend by the same user won the race
		return nil, conflict("already attending")
	default:
		return nil, s.mapErr(ctx, op, err)
	}
}

func (s *DiscussionService) find(ctx context.Context, op, id string) (*model.Discussion, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(ctx, op, err)
	}
	return d, nil
}

func (s *DiscussionService) authorize(ctx context.Context, op string, actor Actor, id string) error {
	d, err := s.find(ctx, op, id)
	if err != nil {
		return err
	}
	if d.UserID != actor.UserID && !actor.IsAdmin() {
		return forbidden("only the owner or an admin can change this discussion")
	}
	return nil
}

func (s *DiscussionService) mapErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, mongo.ErrNotFound) {
		return notFound("discussion")
	}
	return internal(ctx, op, err)
}

func (s *DiscussionService) attachOwners(ctx context.Context, list []model.Discussion) error {
	if len(list) == 0 || s.users == nil {
		return nil
	}

	seen := make(map[uint64]struct{}, len(list))
	ids := make([]uint64, 0, len(list))
	for _, d := range list {
		if _, ok := seen[d.UserID]; !ok {
			seen[d.UserID] = struct{}{}
			ids = append(ids, d.UserID)
		}
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uint64]*model.UserBrief, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Brief()
	}
	for i := range list {
		list[i].Owner = byID[list[i].UserID]
	}
	return nil
}
