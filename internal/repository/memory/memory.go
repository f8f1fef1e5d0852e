// Package memory holds in-memory repositories with the same contracts as the
// mongo, mysql and redis ones. The router flow tests run against them.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"Child_Shield/internal/model"
	"Child_Shield/internal/repository/mongo"
	"Child_Shield/internal/repository/mysql"
	"Child_Shield/internal/repository/redis"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussions mimics the field operators of the mongo repository.
type Discussions struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*model.Discussion
	// Fail, when set, is returned by Create and the list methods.
	Fail error
}

func NewDiscussions() *Discussions {
	return &Discussions{docs: map[primitive.ObjectID]*model.Discussion{}}
}

func cloneDiscussion(d *model.Discussion) *model.Discussion {
	c := *d
	c.Comments = slices.Clone(d.Comments)
	c.Likes = slices.Clone(d.Likes)
	c.Attendees = slices.Clone(d.Attendees)
	return &c
}

func (m *Discussions) get(id string) (*model.Discussion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNotFound
	}
	d, ok := m.docs[oid]
	if !ok {
		return nil, mongo.ErrNotFound
	}
	return d, nil
}

func (m *Discussions) Create(_ context.Context, d *model.Discussion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	d.ID = primitive.NewObjectID()
	m.docs[d.ID] = cloneDiscussion(d)
	return nil
}

func (m *Discussions) FindByID(_ context.Context, id string) (*model.Discussion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return cloneDiscussion(d), nil
}

func (m *Discussions) list(keep func(*model.Discussion) bool) ([]model.Discussion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := []model.Discussion{}
	for _, d := range m.docs {
		if keep(d) {
			out = append(out, *cloneDiscussion(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Discussions) List(context.Context) ([]model.Discussion, error) {
	return m.list(func(*model.Discussion) bool { return true })
}

func (m *Discussions) ListByUser(_ context.Context, userID uint64) ([]model.Discussion, error) {
	return m.list(func(d *model.Discussion) bool { return d.UserID == userID })
}

func (m *Discussions) mutate(id string, fn func(d *model.Discussion) error) (*model.Discussion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	return cloneDiscussion(d), nil
}

func (m *Discussions) Update(_ context.Context, id string, title, description *string, now time.Time) (*model.Discussion, error) {
	return m.mutate(id, func(d *model.Discussion) error {
		if title != nil {
			d.Title = *title
		}
		if description != nil {
			d.Description = *description
		}
		d.UpdatedAt = now
		return nil
	})
}

func (m *Discussions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := m.get(id)
	if err != nil {
		return err
	}
	delete(m.docs, d.ID)
	return nil
}

func (m *Discussions) AddLike(_ context.Context, id string, userID uint64, now time.Time) (*model.Discussion, error) {
	return m.mutate(id, func(d *model.Discussion) error {
		if !slices.Contains(d.Likes, userID) {
			d.Likes = append(d.Likes, userID)
		}
		d.UpdatedAt = now
		return nil
	})
}

func (m *Discussions) RemoveLike(_ context.Context, id string, userID uint64, now time.Time) (*model.Discussion, error) {
	return m.mutate(id, func(d *model.Discussion) error {
		d.Likes = slices.DeleteFunc(d.Likes, func(u uint64) bool { return u == userID })
		d.UpdatedAt = now
		return nil
	})
}

func (m *Discussions) AddComment(_ context.Context, id string, c model.Comment) (*model.Discussion, error) {
	return m.mutate(id, func(d *model.Discussion) error {
		d.Comments = append(d.Comments, c)
		d.UpdatedAt = c.CreatedAt
		return nil
	})
}

func (m *Discussions) AddAttendee(_ context.Context, id string, a model.Attendee) (*model.Discussion, error) {
	return m.mutate(id, func(d *model.Discussion) error {
		if d.Type != model.DiscussionForum || d.Attending(a.UserID) {
			return mongo.ErrNotMatched
		}
		d.Attendees = append(d.Attendees, a)
		d.UpdatedAt = a.CreatedAt
		return nil
	})
}

type Users struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.User
}

func NewUsers(users ...model.User) *Users {
	m := &Users{byID: map[uint64]*model.User{}}
	for i := range users {
		u := users[i]
		m.byID[u.ID] = &u
		m.nextID = max(m.nextID, u.ID)
	}
	return m
}

func (m *Users) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Username == u.Username || x.Email == u.Email {
			return mysql.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	c := *u
	m.byID[u.ID] = &c
	return nil
}

func (m *Users) FindByLogin(_ context.Context, login string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == login || u.Email == login {
			c := *u
			return &c, nil
		}
	}
	return nil, mysql.ErrNotFound
}

func (m *Users) FindByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *Users) FindByIDs(_ context.Context, ids []uint64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

// Reports applies the same transactional contract as the mysql repository:
// an error from apply leaves the stored row untouched.
type Reports struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.CaseReport
	Outbox []model.Outbox
}

func NewReports() *Reports {
	return &Reports{rows: map[uint64]model.CaseReport{}}
}

func (m *Reports) Create(_ context.Context, r *model.CaseReport, ob *model.Outbox) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = *r
	if ob != nil {
		ob.AggregateID = r.ID
		m.Outbox = append(m.Outbox, *ob)
	}
	return nil
}

func (m *Reports) List(context.Context) ([]model.CaseReport, error) {
	return m.filter(func(model.CaseReport) bool { return true }), nil
}

func (m *Reports) ListByUser(_ context.Context, userID uint64) ([]model.CaseReport, error) {
	return m.filter(func(r model.CaseReport) bool { return r.UserID == userID }), nil
}

func (m *Reports) filter(keep func(model.CaseReport) bool) []model.CaseReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CaseReport
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *Reports) FindByID(_ context.Context, id uint64) (*model.CaseReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	return &r, nil
}

func (m *Reports) Update(_ context.Context, id uint64, apply func(*model.CaseReport) (*model.Outbox, error)) (*model.CaseReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	ob, err := apply(&r)
	if err != nil {
		return nil, err
	}
	m.rows[id] = r
	if ob != nil {
		ob.AggregateID = id
		m.Outbox = append(m.Outbox, *ob)
	}
	return &r, nil
}

func (m *Reports) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return mysql.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type Events struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Event
}

func NewEvents() *Events {
	return &Events{rows: map[uint64]model.Event{}}
}

func (m *Events) Create(_ context.Context, ev *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ev.ID = m.nextID
	m.rows[ev.ID] = *ev
	return nil
}

func (m *Events) List(context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Event
	for _, ev := range m.rows {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Events) FindByID(_ context.Context, id uint64) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.rows[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	return &ev, nil
}

func (m *Events) Update(_ context.Context, id uint64, apply func(*model.Event) error) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.rows[id]
	if !ok {
		return nil, mysql.ErrNotFound
	}
	if err := apply(&ev); err != nil {
		return nil, err
	}
	m.rows[id] = ev
	return &ev, nil
}

func (m *Events) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return mysql.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type Sessions struct {
	mu     sync.Mutex
	tokens map[uint64]string
}

func NewSessions() *Sessions {
	return &Sessions{tokens: map[uint64]string{}}
}

func (m *Sessions) Save(_ context.Context, userID uint64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = token
	return nil
}

func (m *Sessions) Get(_ context.Context, userID uint64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[userID]
	if !ok {
		return "", redis.ErrTokenNotFound
	}
	return t, nil
}

func (m *Sessions) Delete(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}
