package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Child_Shield/internal/model"
	"Child_Shield/internal/repository/mysql"
)

//go:generate mockgen -source=event_service.go -destination=../../mocks/event_service.go -package=mocks

type EventRepository interface {
	Create(ctx context.Context, ev *model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id uint64) (*model.Event, error)
	Update(ctx context.Context, id uint64, apply func(ev *model.Event) error) (*model.Event, error)
	Delete(ctx context.Context, id uint64) error
}

type EventInput struct {
	Type        string
	MeetingType string
	Date        string
	Time        string
	Location    string
	Venue       string
}

// EventPatch: nil fields keep their stored value.
type EventPatch struct {
	Type        *string
	MeetingType *string
	Date        *string
	Time        *string
	Location    *string
	Venue       *string
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{repo: repo}
}

// Create validates the input and stores the event.
func (s *EventService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	ev := &model.Event{
		Type:        model.EventType(strings.TrimSpace(in.Type)),
		MeetingType: strings.TrimSpace(in.MeetingType),
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
		Location:    strings.TrimSpace(in.Location),
		Venue:       strings.TrimSpace(in.Venue),
	}
	if err := validateEvent(ev); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, internal(ctx, "service/Event.Create", err)
	}
	return ev, nil
}

// List never fails on an empty store.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(ctx, "service/Event.List", err)
	}
	if list == nil {
		list = []model.Event{}
	}
	return list, nil
}

// GetByID fails with ErrNotFound for an unknown id.
func (s *EventService) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	ev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(ctx, "service/Event.GetByID", err)
	}
	return ev, nil
}

// Update applies the set fields of p and revalidates the whole event.
func (s *EventService) Update(ctx context.Context, id uint64, p EventPatch) (*model.Event, error) {
	ev, err := s.repo.Update(ctx, id, func(ev *model.Event) error {
		next := *ev
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}
		if p.Type != nil {
			next.Type = model.EventType(strings.TrimSpace(*p.Type))
		}
		set(&next.MeetingType, p.MeetingType)
		set(&next.Date, p.Date)
		set(&next.Time, p.Time)
		set(&next.Location, p.Location)
		set(&next.Venue, p.Venue)

		if err := validateEvent(&next); err != nil {
			return err
		}
		*ev = next
		return nil
	})
	if err != nil {
		return nil, s.mapErr(ctx, "service/Event.Update", err)
	}
	return ev, nil
}

// Delete fails with ErrNotFound for an unknown id.
func (s *EventService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(ctx, "service/Event.Delete", err)
	}
	return nil
}

func (s *EventService) mapErr(ctx context.Context, op string, err error) error {
	var de *Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, mysql.ErrNotFound):
		return notFound("event")
	default:
		return internal(ctx, op, err)
	}
}

func validateEvent(ev *model.Event) error {
	if !ev.Type.Valid() {
		return invalid("type must be one of Campaign, Event")
	}

	required := []struct{ name, value string }{
		{"meetingType", ev.MeetingType},
		{"date", ev.Date},
		{"time", ev.Time},
		{"location", ev.Location},
		{"venue", ev.Venue},
	}
	for _, f := range required {
		if f.value == "" {
			return invalid("%s is required", f.name)
		}
	}

	if _, err := time.Parse(model.EventDateLayout, ev.Date); err != nil {
		return invalid("date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(model.EventTimeLayout, ev.Time); err != nil {
		return invalid("time must be formatted as HH:MM")
	}
	return nil
}
