package service

import (
	"context"
	"errors"
	"testing"

	"Child_Shield/internal/model"
	"Child_Shield/internal/repository/mysql"
	"Child_Shield/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventWithMocks(t *testing.T) (*EventService, *mocks.MockEventRepository, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEventRepository(ctrl)
	return NewEventService(repo), repo, ctrl
}

func validEventInput() EventInput {
	return EventInput{
		Type:        "Campaign",
		MeetingType: "Physical",
		Date:        "2024-06-01",
		Time:        "14:30",
		Location:    "Lagos",
		Venue:       "Town hall",
	}
}

func storedEvent(id uint64) *model.Event {
	return &model.Event{
		ID:          id,
		Type:        model.EventCampaign,
		MeetingType: "Physical",
		Date:        "2024-06-01",
		Time:        "14:30",
		Location:    "Lagos",
		Venue:       "Town hall",
	}
}

// expectEventUpdate applies the patch to a copy of stored and keeps it only on success.
func expectEventUpdate(repo *mocks.MockEventRepository, stored *model.Event) *gomock.Call {
	return repo.EXPECT().Update(gomock.Any(), stored.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, apply func(*model.Event) error) (*model.Event, error) {
			next := *stored
			if err := apply(&next); err != nil {
				return nil, err
			}
			*stored = next
			return &next, nil
		})
}

func TestEventCreateAndList(t *testing.T) {
	svc, repo, ctrl := newEventWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repo.EXPECT().List(gomock.Any()).Return(nil, nil)

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ev *model.Event) error {
		ev.ID = 5
		return nil
	})

	in := validEventInput()
	in.Venue = "  Town hall "
	ev, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), ev.ID)
	assert.Equal(t, model.EventCampaign, ev.Type)
	assert.Equal(t, "Town hall", ev.Venue)

	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("bad connection"))
	_, err = svc.List(ctx)
	require.ErrorIs(t, err, ErrInternal)
}

func TestEventCreate_Validation(t *testing.T) {
	svc, _, ctrl := newEventWithMocks(t)
	defer ctrl.Finish()

	tests := []struct {
		name   string
		mutate func(in *EventInput)
	}{
		{"bad type", func(in *EventInput) { in.Type = "Party" }},
		{"missing venue", func(in *EventInput) { in.Venue = "" }},
		{"bad date", func(in *EventInput) { in.Date = "01/06/2024" }},
		{"bad time", func(in *EventInput) { in.Time = "2pm" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEventInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestEventUpdate(t *testing.T) {
	svc, repo, ctrl := newEventWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	stored := storedEvent(1)
	expectEventUpdate(repo, stored).Times(2)

	got, err := svc.Update(ctx, 1, EventPatch{Type: ptr("Event"), Venue: ptr("Library")})
	require.NoError(t, err)
	assert.Equal(t, model.EventMeeting, got.Type)
	assert.Equal(t, "Library", got.Venue)
	assert.Equal(t, "Lagos", got.Location)

	_, err = svc.Update(ctx, 1, EventPatch{Date: ptr("tomorrow")})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "2024-06-01", stored.Date)

	repo.EXPECT().Update(gomock.Any(), uint64(42), gomock.Any()).Return(nil, mysql.ErrNotFound)
	_, err = svc.Update(ctx, 42, EventPatch{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEventGetAndDelete(t *testing.T) {
	svc, repo, ctrl := newEventWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repo.EXPECT().FindByID(gomock.Any(), uint64(1)).Return(storedEvent(1), nil)
	ev, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lagos", ev.Location)

	gomock.InOrder(
		repo.EXPECT().Delete(gomock.Any(), uint64(1)).Return(nil),
		repo.EXPECT().Delete(gomock.Any(), uint64(1)).Return(mysql.ErrNotFound),
	)
	require.NoError(t, svc.Delete(ctx, 1))
	require.ErrorIs(t, svc.Delete(ctx, 1), ErrNotFound)

	repo.EXPECT().FindByID(gomock.Any(), uint64(1)).Return(nil, mysql.ErrNotFound)
	_, err = svc.GetByID(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}
