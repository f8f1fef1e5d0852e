package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Child_Shield/internal/model"
	"Child_Shield/internal/pkg"
	"Child_Shield/internal/repository/mysql"
	"Child_Shield/internal/repository/redis"
	"Child_Shield/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserWithMocks(t *testing.T) (*UserService, *mocks.MockUserRepository, *mocks.MockSessionStore, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	tokens := pkg.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	return NewUserService(repo, sessions, tokens), repo, sessions, ctrl
}

func carol(t *testing.T) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{ID: 4, Username: "carol", Email: "carol@example.org", Password: string(hash), Role: model.RoleMember}
}

func TestUserRegister(t *testing.T) {
	svc, repo, _, ctrl := newUserWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *model.User) error {
		assert.Equal(t, "carol", u.Username)
		assert.Equal(t, model.RoleMember, u.Role)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("s3cretpass")))
		u.ID = 4
		return nil
	})

	u, err := svc.Register(ctx, " carol ", "carol@example.org", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), u.ID)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(mysql.ErrDuplicate)
	_, err = svc.Register(ctx, "carol", "other@example.org", "s3cretpass")
	require.ErrorIs(t, err, ErrAlreadyExists)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("gone away"))
	_, err = svc.Register(ctx, "erin", "erin@example.org", "s3cretpass")
	require.ErrorIs(t, err, ErrInternal)

	_, err = svc.Register(ctx, "dave", "not-an-email", "s3cretpass")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Register(ctx, "dave", "dave@example.org", "short")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Register(ctx, "  ", "dave@example.org", "s3cretpass")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUserLogin(t *testing.T) {
	svc, repo, sessions, ctrl := newUserWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	u := carol(t)
	repo.EXPECT().FindByLogin(gomock.Any(), "carol").Return(u, nil)
	_, err := svc.Login(ctx, "carol", "wrong-password")
	require.ErrorIs(t, err, ErrUnauthorized)

	repo.EXPECT().FindByLogin(gomock.Any(), "nobody").Return(nil, mysql.ErrNotFound)
	_, err = svc.Login(ctx, "nobody", "s3cretpass")
	require.ErrorIs(t, err, ErrUnauthorized)

	var saved string
	repo.EXPECT().FindByLogin(gomock.Any(), "carol@example.org").Return(u, nil)
	sessions.EXPECT().Save(gomock.Any(), u.ID, gomock.Any()).DoAndReturn(func(_ context.Context, _ uint64, token string) error {
		saved = token
		return nil
	})

	pair, err := svc.Login(ctx, " carol@example.org ", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, saved)

	repo.EXPECT().FindByLogin(gomock.Any(), "carol").Return(u, nil)
	sessions.EXPECT().Save(gomock.Any(), u.ID, gomock.Any()).Return(redis.ErrRedisUnavailable)
	_, err = svc.Login(ctx, "carol", "s3cretpass")
	require.ErrorIs(t, err, ErrInternal)
}

func TestUserAuthenticate(t *testing.T) {
	svc, repo, sessions, ctrl := newUserWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	u := carol(t)
	repo.EXPECT().FindByLogin(gomock.Any(), "carol").Return(u, nil)
	sessions.EXPECT().Save(gomock.Any(), u.ID, gomock.Any()).Return(nil)
	pair, err := svc.Login(ctx, "carol", "s3cretpass")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		live    string
		liveErr error
		wantErr error
		lookups bool
	}{
		{name: "live session", token: pair.AccessToken, live: pair.AccessToken, lookups: true},
		{name: "refresh token is not an access token", token: pair.RefreshToken, wantErr: ErrUnauthorized},
		{name: "garbage", token: "garbage", wantErr: ErrUnauthorized},
		{name: "logged out", token: pair.AccessToken, liveErr: redis.ErrTokenNotFound, wantErr: ErrUnauthorized, lookups: true},
		{name: "replaced by a newer login", token: pair.AccessToken, live: "some-other-token", wantErr: ErrUnauthorized, lookups: true},
		{name: "redis down", token: pair.AccessToken, liveErr: redis.ErrRedisUnavailable, wantErr: ErrInternal, lookups: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.lookups {
				sessions.EXPECT().Get(gomock.Any(), u.ID).Return(tt.live, tt.liveErr)
			}

			actor, err := svc.Authenticate(ctx, tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.ID, actor.UserID)
			assert.False(t, actor.IsAdmin())
		})
	}
}

func TestUserLogout(t *testing.T) {
	svc, _, sessions, ctrl := newUserWithMocks(t)
	defer ctrl.Finish()

	sessions.EXPECT().Delete(gomock.Any(), uint64(4)).Return(nil)
	require.NoError(t, svc.Logout(context.Background(), 4))

	sessions.EXPECT().Delete(gomock.Any(), uint64(4)).Return(redis.ErrRedisUnavailable)
	require.ErrorIs(t, svc.Logout(context.Background(), 4), ErrInternal)
}

func TestUserRefresh(t *testing.T) {
	svc, repo, sessions, ctrl := newUserWithMocks(t)
	defer ctrl.Finish()
	ctx := context.Background()

	u := carol(t)
	repo.EXPECT().FindByLogin(gomock.Any(), "carol").Return(u, nil)
	sessions.EXPECT().Save(gomock.Any(), u.ID, gomock.Any()).Return(nil)
	pair, err := svc.Login(ctx, "carol", "s3cretpass")
	require.NoError(t, err)

	// a promotion since login shows up in the refreshed pair
	promoted := *u
	promoted.Role = model.RoleAdmin
	repo.EXPECT().FindByID(gomock.Any(), u.ID).Return(&promoted, nil)
	var saved string
	sessions.EXPECT().Save(gomock.Any(), u.ID, gomock.Any()).DoAndReturn(func(_ context.Context, _ uint64, token string) error {
		saved = token
		return nil
	})

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, next.AccessToken, saved)

	sessions.EXPECT().Get(gomock.Any(), u.ID).Return(saved, nil)
	actor, err := svc.Authenticate(ctx, next.AccessToken)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, ErrUnauthorized)

	repo.EXPECT().FindByID(gomock.Any(), u.ID).Return(nil, mysql.ErrNotFound)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}
