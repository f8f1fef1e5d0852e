package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"Child_Shield/internal/model"
	"Child_Shield/internal/pkg"
	"Child_Shield/internal/repository/mysql"
	"Child_Shield/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=user_service.go -destination=../../mocks/user_service.go -package=mocks

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
}

// SessionStore keeps the one live access token per user. A session expires together
// with its access token; Refresh starts a new one.
type SessionStore interface {
	Save(ctx context.Context, userID uint64, token string) error
	Get(ctx context.Context, userID uint64) (string, error)
	Delete(ctx context.Context, userID uint64) error
}

const minPasswordLen = 8

type UserService struct {
	repo     UserRepository
	sessions SessionStore
	tokens   *pkg.TokenIssuer
}

func NewUserService(repo UserRepository, sessions SessionStore, tokens *pkg.TokenIssuer) *UserService {
	return &UserService{repo: repo, sessions: sessions, tokens: tokens}
}

// Register stores a member with a bcrypt hash of password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	const op = "service/User.Register"

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, invalid("username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email is invalid")
	}
	if len(password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal(ctx, op, err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleMember,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, mysql.ErrDuplicate) {
			return nil, alreadyExists("username or email already registered")
		}
		return nil, internal(ctx, op, err)
	}
	return user, nil
}

// Login accepts a username or an email. A new login replaces the previous session.
func (s *UserService) Login(ctx context.Context, login, password string) (*pkg.Pair, error) {
	const op = "service/User.Login"

	user, err := s.repo.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, unauthorized("invalid credentials")
		}
		return nil, internal(ctx, op, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, unauthorized("invalid credentials")
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, internal(ctx, op, err)
	}
	if err := s.sessions.Save(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, internal(ctx, op, err)
	}
	return pair, nil
}

// Logout drops the session of userID.
func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return internal(ctx, "service/User.Logout", err)
	}
	return nil
}

// Refresh issues a new pair for a valid refresh token. The role is re-read from the
// store so that promotions take effect.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	const op = "service/User.Refresh"

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrRefreshExpired) {
			return nil, unauthorized("refresh token expired")
		}
		return nil, unauthorized("refresh token invalid")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mysql.ErrNotFound) {
			return nil, unauthorized("refresh token invalid")
		}
		return nil, internal(ctx, op, err)
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, internal(ctx, op, err)
	}
	if err := s.sessions.Save(ctx, user.ID, pair.AccessToken); err != nil {
		return nil, internal(ctx, op, err)
	}
	return pair, nil
}

// Authenticate resolves an access token to the caller. The token must be the live
// session token of its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (Actor, error) {
	const op = "service/User.Authenticate"

	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		if errors.Is(err, pkg.ErrTokenExpired) {
			return Actor{}, unauthorized("token expired")
		}
		return Actor{}, unauthorized("token invalid")
	}

	live, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, redis.ErrTokenNotFound) {
			return Actor{}, unauthorized("session expired")
		}
		return Actor{}, internal(ctx, op, err)
	}
	if live != token {
		return Actor{}, unauthorized("session replaced by a newer login")
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}
