package service

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/iliyamo/parksmart-reservation/internal/model"
    "github.com/iliyamo/parksmart-reservation/internal/repository"
    "github.com/iliyamo/parksmart-reservation/internal/utils"
)

// AuthConfig holds the token and hashing parameters for AuthService.
type AuthConfig struct {
    JWTSecret    string
    AccessTTLMin int
    BcryptCost   int
}

// Session is returned on successful registration or login.
type Session struct {
    User   model.User        `json:"user"`
    Access utils.AccessToken `json:"access"`
}

// AuthService manages operator accounts.
type AuthService struct {
    store repository.Store
    cfg   AuthConfig
}

func NewAuthService(store repository.Store, cfg AuthConfig) *AuthService {
    return &AuthService{store: store, cfg: cfg}
}

// Register creates a user and issues an access token immediately.
// A taken username yields repository.ErrUsernameExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (Session, error) {
    username = strings.TrimSpace(username)
    hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
    if err != nil {
        return Session{}, fmt.Errorf("hash password: %w", err)
    }
    u, err := s.store.CreateUser(ctx, model.NewUser{Username: username, PasswordHash: hash})
    if err != nil {
        return Session{}, fmt.Errorf("create user: %w", err)
    }
    return s.issue(u)
}

// Login verifies the credentials and issues a fresh access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
    u, err := s.store.FindUserByUsername(ctx, strings.TrimSpace(username))
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return Session{}, ErrInvalidCredentials
        }
        return Session{}, fmt.Errorf("find user: %w", err)
    }
    if !utils.VerifyPassword(u.PasswordHash, password) {
        return Session{}, ErrInvalidCredentials
    }
    return s.issue(u)
}

func (s *AuthService) issue(u model.User) (Session, error) {
    tok, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Username, s.cfg.AccessTTLMin)
    if err != nil {
        return Session{}, fmt.Errorf("issue access token: %w", err)
    }
    return Session{User: u, Access: tok}, nil
}
