// internal/domain/session/service.go
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/pharmacy-dashboard/internal/config"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/backend"
	"github.com/your-org/pharmacy-dashboard/internal/infrastructure/database/redis"
	"github.com/your-org/pharmacy-dashboard/internal/pkg/auth"
)

// Session is the per-operator state the dashboard keeps between requests: the
// upstream access token and a cached copy of the user object. It is the BFF
// equivalent of the browser's token storage.
type Session struct {
	ID           string             `json:"id"`
	BackendToken string             `json:"backend_token"`
	User         backend.UserRecord `json:"user"`
}

// Service authenticates operators against the inventory backend and manages
// their dashboard sessions in Redis.
type Service struct {
	client *backend.Client
	store  *redis.Client
	jwt    *auth.JWTManager
	config *config.Config
}

// NewService creates a session service
func NewService(client *backend.Client, store *redis.Client, cfg *config.Config) *Service {
	return &Service{
		client: client,
		store:  store,
		jwt:    auth.NewJWTManager(cfg),
		config: cfg,
	}
}

// LoginRequest is the operator login form
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session tokens and the cached user
type LoginResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	User         backend.UserRecord `json:"user"`
}

// Login checks credentials against the backend and opens a session
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	result, err := s.client.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:           uuid.NewString(),
		BackendToken: result.Token,
		User:         result.User,
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey(sess.ID), payload, s.config.JWT.AccessTokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(sess.ID, result.User.Email, result.User.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(sess.ID, result.User.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         result.User,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The session
// entry is rewritten with a fresh expiry, so an active operator is not logged
// out mid-shift; the refresh token itself is reused until it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	sess, err := s.Resolve(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey(sess.ID), payload, s.config.JWT.AccessTokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to extend session: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(sess.ID, sess.User.Email, sess.User.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         sess.User,
	}, nil
}

// Resolve loads a session by ID; a missing entry means the session expired or
// was logged out.
func (s *Service) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := s.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Logout revokes a session
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.store.Del(ctx, sessionKey(sessionID))
}

func sessionKey(id string) string {
	return "session:" + id
}
