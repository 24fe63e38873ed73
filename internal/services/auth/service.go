package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
	"github.com/tiagocodinha/StagelinkApproval/internal/repo/postgres"
	redisrepo "github.com/tiagocodinha/StagelinkApproval/internal/repo/redis"
)

type Service struct {
	profiles   ProfileRepo
	sessions   SessionRepo
	tokens     *TokenManager
	logger     *zap.Logger
	adminEmail string
	refreshTTL time.Duration
}

func NewService(
	profiles ProfileRepo,
	sessions SessionRepo,
	tokens *TokenManager,
	logger *zap.Logger,
	adminEmail string,
	refreshTTL time.Duration,
) (*Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile repo is nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session repo is nil")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if refreshTTL <= 0 {
		return nil, fmt.Errorf("refresh ttl must be positive")
	}

	return &Service{
		profiles:   profiles,
		sessions:   sessions,
		tokens:     tokens,
		logger:     logger,
		adminEmail: adminEmail,
		refreshTTL: refreshTTL,
	}, nil
}

// SignIn verifies credentials and opens a new session. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgres.ErrProfileNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("load profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrUnauthorized
	}

	return s.openSession(ctx, profile)
}

// Refresh rotates the token pair: the presented refresh token is
// consumed and a new session takes its place.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	record, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, redisrepo.ErrSessionNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("resolve session: %w", err)
	}

	if err := s.sessions.Delete(ctx, record); err != nil {
		return AuthResult{}, fmt.Errorf("rotate session: %w", err)
	}

	profile, err := s.profiles.GetByEmail(ctx, record.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrProfileNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("load profile: %w", err)
	}

	return s.openSession(ctx, profile)
}

// Logout ends the single session behind the presented refresh token.
// Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	record, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, redisrepo.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("resolve session: %w", err)
	}

	if err := s.sessions.Delete(ctx, record); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// LogoutAll ends every session of the calling user.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// ValidateAccessToken checks the JWT signature and confirms the
// session behind it is still alive, so a logout invalidates access
// tokens before they expire.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (Identity, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}

	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, ErrUnauthorized
	}

	if _, err := s.sessions.GetBySID(ctx, claims.SID); err != nil {
		if errors.Is(err, redisrepo.ErrSessionNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("check session: %w", err)
	}

	role := enums.Role(claims.Role)
	if role != enums.RoleAdmin && role != enums.RoleClient {
		return Identity{}, ErrUnauthorized
	}

	return Identity{
		UserID: userID,
		SID:    claims.SID,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

func (s *Service) openSession(ctx context.Context, profile postgres.ProfileRecord) (AuthResult, error) {
	role := RoleForEmail(s.adminEmail, profile.Email)

	sid := uuid.NewString()
	refreshToken, err := NewOpaqueToken()
	if err != nil {
		return AuthResult{}, err
	}

	record := redisrepo.SessionRecord{
		SID:          sid,
		UserID:       profile.ID,
		Email:        profile.Email,
		Role:         string(role),
		RefreshToken: refreshToken,
	}
	if err := s.sessions.Save(ctx, record, s.refreshTTL); err != nil {
		return AuthResult{}, fmt.Errorf("save session: %w", err)
	}

	accessToken, err := s.tokens.Issue(profile.ID, sid, profile.Email, string(role))
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("session opened",
		zap.Int64("user_id", profile.ID),
		zap.String("role", string(role)),
	)

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       profile.ID,
		Email:        profile.Email,
		FullName:     profile.FullName,
		Role:         string(role),
	}, nil
}
