package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"github.com/frahmantamala/pos-backoffice/internal/core/events"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	users      UserRepository
	tokens     *TokenIssuer
	refresh    RefreshStore
	refreshTTL time.Duration
	events     events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(users UserRepository, tokens *TokenIssuer, refresh RefreshStore, refreshTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		refresh:    refresh,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) WithEvents(p events.Publisher) *Service {
	s.events = p
	return s
}

// WithClock is used by tests to move past refresh-token expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login checks the password before the active flag so inactive accounts cannot be probed.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, dto.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if user == nil {
		s.loginFailed(ctx, dto.Username, "unknown_user")
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.loginFailed(ctx, dto.Username, "bad_password")
		return nil, internal.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.loginFailed(ctx, dto.Username, "inactive")
		return nil, internal.ErrUserInactive
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "role", user.Role)
	events.Emit(ctx, s.events, events.NewLoginSucceededEvent(user.Username))
	return session, nil
}

func (s *Service) loginFailed(ctx context.Context, username, reason string) {
	s.logger.WarnContext(ctx, "login rejected", "username", username, "reason", reason)
	events.Emit(ctx, s.events, events.NewLoginFailedEvent(username, reason))
}

// Refresh exchanges a refresh token for a new pair. The presented token is spent even when
// the user turns out to be inactive.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, internal.NewValidationFieldError("refreshToken", "refreshToken is required", internal.ErrCodeValidationFailed)
	}

	userID, err := s.refresh.Consume(ctx, digest(refreshToken), s.now())
	if err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return nil, internal.ErrInvalidRefreshToken
		}
		return nil, internal.NewInternalError("failed to consume refresh token", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, internal.ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return nil, internal.ErrUserInactive
	}

	return s.issueSession(ctx, user)
}

// Logout is idempotent: unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return internal.NewValidationFieldError("refreshToken", "refreshToken is required", internal.ErrCodeValidationFailed)
	}
	if err := s.refresh.Revoke(ctx, digest(refreshToken)); err != nil {
		return internal.NewInternalError("failed to revoke refresh token", err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return ProfileFromDataModel(user), nil
}

func (s *Service) issueSession(ctx context.Context, user *userDatamodel.User) (*Session, error) {
	access, expiresAt, err := s.tokens.Issue(internal.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}

	refresh, err := GenerateRandomToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate refresh token", err)
	}
	rec := RefreshRecord{
		ID:        uuid.New().String(),
		Digest:    digest(refresh),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.refresh.Save(ctx, rec); err != nil {
		return nil, internal.NewInternalError("failed to store refresh token", err)
	}

	return &Session{
		Profile:      *ProfileFromDataModel(user),
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Digest exposes the stored form of a refresh token for store implementations and tests.
func Digest(token string) string {
	return digest(token)
}
