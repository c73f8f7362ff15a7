package auth

import (
	"context"
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*Profile, error)
}

// UserRepository returns nil, nil when no user matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

// ErrRefreshTokenNotFound covers unknown, expired and already used refresh tokens.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshRecord struct {
	ID        string
	Digest    string
	UserID    int64
	ExpiresAt time.Time
}

// RefreshStore persists refresh token digests. Consume must be atomic: a digest is accepted once.
type RefreshStore interface {
	Save(ctx context.Context, rec RefreshRecord) error
	Consume(ctx context.Context, digest string, now time.Time) (int64, error)
	Revoke(ctx context.Context, digest string) error
}

// Profile is the user as returned to clients; the password hash never leaves the service.
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	StoreID     *int64    `json:"storeId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ProfileFromDataModel(u *userDatamodel.User) *Profile {
	return &Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Email:       u.Email,
		Phone:       u.Phone,
		StoreID:     u.StoreID,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Session is the login/refresh response body: profile fields plus the token pair.
type Session struct {
	Profile
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
