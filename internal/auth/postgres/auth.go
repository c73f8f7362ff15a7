package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal/auth"
	authDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/auth"
	userDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Repository serves the auth service: user lookups plus the relational refresh-token store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (r *Repository) Save(ctx context.Context, rec auth.RefreshRecord) error {
	row := authDatamodel.RefreshToken{
		ID:        rec.ID,
		TokenHash: rec.Digest,
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume marks the token used with a conditional UPDATE, so two concurrent
// refreshes with the same token cannot both win.
func (r *Repository) Consume(ctx context.Context, digest string, now time.Time) (int64, error) {
	var userID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&authDatamodel.RefreshToken{}).
			Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", digest, now).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return auth.ErrRefreshTokenNotFound
		}

		var row authDatamodel.RefreshToken
		if err := tx.Select("user_id").Where("token_hash = ?", digest).First(&row).Error; err != nil {
			return err
		}
		userID = row.UserID
		return nil
	})
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

func (r *Repository) Revoke(ctx context.Context, digest string) error {
	err := r.db.WithContext(ctx).
		Model(&authDatamodel.RefreshToken{}).
		Where("token_hash = ? AND used_at IS NULL", digest).
		Update("used_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// PurgeExpired drops tokens that can no longer be exchanged.
func (r *Repository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ? OR used_at IS NOT NULL", now).
		Delete(&authDatamodel.RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
