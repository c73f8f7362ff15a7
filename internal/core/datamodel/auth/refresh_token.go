package auth

import "time"

// RefreshToken stores only the SHA-256 digest of the opaque token handed to the client.
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;column:id"`
	TokenHash string     `gorm:"column:token_hash;uniqueIndex;not null"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
