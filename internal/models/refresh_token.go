package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken — запись о refresh-токене. Хранится только хэш.
type RefreshToken struct {
	TokenHash string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active: не отозван и не истёк на момент now.
func (t RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
