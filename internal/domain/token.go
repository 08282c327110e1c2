package domain

import "time"

// AuthToken is a revocable bearer token record. The JWT presented by the
// client carries the token ID; a row must still exist here for the token to
// be accepted, which makes logout and logout-all effective immediately.
type AuthToken struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	ActorKind  string    `gorm:"size:16;index:idx_token_actor" json:"actor_kind"`
	ActorID    int64     `gorm:"index:idx_token_actor" json:"actor_id,string"`
	Name       string    `gorm:"size:100" json:"name"`
	TokenHash  string    `gorm:"size:64;index" json:"-"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

// Expired reports whether the token row has passed its expiry. A zero
// ExpiresAt means the token does not expire.
func (t *AuthToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}
