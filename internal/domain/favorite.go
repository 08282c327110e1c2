package domain

import "time"

// Favorite target kinds. The (kind, target id) pair is an explicit tagged
// reference to either a product or a service.
const (
	FavoriteProduct = "product"
	FavoriteService = "service"
)

// FavoriteTarget identifies what a favorite points at.
type FavoriteTarget struct {
	Kind     string `gorm:"size:16;index:idx_fav_target;uniqueIndex:idx_fav_unique" json:"kind" form:"kind"`
	TargetID int64  `gorm:"index:idx_fav_target;uniqueIndex:idx_fav_unique" json:"target_id,string" form:"target_id"`
}

// Valid reports whether the target names a known resource kind.
func (t FavoriteTarget) Valid() bool {
	return (t.Kind == FavoriteProduct || t.Kind == FavoriteService) && t.TargetID != 0
}

// Favorite marks a product or service as favorited by a user.
type Favorite struct {
	ID        int64          `gorm:"primaryKey" json:"id,string"`
	UserID    int64          `gorm:"index;uniqueIndex:idx_fav_unique" json:"user_id,string"`
	Target    FavoriteTarget `gorm:"embedded" json:"target"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
