package domain

import "time"

// Actor kinds and roles.
const (
	ActorKindUser         = "user"
	ActorKindEntrepreneur = "entrepreneur"

	RoleUser         = "user"
	RoleEntrepreneur = "entrepreneur"
	RoleAdmin        = "admin"
)

// Actor is the authenticated identity threaded through mutating operations.
// It carries no behavior beyond the elevated-role check.
type Actor struct {
	ID   int64
	Kind string
	Role string
}

// IsAdmin reports whether the actor holds the elevated role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Entrepreneur is the owning actor type for products and services.
type Entrepreneur struct {
	ID           int64     `gorm:"primaryKey" json:"id,string"`
	FirstName    string    `gorm:"size:100" json:"first_name" form:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name" form:"last_name"`
	BusinessName string    `gorm:"size:255" json:"business_name" form:"business_name"`
	BusinessType string    `gorm:"size:100" json:"business_type" form:"business_type"`
	Email        string    `gorm:"size:255;uniqueIndex" json:"email" form:"email"`
	Password     string    `gorm:"size:255" json:"-"`
	Phone        string    `gorm:"size:20" json:"phone" form:"phone"`
	City         string    `gorm:"size:100" json:"city" form:"city"`
	Logo         string    `gorm:"size:1024" json:"logo"`
	Verified     bool      `json:"verified"`
	Role         string    `gorm:"size:16;default:entrepreneur" json:"role"`
	Status       string    `gorm:"size:16;default:enabled" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Entrepreneur) TableName() string {
	return "entrepreneurs"
}

func (e *Entrepreneur) Actor() Actor {
	return Actor{ID: e.ID, Kind: ActorKindEntrepreneur, Role: e.Role}
}

func (e *Entrepreneur) FullName() string {
	return e.FirstName + " " + e.LastName
}

// User is the consumer actor; a distinct identity space from Entrepreneur.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:150" json:"name" form:"name"`
	Username  string    `gorm:"size:100;uniqueIndex" json:"username" form:"username"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email" form:"email"`
	Password  string    `gorm:"size:255" json:"-"`
	Phone     string    `gorm:"size:20" json:"phone" form:"phone"`
	City      string    `gorm:"size:100" json:"city" form:"city"`
	Role      string    `gorm:"size:16;default:user" json:"role"`
	Status    string    `gorm:"size:16;default:enabled" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Kind: ActorKindUser, Role: u.Role}
}
