package domain

import "time"

// AuditLog records a mutating action performed by an actor on a resource.
// Rows are written by the event bus subscriber, not by request handlers.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	ActorKind string    `gorm:"size:16" json:"actor_kind"`
	ActorID   int64     `gorm:"index" json:"actor_id,string"`
	Action    string    `gorm:"size:32;index" json:"action"`
	Resource  string    `gorm:"size:16" json:"resource"`
	TargetID  int64     `gorm:"index" json:"target_id,string"`
	Detail    string    `gorm:"size:512" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
