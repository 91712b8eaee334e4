package models

import "time"

type AuditAction string

const (
	AuditActionSubmit   AuditAction = "submit"
	AuditActionApprove  AuditAction = "approve"
	AuditActionReject   AuditAction = "reject"
	AuditActionAssign   AuditAction = "assign"
	AuditActionOffboard AuditAction = "offboard"
	AuditActionPayment  AuditAction = "payment"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Who did it
	ActorEmail string   `gorm:"size:100;index" json:"actor_email"`
	ActorRole  UserRole `gorm:"size:20" json:"actor_role"`

	// Which entity (e.g. "request", "asset", "employee", "payment")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Before/after snapshots (JSON)
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
	AfterData  string `gorm:"type:jsonb" json:"after_data"`
}
