package models

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// AssetRequest: one employee's claim on one asset.
// AssetName, AssetType and HREmail are denormalized from the asset row at submit time.
type AssetRequest struct {
	ID             uint   `gorm:"primaryKey"`
	AssetID        uint   `gorm:"index;not null"`
	AssetName      string `gorm:"size:100;not null"`
	AssetType      AssetType
	HREmail        string        `gorm:"size:100;index;not null"`
	RequesterEmail string        `gorm:"size:100;index;not null"`
	RequesterName  string        `gorm:"size:100"`
	Note           string        `gorm:"size:255"`
	Status         RequestStatus `gorm:"size:20;index;not null;default:pending"`
	RequestedAt    time.Time     `gorm:"not null"`
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
