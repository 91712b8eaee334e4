package models

import "time"

type AssetType string

const (
	AssetReturnable    AssetType = "returnable"
	AssetNonReturnable AssetType = "non-returnable"
)

type Asset struct {
	ID          uint      `gorm:"primaryKey"`
	HREmail     string    `gorm:"size:100;index;not null"` // owning HR account
	ProductName string    `gorm:"size:100;not null"`
	ProductType AssetType `gorm:"size:20;not null"`
	Quantity    int       `gorm:"not null;check:quantity >= 0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
