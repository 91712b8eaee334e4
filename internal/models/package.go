package models

import "time"

// Package: a purchasable seat-limit tier.
type Package struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	MemberLimit int    `gorm:"not null"`
	PriceCents  int64  `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
