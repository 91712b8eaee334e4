package models

import "time"

// Payment: one row per completed checkout session. SessionID is the
// idempotency key: duplicate confirmation callbacks must not insert twice.
type Payment struct {
	ID          uint   `gorm:"primaryKey"`
	SessionID   string `gorm:"size:128;uniqueIndex;not null"`
	AmountCents int64  `gorm:"not null"`
	Currency    string `gorm:"size:10;not null"`
	PayerEmail  string `gorm:"size:100;index;not null"`
	PackageID   uint   `gorm:"index;not null"`
	PaidAt      time.Time
	CreatedAt   time.Time
}
