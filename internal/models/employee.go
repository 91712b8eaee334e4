package models

import "time"

// Employee: roster membership, one row per (employee, hr) pair.
// The composite unique index is the authoritative guard against the
// check-then-insert race in the approval path.
type Employee struct {
	ID            uint      `gorm:"primaryKey"`
	EmployeeEmail string    `gorm:"size:100;not null;uniqueIndex:idx_employee_hr"`
	HREmail       string    `gorm:"size:100;not null;uniqueIndex:idx_employee_hr"`
	Name          string    `gorm:"size:100"`
	AddedAt       time.Time `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
