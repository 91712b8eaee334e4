package models

import "time"

type UserRole string

const (
	RoleHR       UserRole = "hr"
	RoleEmployee UserRole = "employee"
)

// DefaultMemberLimit: free tier, raised by purchasing a package.
const DefaultMemberLimit = 5

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CompanyName  string   `gorm:"size:100"`
	CompanyLogo  string   `gorm:"size:255"`
	DateOfBirth  *time.Time
	MemberLimit  int `gorm:"not null;default:5"` // seat limit (hr accounts)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
