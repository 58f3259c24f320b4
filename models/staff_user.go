package models

import "time"

type StaffRole string

const (
	RoleSuperAdmin StaffRole = "super_admin"
	RoleAdmin      StaffRole = "admin"
	RoleManager    StaffRole = "manager"
	RoleWaiter     StaffRole = "waiter"
)

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
	StaffPending  StaffStatus = "pending"
)

// StaffUser belongs to one restaurant, except super admins which own none.
type StaffUser struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID *uint       `gorm:"index" json:"restaurant_id,omitempty"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Email        string      `gorm:"type:varchar(255);unique;not null" json:"email"`
	Role         StaffRole   `gorm:"type:varchar(20);not null" json:"role"`
	Status       StaffStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}
