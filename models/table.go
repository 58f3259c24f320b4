package models

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID uint        `gorm:"not null;uniqueIndex:idx_table_restaurant_number" json:"restaurant_id"`
	Restaurant   Restaurant  `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Number       int         `gorm:"not null;uniqueIndex:idx_table_restaurant_number" json:"number"`
	Capacity     int         `gorm:"not null;default:0" json:"capacity"`
	Status       TableStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}
