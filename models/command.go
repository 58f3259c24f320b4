package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommandStatus string

const (
	CommandOpen   CommandStatus = "open"
	CommandClosed CommandStatus = "closed"
	CommandPaid   CommandStatus = "paid"
)

// Command is a running tab tied to one table from seating to payment.
// Total is a cache of the items priced at ServiceChargeRate; the item set is
// the source of truth.
type Command struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	RestaurantID      uint             `gorm:"not null;index" json:"restaurant_id"`
	TableID           uint             `gorm:"not null;index" json:"table_id"`
	Table             Table            `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OpenedBy          uint             `gorm:"not null" json:"opened_by"`
	ClosedBy          *uint            `json:"closed_by,omitempty"`
	PaidBy            *uint            `json:"paid_by,omitempty"`
	Status            CommandStatus    `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Total             decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	ServiceChargeRate decimal.Decimal  `gorm:"type:decimal(6,4);not null;default:0" json:"service_charge_rate"`
	PaidAmount        *decimal.Decimal `gorm:"type:decimal(12,2)" json:"paid_amount,omitempty"`
	ChangeDue         *decimal.Decimal `gorm:"type:decimal(12,2)" json:"change_due,omitempty"`
	PaymentMethod     *string          `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	CreatedAt         time.Time        `gorm:"not null" json:"created_at"`
	ClosedAt          *time.Time       `json:"closed_at,omitempty"`
	PaidAt            *time.Time       `json:"paid_at,omitempty"`
	UpdatedAt         time.Time        `gorm:"not null" json:"updated_at"`
	Items             []CommandItem    `gorm:"foreignKey:CommandID" json:"items,omitempty"`
}
