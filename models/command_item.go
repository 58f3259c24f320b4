package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommandItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CommandID uint `gorm:"not null;index" json:"command_id"`
	// Omitting Command field from JSON to avoid recursive nesting
	Command   Command         `gorm:"foreignKey:CommandID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Notes     *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

// LineTotal is unit price times quantity, exact.
func (i CommandItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
