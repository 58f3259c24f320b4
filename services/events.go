package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventCommandOpened EventType = "command_opened"
	EventItemAdded     EventType = "item_added"
	EventItemRemoved   EventType = "item_removed"
	EventCommandClosed EventType = "command_closed"
	EventCommandPaid   EventType = "command_paid"
	EventTableUpdated  EventType = "table_update"
	EventTotalHealed   EventType = "total_healed"
)

// Event is emitted after a transition has committed.
type Event struct {
	Type         EventType        `json:"type"`
	RestaurantID uint             `json:"restaurant_id"`
	CommandID    uint             `json:"command_id,omitempty"`
	TableID      uint             `json:"table_id,omitempty"`
	Status       string           `json:"status,omitempty"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	At           time.Time        `json:"at"`
}

// Notifier delivers events to staff screens or a broker. Delivery is best
// effort: the transition has already committed.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// MultiNotifier fans an event out to every notifier and returns the first
// error after all were tried.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, ev Event) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
