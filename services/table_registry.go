package services

import (
	"context"

	"github.com/yeremiapane/restaurant-commands/models"
)

// TableEffect describes what a table transition needs persisted. Changed is
// false for idempotent no-ops, which need no write.
type TableEffect struct {
	TableID uint
	From    models.TableStatus
	To      models.TableStatus
	Changed bool
}

func effect(t models.Table, to models.TableStatus) TableEffect {
	return TableEffect{TableID: t.ID, From: t.Status, To: to, Changed: t.Status != to}
}

// Occupy seats a command at an available table. An occupied table is
// rejected so two commands never stack on one table.
func Occupy(t models.Table) (TableEffect, error) {
	if t.Status != models.TableAvailable {
		return TableEffect{}, &InvalidTableStateError{TableID: t.ID, Status: t.Status, Op: "occupy"}
	}
	return effect(t, models.TableOccupied), nil
}

// Release frees an occupied table. Available and reserved tables are left
// as they are: the command being closed no longer holds them.
func Release(t models.Table) (TableEffect, error) {
	switch t.Status {
	case models.TableOccupied:
		return effect(t, models.TableAvailable), nil
	case models.TableAvailable, models.TableReserved:
		return effect(t, t.Status), nil
	}
	return TableEffect{}, &InvalidTableStateError{TableID: t.ID, Status: t.Status, Op: "release"}
}

func Reserve(t models.Table) (TableEffect, error) {
	if t.Status != models.TableAvailable {
		return TableEffect{}, &InvalidTableStateError{TableID: t.ID, Status: t.Status, Op: "reserve"}
	}
	return effect(t, models.TableReserved), nil
}

func Unreserve(t models.Table) (TableEffect, error) {
	if t.Status != models.TableReserved {
		return TableEffect{}, &InvalidTableStateError{TableID: t.ID, Status: t.Status, Op: "unreserve"}
	}
	return effect(t, models.TableAvailable), nil
}

// applyEffect persists e with a compare-and-swap on the previous status.
func applyEffect(ctx context.Context, repo CommandRepository, e TableEffect) error {
	if !e.Changed {
		return nil
	}
	return repo.UpdateTableStatus(ctx, e.TableID, e.To, e.From)
}
