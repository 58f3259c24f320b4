package services

import (
	"context"

	"github.com/yeremiapane/restaurant-commands/models"
)

// CommandRepository is the persistence boundary of the lifecycle. Reads
// return records already normalized through the schema package; a missing
// row is a *NotFoundError.
type CommandRepository interface {
	GetTable(ctx context.Context, id uint) (models.Table, error)
	ListTables(ctx context.Context, restaurantID uint) ([]models.Table, error)
	// UpdateTableStatus writes status only if the row still holds expected,
	// returning ErrConflict otherwise.
	UpdateTableStatus(ctx context.Context, id uint, status, expected models.TableStatus) error

	GetCommand(ctx context.Context, id uint) (models.Command, error)
	GetOpenCommandForTable(ctx context.Context, tableID uint) (models.Command, error)
	ListCommandsByStatus(ctx context.Context, status models.CommandStatus) ([]models.Command, error)
	// SaveCommand inserts cmd when its ID is zero. Otherwise it updates the
	// row only if the stored status equals expected, returning ErrConflict
	// when it does not.
	SaveCommand(ctx context.Context, cmd *models.Command, expected models.CommandStatus) error

	ListItems(ctx context.Context, commandID uint) ([]models.CommandItem, error)
	GetItem(ctx context.Context, id uint) (models.CommandItem, error)
	InsertItem(ctx context.Context, item *models.CommandItem) error
	DeleteItem(ctx context.Context, id uint) error

	GetProduct(ctx context.Context, id uint) (models.Product, error)
	GetStaff(ctx context.Context, id uint) (models.StaffUser, error)

	// WithinTx runs fn against a repository bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(repo CommandRepository) error) error
}
