// Package repository is the gorm adapter behind services.CommandRepository.
// Rows are read as raw maps and normalized through the schema package, so
// legacy column spellings keep working.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-commands/models"
	"github.com/yeremiapane/restaurant-commands/schema"
	"github.com/yeremiapane/restaurant-commands/services"
)

type GormRepository struct {
	DB *gorm.DB

	// inTx is set on repositories handed out by WithinTx. Command reads then
	// take a row lock so concurrent writers to one command serialize.
	inTx bool
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

var _ services.CommandRepository = (*GormRepository)(nil)

func (r *GormRepository) db(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

func (r *GormRepository) take(q *gorm.DB, entity string, id uint) (schema.Record, error) {
	raw := map[string]interface{}{}
	if err := q.Take(&raw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &services.NotFoundError{Entity: entity, ID: id}
		}
		return nil, fmt.Errorf("load %s %d: %w", entity, id, err)
	}
	return schema.Record(raw), nil
}

func (r *GormRepository) find(q *gorm.DB, entity string) ([]schema.Record, error) {
	var rows []map[string]interface{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", entity, err)
	}
	out := make([]schema.Record, len(rows))
	for i, row := range rows {
		out[i] = schema.Record(row)
	}
	return out, nil
}

func (r *GormRepository) GetTable(ctx context.Context, id uint) (models.Table, error) {
	raw, err := r.take(r.db(ctx).Model(&models.Table{}).Where("id = ?", id), "table", id)
	if err != nil {
		return models.Table{}, err
	}
	return schema.DecodeTable(raw)
}

// ListTables returns the tables of one restaurant, or all tables when
// restaurantID is zero.
func (r *GormRepository) ListTables(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	q := r.db(ctx).Model(&models.Table{}).Order("number asc")
	if restaurantID != 0 {
		q = q.Where("restaurant_id = ?", restaurantID)
	}
	rows, err := r.find(q, "tables")
	if err != nil {
		return nil, err
	}
	tables := make([]models.Table, 0, len(rows))
	for _, raw := range rows {
		t, err := schema.DecodeTable(raw)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (r *GormRepository) UpdateTableStatus(ctx context.Context, id uint, status, expected models.TableStatus) error {
	res := r.db(ctx).Model(&models.Table{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return fmt.Errorf("update table %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, &models.Table{}, "table", id)
	}
	return nil
}

func (r *GormRepository) missingOrConflict(ctx context.Context, model interface{}, entity string, id uint) error {
	var count int64
	if err := r.db(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("count %s %d: %w", entity, id, err)
	}
	if count == 0 {
		return &services.NotFoundError{Entity: entity, ID: id}
	}
	return services.ErrConflict
}

// GetCommand reads a command. Inside WithinTx the row is read with
// SELECT ... FOR UPDATE; sqlite has no row locks and serializes writers on
// its own, so the gorm sqlite dialect drops the clause.
func (r *GormRepository) GetCommand(ctx context.Context, id uint) (models.Command, error) {
	q := r.db(ctx).Model(&models.Command{}).Where("id = ?", id)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	raw, err := r.take(q, "command", id)
	if err != nil {
		return models.Command{}, err
	}
	return schema.DecodeCommand(raw)
}

func (r *GormRepository) GetOpenCommandForTable(ctx context.Context, tableID uint) (models.Command, error) {
	q := r.db(ctx).Model(&models.Command{}).
		Where("table_id = ? AND status = ?", tableID, models.CommandOpen).
		Order("id desc")
	raw, err := r.take(q, "open command for table", tableID)
	if err != nil {
		return models.Command{}, err
	}
	return schema.DecodeCommand(raw)
}

func (r *GormRepository) ListCommandsByStatus(ctx context.Context, status models.CommandStatus) ([]models.Command, error) {
	rows, err := r.find(r.db(ctx).Model(&models.Command{}).Where("status = ?", status).Order("id asc"), "commands")
	if err != nil {
		return nil, err
	}
	cmds := make([]models.Command, 0, len(rows))
	for _, raw := range rows {
		c, err := schema.DecodeCommand(raw)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func (r *GormRepository) SaveCommand(ctx context.Context, cmd *models.Command, expected models.CommandStatus) error {
	if cmd.ID == 0 {
		if err := r.db(ctx).Omit(clause.Associations).Create(cmd).Error; err != nil {
			return fmt.Errorf("create command: %w", err)
		}
		return nil
	}

	res := r.db(ctx).Model(&models.Command{}).
		Where("id = ? AND status = ?", cmd.ID, expected).
		Updates(map[string]interface{}{
			"status":              cmd.Status,
			"total":               cmd.Total,
			"service_charge_rate": cmd.ServiceChargeRate,
			"closed_by":           cmd.ClosedBy,
			"paid_by":             cmd.PaidBy,
			"paid_amount":         cmd.PaidAmount,
			"change_due":          cmd.ChangeDue,
			"payment_method":      cmd.PaymentMethod,
			"closed_at":           cmd.ClosedAt,
			"paid_at":             cmd.PaidAt,
			"updated_at":          cmd.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update command %d: %w", cmd.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missingOrConflict(ctx, &models.Command{}, "command", cmd.ID)
	}
	return nil
}

func (r *GormRepository) ListItems(ctx context.Context, commandID uint) ([]models.CommandItem, error) {
	rows, err := r.find(r.db(ctx).Model(&models.CommandItem{}).Where("command_id = ?", commandID).Order("id asc"), "command items")
	if err != nil {
		return nil, err
	}
	items := make([]models.CommandItem, 0, len(rows))
	for _, raw := range rows {
		it, err := schema.DecodeCommandItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *GormRepository) GetItem(ctx context.Context, id uint) (models.CommandItem, error) {
	raw, err := r.take(r.db(ctx).Model(&models.CommandItem{}).Where("id = ?", id), "command_item", id)
	if err != nil {
		return models.CommandItem{}, err
	}
	return schema.DecodeCommandItem(raw)
}

func (r *GormRepository) InsertItem(ctx context.Context, item *models.CommandItem) error {
	if err := r.db(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("insert command item: %w", err)
	}
	return nil
}

func (r *GormRepository) DeleteItem(ctx context.Context, id uint) error {
	res := r.db(ctx).Delete(&models.CommandItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete command item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &services.NotFoundError{Entity: "command_item", ID: id}
	}
	return nil
}

func (r *GormRepository) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	raw, err := r.take(r.db(ctx).Model(&models.Product{}).Where("id = ?", id), "product", id)
	if err != nil {
		return models.Product{}, err
	}
	return schema.DecodeProduct(raw)
}

func (r *GormRepository) GetStaff(ctx context.Context, id uint) (models.StaffUser, error) {
	raw, err := r.take(r.db(ctx).Model(&models.StaffUser{}).Where("id = ?", id), "staff_user", id)
	if err != nil {
		return models.StaffUser{}, err
	}
	return schema.DecodeStaff(raw)
}

func (r *GormRepository) WithinTx(ctx context.Context, fn func(repo services.CommandRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{DB: tx, inTx: true})
	})
}
