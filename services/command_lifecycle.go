package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-commands/models"
)

// Accepted payment methods for MarkPaid.
var PaymentMethods = map[string]bool{
	"cash":     true,
	"card":     true,
	"pix":      true,
	"qris":     true,
	"transfer": true,
}

type OpenCommandRequest struct {
	TableID uint
	StaffID uint
}

type AddItemRequest struct {
	CommandID uint
	StaffID   uint
	ProductID uint
	Quantity  int
	Notes     string
	// ServiceChargeRate overrides the configured default when set.
	ServiceChargeRate *decimal.Decimal
}

type RemoveItemRequest struct {
	CommandID         uint
	StaffID           uint
	ItemID            uint
	ServiceChargeRate *decimal.Decimal
}

type CloseCommandRequest struct {
	CommandID         uint
	StaffID           uint
	ServiceChargeRate *decimal.Decimal
}

type MarkPaidRequest struct {
	CommandID     uint
	StaffID       uint
	PaymentMethod string
	// PaidAmount is a decimal string such as "58.00".
	PaidAmount string
}

// CommandView is the read-only projection handed to the API layer.
// Command.Total is the amount the command is charged at its stored rate.
// Bill is priced at the command's rate too, unless the view was asked for a
// different rate, in which case Bill is a preview and may differ from
// Command.Total.
type CommandView struct {
	Command         models.Command       `json:"command"`
	Items           []models.CommandItem `json:"items"`
	Bill            Bill                 `json:"bill"`
	TotalRecomputed bool                 `json:"total_recomputed"`
}

// CommandLifecycle is the state machine of a command: open, closed, paid.
// Every mutating operation authorizes first and then runs in one repository
// transaction, so a failed precondition leaves no partial writes.
type CommandLifecycle struct {
	Repo     CommandRepository
	Auth     Authorizer
	Billing  BillingCalculator
	Notifier Notifier
	Logger   *logrus.Logger
	Now      func() time.Time

	// DefaultServiceChargeRate is stamped on commands when they open. Later
	// operations price a command at its own rate unless a request overrides
	// it, and the override is stored on the command.
	DefaultServiceChargeRate decimal.Decimal
}

func NewCommandLifecycle(repo CommandRepository, auth Authorizer) *CommandLifecycle {
	return &CommandLifecycle{
		Repo:   repo,
		Auth:   auth,
		Logger: logrus.StandardLogger(),
		Now:    time.Now,
	}
}

// rate is the override when given, else the rate the command was priced at.
func rate(override *decimal.Decimal, cmd models.Command) decimal.Decimal {
	if override != nil {
		return *override
	}
	return cmd.ServiceChargeRate
}

func (l *CommandLifecycle) now() time.Time {
	return l.Now().UTC()
}

// OpenCommand seats a new command at an available table. The table is
// flipped to occupied with a conditional write, so of two waiters racing for
// the same table exactly one wins.
func (l *CommandLifecycle) OpenCommand(ctx context.Context, req OpenCommandRequest) (models.Command, error) {
	table, err := l.Repo.GetTable(ctx, req.TableID)
	if err != nil {
		return models.Command{}, err
	}
	if err := l.Auth.Authorize(ctx, req.StaffID, ActionOpenCommand, table.RestaurantID); err != nil {
		return models.Command{}, err
	}

	var cmd models.Command
	err = l.Repo.WithinTx(ctx, func(repo CommandRepository) error {
		table, err := repo.GetTable(ctx, req.TableID)
		if err != nil {
			return err
		}
		existing, err := repo.GetOpenCommandForTable(ctx, table.ID)
		switch {
		case err == nil:
			return &InvalidTableStateError{
				TableID: table.ID,
				Status:  table.Status,
				Op:      "open a command",
				Reason:  fmt.Sprintf("command %d is already open", existing.ID),
			}
		case !isNotFound(err):
			return err
		}

		eff, err := Occupy(table)
		if err != nil {
			return err
		}
		if err := applyEffect(ctx, repo, eff); err != nil {
			if errors.Is(err, ErrConflict) {
				return l.tableConflict(ctx, repo, table.ID, "open a command")
			}
			return err
		}

		now := l.now()
		cmd = models.Command{
			RestaurantID:      table.RestaurantID,
			TableID:           table.ID,
			OpenedBy:          req.StaffID,
			Status:            models.CommandOpen,
			Total:             decimal.Zero,
			ServiceChargeRate: l.DefaultServiceChargeRate,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return repo.SaveCommand(ctx, &cmd, "")
	})
	if err != nil {
		return models.Command{}, err
	}

	l.Logger.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"table_id":   cmd.TableID,
		"staff_id":   req.StaffID,
	}).Info("command opened")
	l.emit(ctx, Event{Type: EventTableUpdated, RestaurantID: cmd.RestaurantID, TableID: cmd.TableID, Status: string(models.TableOccupied)})
	l.emit(ctx, commandEvent(EventCommandOpened, cmd))
	return cmd, nil
}

// tableConflict re-reads a table whose conditional write lost a race and
// reports the state it moved to.
func (l *CommandLifecycle) tableConflict(ctx context.Context, repo CommandRepository, tableID uint, op string) error {
	current, err := repo.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	return &InvalidTableStateError{TableID: tableID, Status: current.Status, Op: op, Reason: "table changed concurrently"}
}

// AddItem appends a line item priced at the product's current price and
// recomputes the cached total in the same transaction.
func (l *CommandLifecycle) AddItem(ctx context.Context, req AddItemRequest) (models.CommandItem, models.Command, error) {
	cmd, err := l.Repo.GetCommand(ctx, req.CommandID)
	if err != nil {
		return models.CommandItem{}, models.Command{}, err
	}
	if err := l.Auth.Authorize(ctx, req.StaffID, ActionAddItem, cmd.RestaurantID); err != nil {
		return models.CommandItem{}, models.Command{}, err
	}
	if req.Quantity < 1 {
		return models.CommandItem{}, models.Command{}, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	var item models.CommandItem
	err = l.Repo.WithinTx(ctx, func(repo CommandRepository) error {
		cmd, err = repo.GetCommand(ctx, req.CommandID)
		if err != nil {
			return err
		}
		if cmd.Status != models.CommandOpen {
			return &InvalidTransitionError{CommandID: cmd.ID, From: cmd.Status, Event: "add_item"}
		}
		product, err := repo.GetProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if product.RestaurantID != cmd.RestaurantID {
			return &ValidationError{Field: "product_id", Reason: "product belongs to another restaurant"}
		}

		item = models.CommandItem{
			CommandID: cmd.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
			Notes:     optionalNotes(req.Notes),
			CreatedAt: l.now(),
		}
		if err := repo.InsertItem(ctx, &item); err != nil {
			return err
		}
		return l.refreshTotal(ctx, repo, &cmd, rate(req.ServiceChargeRate, cmd))
	})
	if err != nil {
		return models.CommandItem{}, models.Command{}, err
	}

	l.Logger.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"item_id":    item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"total":      cmd.Total.StringFixed(2),
	}).Info("item added")
	l.emit(ctx, commandEvent(EventItemAdded, cmd))
	return item, cmd, nil
}

// RemoveItem deletes a line item of an open command and recomputes the
// cached total.
func (l *CommandLifecycle) RemoveItem(ctx context.Context, req RemoveItemRequest) (models.Command, error) {
	cmd, err := l.Repo.GetCommand(ctx, req.CommandID)
	if err != nil {
		return models.Command{}, err
	}
	if err := l.Auth.Authorize(ctx, req.StaffID, ActionRemoveItem, cmd.RestaurantID); err != nil {
		return models.Command{}, err
	}

	err = l.Repo.WithinTx(ctx, func(repo CommandRepository) error {
		cmd, err = repo.GetCommand(ctx, req.CommandID)
		if err != nil {
			return err
		}
		if cmd.Status != models.CommandOpen {
			return &InvalidTransitionError{CommandID: cmd.ID, From: cmd.Status, Event: "remove_item"}
		}
		item, err := repo.GetItem(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item.CommandID != cmd.ID {
			return &NotFoundError{Entity: "command_item", ID: req.ItemID}
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		return l.refreshTotal(ctx, repo, &cmd, rate(req.ServiceChargeRate, cmd))
	})
	if err != nil {
		return models.Command{}, err
	}

	l.Logger.WithFields(logrus.Fields{
		"command_id": cmd.ID,
		"item_id":    req.ItemID,
		"total":      cmd.Total.StringFixed(2),
	}).Info("item removed")
	l.emit(ctx, commandEvent(EventItemRemoved, cmd))
	return cmd, nil
}

// refreshTotal re-derives the cached total from the stored items and writes
// it back while the command is still open.
func (l *CommandLifecycle) refreshTotal(ctx context.Context, repo CommandRepository, cmd *models.Command, r decimal.Decimal) error {
	items, err := repo.ListItems(ctx, cmd.ID)
	if err != nil {
		return err
	}
	cmd.Total = l.Billing.ComputeTotal(l.Billing.ComputeSubtotal(items), r)
	cmd.ServiceChargeRate = r
	cmd.UpdatedAt = l.now()
	return l.save(ctx, repo, cmd, models.CommandOpen, "update_total")
}

func (l *CommandLifecycle) save(ctx context.Context, repo CommandRepository, cmd *models.Command, expected models.CommandStatus, event string) error {
	err := repo.SaveCommand(ctx, cmd, expected)
	if errors.Is(err, ErrConflict) {
		current, gerr := repo.GetCommand(ctx, cmd.ID)
		if gerr != nil {
			return gerr
		}
		return &InvalidTransitionError{CommandID: cmd.ID, From: current.Status, Event: event, Reason: "command changed concurrently"}
	}
	return err
}

// CloseCommand freezes the item list, finalizes the total and frees the
// table. Closing an empty command is allowed.
func (l *CommandLifecycle) CloseCommand(ctx context.Context, req CloseCommandRequest) (models.Command, error) {
	cmd, err := l.Repo.GetCommand(ctx, req.CommandID)
	if err != nil {
		return models.Command{}, err
	}
	if err := l.Auth.Authorize(ctx, req.StaffID, ActionCloseCommand, cmd.RestaurantID); err != nil {
		return models.Command{}, err
	}

	var rec Reconciliation
	var released bool
	err = l.Repo.WithinTx(ctx, func(repo CommandRepository) error {
		cmd, err = repo.GetCommand(ctx, req.CommandID)
		if err != nil {
			return err
		}
		if cmd.Status != models.CommandOpen {
			return &InvalidTransitionError{CommandID: cmd.ID, From: cmd.Status, Event: "close_command"}
		}
		items, err := repo.ListItems(ctx, cmd.ID)
		if err != nil {
			return err
		}
		stored := cmd.Total
		r := rate(req.ServiceChargeRate, cmd)
		rec = l.Billing.Finalize(&stored, items, r)

		now := l.now()
		staffID := req.StaffID
		cmd.Total = rec.Total
		cmd.ServiceChargeRate = r
		cmd.Status = models.CommandClosed
		cmd.ClosedAt = &now
		cmd.ClosedBy = &staffID
		cmd.UpdatedAt = now
		if err := l.save(ctx, repo, &cmd, models.CommandOpen, "close_command"); err != nil {
			return err
		}

		released, err = l.releaseTable(ctx, repo, cmd.TableID)
		return err
	})
	if err != nil {
		return models.Command{}, err
	}

	l.Logger.WithFields(logrus.Fields{
		"command_id":       cmd.ID,
		"table_id":         cmd.TableID,
		"total":            cmd.Total.StringFixed(2),
		"total_recomputed": rec.WasRecomputed,
	}).Info("command closed")
	if released {
		l.emit(ctx, Event{Type: EventTableUpdated, RestaurantID: cmd.RestaurantID, TableID: cmd.TableID, Status: string(models.TableAvailable)})
	}
	l.emit(ctx, commandEvent(EventCommandClosed, cmd))
	return cmd, nil
}

// releaseTable frees the command's table. A table that was reset by hand
// is left alone; one lost race is retried against the fresh status.
func (l *CommandLifecycle) releaseTable(ctx context.Context, repo CommandRepository, tableID uint) (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		table, err := repo.GetTable(ctx, tableID)
		if err != nil {
			return false, err
		}
		eff, err := Release(table)
		if err != nil {
			return false, err
		}
		if !eff.Changed {
			l.Logger.WithFields(logrus.Fields{
				"table_id": tableID,
				"status":   table.Status,
			}).Warn("table was not occupied when its command closed; leaving it as is")
			return false, nil
		}
		err = applyEffect(ctx, repo, eff)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, ErrConflict) {
			return false, err
		}
	}
	return false, l.tableConflict(ctx, repo, tableID, "release")
}

// MarkPaid records settlement of a closed command.
func (l *CommandLifecycle) MarkPaid(ctx context.Context, req MarkPaidRequest) (models.Command, error) {
	cmd, err := l.Repo.GetCommand(ctx, req.CommandID)
	if err != nil {
		return models.Command{}, err
	}
	if err := l.Auth.Authorize(ctx, req.StaffID, ActionMarkPaid, cmd.RestaurantID); err != nil {
		return models.Command{}, err
	}

	err = l.Repo.WithinTx(ctx, func(repo CommandRepository) error {
		cmd, err = repo.GetCommand(ctx, req.CommandID)
		if err != nil {
			return err
		}
		switch cmd.Status {
		case models.CommandClosed:
		case models.CommandPaid:
			return &InvalidTransitionError{CommandID: cmd.ID, From: cmd.Status, Event: "mark_paid", Reason: "already paid"}
		default:
			return &InvalidTransitionError{CommandID: cmd.ID, From: cmd.Status, Event: "mark_paid", Reason: "command must be closed first"}
		}

		method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
		if !PaymentMethods[method] {
			return &ValidationError{Field: "payment_method", Reason: fmt.Sprintf("unsupported method %q", req.PaymentMethod)}
		}
		paid, err := ParseMoney("paid_amount", req.PaidAmount)
		if err != nil {
			return err
		}
		if paid.LessThan(cmd.Total) {
			return &ValidationError{Field: "paid_amount", Reason: fmt.Sprintf("%s is less than the total %s", paid.StringFixed(2), cmd.Total.StringFixed(2))}
		}

		now := l.now()
		staffID := req.StaffID
		change := paid.Sub(cmd.Total)
		cmd.Status = models.CommandPaid
		cmd.PaidAt = &now
		cmd.PaidBy = &staffID
		cmd.PaymentMethod = &method
		cmd.PaidAmount = &paid
		cmd.ChangeDue = &change
		cmd.UpdatedAt = now
		return l.save(ctx, repo, &cmd, models.CommandClosed, "mark_paid")
	})
	if err != nil {
		return models.Command{}, err
	}

	l.Logger.WithFields(logrus.Fields{
		"command_id":     cmd.ID,
		"payment_method": *cmd.PaymentMethod,
		"paid_amount":    cmd.PaidAmount.StringFixed(2),
	}).Info("command paid")
	l.emit(ctx, commandEvent(EventCommandPaid, cmd))
	return cmd, nil
}

// DeleteCommand always fails: commands are an append-only audit trail.
func (l *CommandLifecycle) DeleteCommand(ctx context.Context, commandID, staffID uint) error {
	cmd, err := l.Repo.GetCommand(ctx, commandID)
	if err != nil {
		return err
	}
	if err := l.Auth.Authorize(ctx, staffID, ActionDeleteCommand, cmd.RestaurantID); err != nil {
		return err
	}
	return &InvalidTransitionError{CommandID: cmd.ID, From: cmd.Status, Event: "delete_command", Reason: "commands are never deleted"}
}

// GetCommandView loads a command with its items and derived totals. It
// never writes; TotalRecomputed flags a cached total that did not match the
// items. preview, when set, prices Bill at that rate instead. staffID must
// work at the command's restaurant.
func (l *CommandLifecycle) GetCommandView(ctx context.Context, commandID, staffID uint, preview *decimal.Decimal) (CommandView, error) {
	cmd, err := l.Repo.GetCommand(ctx, commandID)
	if err != nil {
		return CommandView{}, err
	}
	if err := l.Auth.Authorize(ctx, staffID, ActionView, cmd.RestaurantID); err != nil {
		return CommandView{}, err
	}
	items, err := l.Repo.ListItems(ctx, cmd.ID)
	if err != nil {
		return CommandView{}, err
	}
	// Totals of closed commands were finalized at close and are kept as is.
	stored := cmd.Total
	var reconciled Reconciliation
	if cmd.Status == models.CommandOpen {
		reconciled = l.Billing.Finalize(&stored, items, cmd.ServiceChargeRate)
	} else {
		reconciled = l.Billing.Reconcile(&stored, items, cmd.ServiceChargeRate)
	}
	cmd.Total = reconciled.Total
	cmd.Items = nil
	return CommandView{
		Command:         cmd,
		Items:           items,
		Bill:            l.Billing.Summarize(items, rate(preview, cmd)),
		TotalRecomputed: reconciled.WasRecomputed,
	}, nil
}

func (l *CommandLifecycle) emit(ctx context.Context, ev Event) {
	if l.Notifier == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = l.now()
	}
	if err := l.Notifier.Notify(ctx, ev); err != nil {
		l.Logger.WithError(err).WithField("event", ev.Type).Warn("event delivery failed")
	}
}

func commandEvent(t EventType, cmd models.Command) Event {
	total := cmd.Total
	return Event{
		Type:         t,
		RestaurantID: cmd.RestaurantID,
		CommandID:    cmd.ID,
		TableID:      cmd.TableID,
		Status:       string(cmd.Status),
		Total:        &total,
	}
}

func optionalNotes(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
