package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-commands/models"
)

// ErrConflict is returned by conditional repository writes that matched no
// row because the stored state moved on.
var ErrConflict = errors.New("conditional update matched no rows")

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

type InvalidTableStateError struct {
	TableID uint
	Status  models.TableStatus
	Op      string
	Reason  string
}

func (e *InvalidTableStateError) Error() string {
	msg := fmt.Sprintf("table %d: cannot %s while %s", e.TableID, e.Op, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

type InvalidTransitionError struct {
	CommandID uint
	From      models.CommandStatus
	Event     string
	Reason    string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("command %d: %s not allowed from %s", e.CommandID, e.Event, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

type ForbiddenError struct {
	StaffID uint
	Action  Action
	Reason  string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("staff %d may not %s: %s", e.StaffID, e.Action, e.Reason)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func isNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
