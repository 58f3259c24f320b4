package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/restaurant-commands/models"
)

type Action string

const (
	ActionOpenCommand   Action = "open_command"
	ActionAddItem       Action = "add_item"
	ActionRemoveItem    Action = "remove_item"
	ActionCloseCommand  Action = "close_command"
	ActionMarkPaid      Action = "mark_paid"
	ActionDeleteCommand Action = "delete_command"
	ActionReserveTable  Action = "reserve_table"
	ActionView          Action = "view"
)

// Authorizer decides whether a staff member may perform action inside a
// restaurant. A denial is a *ForbiddenError.
type Authorizer interface {
	Authorize(ctx context.Context, staffID uint, action Action, restaurantID uint) error
}

var rolePermissions = map[models.StaffRole]map[Action]bool{
	models.RoleSuperAdmin: allActions(),
	models.RoleAdmin:      allActions(),
	models.RoleManager:    allActions(),
	models.RoleWaiter: {
		ActionOpenCommand:  true,
		ActionAddItem:      true,
		ActionCloseCommand: true,
		ActionMarkPaid:     true,
		ActionReserveTable: true,
		ActionView:         true,
	},
}

func allActions() map[Action]bool {
	return map[Action]bool{
		ActionOpenCommand:   true,
		ActionAddItem:       true,
		ActionRemoveItem:    true,
		ActionCloseCommand:  true,
		ActionMarkPaid:      true,
		ActionDeleteCommand: true,
		ActionReserveTable:  true,
		ActionView:          true,
	}
}

// StaffLookup is the slice of the repository the authorizer needs.
type StaffLookup interface {
	GetStaff(ctx context.Context, id uint) (models.StaffUser, error)
}

// RoleAuthorizer checks the staff member's status, tenant and role.
type RoleAuthorizer struct {
	Staff StaffLookup
}

func NewRoleAuthorizer(staff StaffLookup) *RoleAuthorizer {
	return &RoleAuthorizer{Staff: staff}
}

func (a *RoleAuthorizer) Authorize(ctx context.Context, staffID uint, action Action, restaurantID uint) error {
	staff, err := a.Staff.GetStaff(ctx, staffID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return &ForbiddenError{StaffID: staffID, Action: action, Reason: "unknown staff member"}
		}
		return err
	}
	if staff.Status != models.StaffActive {
		return &ForbiddenError{StaffID: staffID, Action: action, Reason: "account is " + string(staff.Status)}
	}
	if staff.Role != models.RoleSuperAdmin {
		if staff.RestaurantID == nil || *staff.RestaurantID != restaurantID {
			return &ForbiddenError{StaffID: staffID, Action: action, Reason: "belongs to another restaurant"}
		}
	}
	if !rolePermissions[staff.Role][action] {
		return &ForbiddenError{StaffID: staffID, Action: action, Reason: "role " + string(staff.Role) + " lacks permission"}
	}
	return nil
}
