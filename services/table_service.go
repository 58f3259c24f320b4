package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-commands/models"
)

// TableService applies TableRegistry transitions that are not driven by a
// command: reservations, plus plain reads for the API.
type TableService struct {
	Repo     CommandRepository
	Auth     Authorizer
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewTableService(repo CommandRepository, auth Authorizer) *TableService {
	return &TableService{Repo: repo, Auth: auth, Logger: logrus.StandardLogger()}
}

// GetTable reads one table on behalf of staffID, who must work at its
// restaurant.
func (s *TableService) GetTable(ctx context.Context, id, staffID uint) (models.Table, error) {
	table, err := s.Repo.GetTable(ctx, id)
	if err != nil {
		return models.Table{}, err
	}
	if err := s.Auth.Authorize(ctx, staffID, ActionView, table.RestaurantID); err != nil {
		return models.Table{}, err
	}
	return table, nil
}

func (s *TableService) ListTables(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	return s.Repo.ListTables(ctx, restaurantID)
}

func (s *TableService) ReserveTable(ctx context.Context, tableID, staffID uint) (models.Table, error) {
	return s.transition(ctx, tableID, staffID, "reserve", Reserve)
}

func (s *TableService) UnreserveTable(ctx context.Context, tableID, staffID uint) (models.Table, error) {
	return s.transition(ctx, tableID, staffID, "unreserve", Unreserve)
}

func (s *TableService) transition(ctx context.Context, tableID, staffID uint, op string, fn func(models.Table) (TableEffect, error)) (models.Table, error) {
	table, err := s.Repo.GetTable(ctx, tableID)
	if err != nil {
		return models.Table{}, err
	}
	if err := s.Auth.Authorize(ctx, staffID, ActionReserveTable, table.RestaurantID); err != nil {
		return models.Table{}, err
	}
	eff, err := fn(table)
	if err != nil {
		return models.Table{}, err
	}
	if err := applyEffect(ctx, s.Repo, eff); err != nil {
		if errors.Is(err, ErrConflict) {
			current, gerr := s.Repo.GetTable(ctx, tableID)
			if gerr != nil {
				return models.Table{}, gerr
			}
			return models.Table{}, &InvalidTableStateError{TableID: tableID, Status: current.Status, Op: op, Reason: "table changed concurrently"}
		}
		return models.Table{}, err
	}
	table.Status = eff.To

	s.Logger.WithFields(logrus.Fields{
		"table_id": table.ID,
		"from":     eff.From,
		"to":       eff.To,
		"staff_id": staffID,
	}).Info("table " + op)
	if s.Notifier != nil {
		ev := Event{Type: EventTableUpdated, RestaurantID: table.RestaurantID, TableID: table.ID, Status: string(table.Status)}
		if err := s.Notifier.Notify(ctx, ev); err != nil {
			s.Logger.WithError(err).Warn("event delivery failed")
		}
	}
	return table, nil
}
