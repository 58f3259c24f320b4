package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-commands/models"
	"github.com/yeremiapane/restaurant-commands/repository"
	"github.com/yeremiapane/restaurant-commands/services"
	"github.com/yeremiapane/restaurant-commands/testutil"
)

func newTableService(t *testing.T) (*services.TableService, *testutil.Fixture, *recorder) {
	t.Helper()
	f := testutil.NewSeededDB(t)
	repo := repository.NewGormRepository(f.DB)
	logger, _ := test.NewNullLogger()
	events := &recorder{}

	s := services.NewTableService(repo, services.NewRoleAuthorizer(repo))
	s.Logger = logger
	s.Notifier = events
	return s, f, events
}

func TestReserveAndUnreserve(t *testing.T) {
	s, f, events := newTableService(t)
	ctx := context.Background()

	table, err := s.ReserveTable(ctx, f.Table4.ID, f.Waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableReserved, table.Status)

	_, err = s.ReserveTable(ctx, f.Table4.ID, f.Waiter.ID)
	var tse *services.InvalidTableStateError
	require.True(t, errors.As(err, &tse))

	table, err = s.UnreserveTable(ctx, f.Table4.ID, f.Waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, table.Status)

	stored, err := s.GetTable(ctx, f.Table4.ID, f.Waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, stored.Status)
	assert.Equal(t, []services.EventType{services.EventTableUpdated, services.EventTableUpdated}, events.types())
}

func TestReserveForeignTableIsForbidden(t *testing.T) {
	s, f, _ := newTableService(t)
	_, err := s.ReserveTable(context.Background(), f.OtherTable.ID, f.Waiter.ID)
	var fe *services.ForbiddenError
	assert.True(t, errors.As(err, &fe))
}

func TestGetTableIsScopedToRestaurant(t *testing.T) {
	s, f, _ := newTableService(t)
	ctx := context.Background()

	_, err := s.GetTable(ctx, f.OtherTable.ID, f.Waiter.ID)
	var fe *services.ForbiddenError
	assert.True(t, errors.As(err, &fe))

	table, err := s.GetTable(ctx, f.OtherTable.ID, f.SuperAdmin.ID)
	require.NoError(t, err)
	assert.Equal(t, f.OtherRestaurant.ID, table.RestaurantID)
}

func TestListTablesByRestaurant(t *testing.T) {
	s, f, _ := newTableService(t)
	ctx := context.Background()

	mine, err := s.ListTables(ctx, f.Restaurant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, 4, mine[0].Number)

	all, err := s.ListTables(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
