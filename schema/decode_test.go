package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-commands/models"
)

func TestDecodeCommandMixedNaming(t *testing.T) {
	opened := time.Date(2024, 5, 2, 19, 0, 0, 0, time.UTC)
	raw := Record{
		"id":             int64(10),
		"restaurantId":   int64(1),
		"table_id":       int64(4),
		"staffId":        int64(2),
		"status":         "closed",
		"totalAmount":    "58.00",
		"created_at":     opened,
		"closedAt":       "2024-05-02T20:15:00Z",
		"payment_method": nil,
	}

	cmd, err := DecodeCommand(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(10), cmd.ID)
	assert.Equal(t, uint(1), cmd.RestaurantID)
	assert.Equal(t, uint(4), cmd.TableID)
	assert.Equal(t, uint(2), cmd.OpenedBy)
	assert.Equal(t, models.CommandClosed, cmd.Status)
	assert.Equal(t, "58", cmd.Total.String())
	assert.Equal(t, opened, cmd.CreatedAt)
	require.NotNil(t, cmd.ClosedAt)
	assert.Equal(t, 20, cmd.ClosedAt.Hour())
	assert.Nil(t, cmd.PaymentMethod)
	assert.Nil(t, cmd.PaidAt)
}

func TestDecodeCommandMissingTable(t *testing.T) {
	raw := Record{"id": 1, "restaurant_id": 1, "opened_by": 1, "status": "open", "created_at": time.Now()}
	_, err := DecodeCommand(raw)

	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "tableId", mf.Field)
	assert.Equal(t, "table_id", mf.FirstAlias)
}

func TestDecodeCommandUnknownStatus(t *testing.T) {
	raw := Record{"id": 1, "restaurant_id": 1, "table_id": 1, "opened_by": 1, "status": "pending_payment", "created_at": time.Now()}
	_, err := DecodeCommand(raw)

	var fte *FieldTypeError
	assert.True(t, errors.As(err, &fte))
}

func TestDecodeTable(t *testing.T) {
	tbl, err := DecodeTable(Record{"ID": 4, "restaurant": "1", "tableNumber": int64(4), "seats": 4, "status": "available"})
	require.NoError(t, err)
	assert.Equal(t, models.Table{ID: 4, RestaurantID: 1, Number: 4, Capacity: 4, Status: models.TableAvailable}, tbl)

	_, err = DecodeTable(Record{"id": 4, "restaurant_id": 1, "number": 4, "status": "dirty"})
	assert.Error(t, err)
}

func TestDecodeCommandItemLegacyColumns(t *testing.T) {
	it, err := DecodeCommandItem(Record{
		"id":       int64(3),
		"order_id": int64(10),
		"menu_id":  int64(8),
		"qty":      int64(2),
		"price":    25.0,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(10), it.CommandID)
	assert.Equal(t, uint(8), it.ProductID)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, "50", it.LineTotal().String())
	assert.Nil(t, it.Notes)
}

func TestDecodeProductAndStaff(t *testing.T) {
	p, err := DecodeProduct(Record{"id": 1, "restaurantId": 2, "name": "Soda", "unit_price": "8.00", "category_name": "drinks"})
	require.NoError(t, err)
	assert.Equal(t, "drinks", p.Category)
	assert.Equal(t, "8", p.Price.String())

	_, err = DecodeProduct(Record{"id": 1, "restaurantId": 2, "name": "Soda"})
	var mf *MissingFieldError
	assert.True(t, errors.As(err, &mf))

	s, err := DecodeStaff(Record{"id": 9, "role": "super_admin", "status": "active"})
	require.NoError(t, err)
	assert.Nil(t, s.RestaurantID)
	assert.Equal(t, models.RoleSuperAdmin, s.Role)
}

// Records scanned through Model(&models.X{}) carry the model's field types.
func TestDecodeModelTypedValues(t *testing.T) {
	rid := uint(1)
	tbl, err := DecodeTable(Record{
		"id":            uint(4),
		"restaurant_id": uint(1),
		"number":        4,
		"capacity":      6,
		"status":        models.TableAvailable,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, tbl.Status)
	assert.Equal(t, uint(1), tbl.RestaurantID)

	s, err := DecodeStaff(Record{
		"id":            uint(3),
		"restaurant_id": &rid,
		"name":          "Ana",
		"role":          models.RoleWaiter,
		"status":        models.StaffActive,
	})
	require.NoError(t, err)
	require.NotNil(t, s.RestaurantID)
	assert.Equal(t, uint(1), *s.RestaurantID)
	assert.Equal(t, models.RoleWaiter, s.Role)

	var noRestaurant *uint
	s, err = DecodeStaff(Record{"id": uint(9), "restaurant_id": noRestaurant, "role": models.RoleSuperAdmin, "status": models.StaffActive})
	require.NoError(t, err)
	assert.Nil(t, s.RestaurantID)
}
