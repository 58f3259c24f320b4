package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpec = FieldSpec{
	Entity: "thing",
	Groups: []AliasGroup{
		{Canonical: "restaurantId", Aliases: []string{"restaurant_id", "restaurantId", "restaurant"}, Required: true},
		{Canonical: "closedAt", Aliases: []string{"closed_at", "closedAt"}},
	},
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  Record
		want Record
	}{
		{
			name: "snake case",
			raw:  Record{"restaurant_id": 7, "closed_at": "x"},
			want: Record{"restaurantId": 7, "closedAt": "x"},
		},
		{
			name: "camel case",
			raw:  Record{"restaurantId": 7, "closedAt": "x"},
			want: Record{"restaurantId": 7, "closedAt": "x"},
		},
		{
			name: "first listed alias wins when both are set",
			raw:  Record{"restaurant_id": 1, "restaurantId": 2},
			want: Record{"restaurantId": 1},
		},
		{
			name: "nil alias falls through to the next one",
			raw:  Record{"restaurant_id": nil, "restaurant": 3},
			want: Record{"restaurantId": 3},
		},
		{
			name: "optional field absent",
			raw:  Record{"restaurant": 4, "unrelated": true},
			want: Record{"restaurantId": 4},
		},
		{
			name: "typed nil pointer counts as absent",
			raw:  Record{"restaurant_id": 5, "closed_at": (*time.Time)(nil)},
			want: Record{"restaurantId": 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.raw, testSpec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveMissingRequired(t *testing.T) {
	raw := Record{"restaurant_id": nil, "closedAt": "x"}
	_, err := Resolve(raw, testSpec)

	var mf *MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "restaurantId", mf.Field)
	assert.Equal(t, "restaurant_id", mf.FirstAlias)
	assert.Equal(t, []string{"restaurant_id", "restaurantId", "restaurant"}, mf.Checked)
	assert.Contains(t, err.Error(), "restaurant_id, restaurantId, restaurant")
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	raw := Record{"restaurantId": 9, "closed_at": "y"}
	_, err := Resolve(raw, testSpec)
	require.NoError(t, err)
	assert.Equal(t, Record{"restaurantId": 9, "closed_at": "y"}, raw)
}

func TestRecordCoercion(t *testing.T) {
	rec := Record{
		"id":       int64(12),
		"idFloat":  float64(3),
		"idString": "44",
		"frac":     2.5,
		"price":    []byte("25.00"),
		"priceF":   8.1,
		"when":     "2024-03-01 12:30:00",
		"whenTime": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"name":     []byte("Burger"),
	}

	id, err := rec.Uint("id")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	id, err = rec.Uint("idFloat")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	id, err = rec.Uint("idString")
	require.NoError(t, err)
	assert.Equal(t, uint(44), id)

	_, err = rec.Uint("frac")
	var fte *FieldTypeError
	assert.True(t, errors.As(err, &fte))

	price, err := rec.Decimal("price")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("25")))

	priceF, err := rec.Decimal("priceF")
	require.NoError(t, err)
	assert.Equal(t, "8.1", priceF.String())

	when, err := rec.Time("when")
	require.NoError(t, err)
	assert.Equal(t, 12, when.Hour())

	_, err = rec.Time("whenTime")
	assert.NoError(t, err)

	name, err := rec.String("name")
	require.NoError(t, err)
	assert.Equal(t, "Burger", name)

	missing, err := rec.OptTime("closedAt")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = rec.Uint("nope")
	var mf *MissingFieldError
	assert.True(t, errors.As(err, &mf))
}

type label string

func TestRecordCoercionUnwrapsTypedValues(t *testing.T) {
	id := uint(7)
	note := "no onions"
	price := decimal.RequireFromString("25.00")
	when := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	rec := Record{
		"id":     &id,
		"small":  uint8(3),
		"status": label("open"),
		"notes":  &note,
		"price":  &price,
		"priceU": uint(25),
		"when":   &when,
	}

	n, err := rec.Uint("id")
	require.NoError(t, err)
	assert.Equal(t, uint(7), n)

	small, err := rec.Int("small")
	require.NoError(t, err)
	assert.Equal(t, 3, small)

	status, err := rec.String("status")
	require.NoError(t, err)
	assert.Equal(t, "open", status)

	notes, err := rec.OptString("notes")
	require.NoError(t, err)
	assert.Equal(t, "no onions", *notes)

	p, err := rec.Decimal("price")
	require.NoError(t, err)
	assert.True(t, p.Equal(price))

	p, err = rec.Decimal("priceU")
	require.NoError(t, err)
	assert.Equal(t, "25", p.String())

	ts, err := rec.Time("when")
	require.NoError(t, err)
	assert.Equal(t, 19, ts.Hour())

	var nilID *uint
	_, err = Record{"id": nilID}.Uint("id")
	var fte *FieldTypeError
	assert.True(t, errors.As(err, &fte))
}
