package services

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-commands/models"
)

func item(price string, qty int) models.CommandItem {
	return models.CommandItem{UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestComputeSubtotalIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var b BillingCalculator

	for n := 0; n < 1000; n++ {
		var items []models.CommandItem
		var cents int64
		for i := rng.Intn(12); i > 0; i-- {
			price := rng.Int63n(100000)
			qty := rng.Intn(20) + 1
			cents += price * int64(qty)
			items = append(items, models.CommandItem{UnitPrice: decimal.New(price, -2), Quantity: qty})
		}
		got := b.ComputeSubtotal(items)
		require.True(t, got.Equal(decimal.New(cents, -2)), "set %d: got %s want %d cents", n, got, cents)
	}
}

func TestComputeTotal(t *testing.T) {
	var b BillingCalculator
	tests := []struct {
		subtotal string
		rate     string
		want     string
	}{
		{subtotal: "58.00", rate: "0", want: "58.00"},
		{subtotal: "58.00", rate: "0.10", want: "63.80"},
		{subtotal: "0.05", rate: "0.10", want: "0.06"},
		{subtotal: "10.01", rate: "0.125", want: "11.26"},
		{subtotal: "0", rate: "0.10", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.subtotal+"@"+tt.rate, func(t *testing.T) {
			got := b.ComputeTotal(decimal.RequireFromString(tt.subtotal), decimal.RequireFromString(tt.rate))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestReconcile(t *testing.T) {
	var b BillingCalculator
	items := []models.CommandItem{item("25.00", 2), item("8.00", 1)}
	rate := decimal.Zero

	stored := decimal.RequireFromString("60.00")
	rec := b.Reconcile(&stored, items, rate)
	assert.False(t, rec.WasRecomputed)
	assert.True(t, rec.Total.Equal(stored))

	for _, bad := range []*decimal.Decimal{nil, ptr(decimal.Zero), ptr(decimal.RequireFromString("-1"))} {
		rec := b.Reconcile(bad, items, rate)
		assert.True(t, rec.WasRecomputed)
		assert.True(t, rec.Total.Equal(decimal.RequireFromString("58.00")))
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	var b BillingCalculator
	rate := decimal.RequireFromString("0.10")
	items := []models.CommandItem{item("25.00", 2), item("8.00", 1)}

	for _, stored := range []*decimal.Decimal{nil, ptr(decimal.Zero), ptr(decimal.RequireFromString("63.80")), ptr(decimal.RequireFromString("70.00"))} {
		first := b.Reconcile(stored, items, rate)
		second := b.Reconcile(stored, items, rate)
		assert.True(t, first.Total.Equal(second.Total))
		assert.Equal(t, first.WasRecomputed, second.WasRecomputed)
	}

	// persisting a recomputed total makes the next reconcile trust it
	healed := b.Reconcile(nil, items, rate)
	again := b.Reconcile(&healed.Total, items, rate)
	assert.True(t, again.Total.Equal(healed.Total))
	assert.False(t, again.WasRecomputed)
}

func TestFinalizeReplacesStaleTotals(t *testing.T) {
	var b BillingCalculator
	rate := decimal.Zero
	items := []models.CommandItem{item("25.00", 2), item("8.00", 1)}

	tests := []struct {
		name       string
		stored     *decimal.Decimal
		recomputed bool
	}{
		{"missing", nil, true},
		{"zero", ptr(decimal.Zero), true},
		{"stale positive", ptr(decimal.RequireFromString("50.00")), true},
		{"accurate", ptr(decimal.RequireFromString("58.00")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.Finalize(tt.stored, items, rate)
			assert.True(t, rec.Total.Equal(decimal.RequireFromString("58.00")), "got %s", rec.Total)
			assert.Equal(t, tt.recomputed, rec.WasRecomputed)
		})
	}

	rec := b.Finalize(nil, nil, rate)
	assert.True(t, rec.Total.IsZero())
}

func TestSummarize(t *testing.T) {
	var b BillingCalculator
	bill := b.Summarize([]models.CommandItem{item("25.00", 2), item("8.00", 1)}, decimal.RequireFromString("0.10"))
	assert.True(t, bill.Subtotal.Equal(decimal.RequireFromString("58")))
	assert.True(t, bill.ServiceCharge.Equal(decimal.RequireFromString("5.80")))
	assert.True(t, bill.Total.Equal(decimal.RequireFromString("63.80")))
}

func TestParseServiceChargeRate(t *testing.T) {
	fallback := decimal.RequireFromString("0.05")

	got, err := ParseServiceChargeRate("", fallback)
	require.NoError(t, err)
	assert.True(t, got.Equal(fallback))

	got, err = ParseServiceChargeRate(" 0.10 ", fallback)
	require.NoError(t, err)
	assert.Equal(t, "0.1", got.String())

	for _, bad := range []string{"-0.1", "ten"} {
		_, err := ParseServiceChargeRate(bad, fallback)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), bad)
	}
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
