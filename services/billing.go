package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-commands/models"
)

var one = decimal.NewFromInt(1)

// Bill is the derived money view of a command.
type Bill struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate"`
	ServiceCharge     decimal.Decimal `json:"service_charge"`
	Total             decimal.Decimal `json:"total"`
}

// Reconciliation is the outcome of checking a cached total against the
// items. WasRecomputed tells the caller the stored value was not trusted
// and the correction may be persisted.
type Reconciliation struct {
	Total         decimal.Decimal
	WasRecomputed bool
}

// BillingCalculator derives command totals. It holds no state; the zero
// value is ready to use.
type BillingCalculator struct{}

// ComputeSubtotal is the exact sum of unit price times quantity.
func (BillingCalculator) ComputeSubtotal(items []models.CommandItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// ComputeTotal applies the service charge rate (0.10 for ten percent) and
// rounds half away from zero to cents.
func (BillingCalculator) ComputeTotal(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(one.Add(rate)).Round(2)
}

// Reconcile trusts a stored total that is present and positive, and
// otherwise recomputes it from items.
func (b BillingCalculator) Reconcile(stored *decimal.Decimal, items []models.CommandItem, rate decimal.Decimal) Reconciliation {
	if stored != nil && stored.IsPositive() {
		return Reconciliation{Total: *stored}
	}
	return Reconciliation{
		Total:         b.ComputeTotal(b.ComputeSubtotal(items), rate),
		WasRecomputed: true,
	}
}

// Finalize is Reconcile followed by a check against the items: a stored total
// that is positive but no longer matches the items at rate is replaced too.
func (b BillingCalculator) Finalize(stored *decimal.Decimal, items []models.CommandItem, rate decimal.Decimal) Reconciliation {
	rec := b.Reconcile(stored, items, rate)
	derived := b.ComputeTotal(b.ComputeSubtotal(items), rate)
	if !rec.Total.Equal(derived) {
		return Reconciliation{Total: derived, WasRecomputed: true}
	}
	return rec
}

func (b BillingCalculator) Summarize(items []models.CommandItem, rate decimal.Decimal) Bill {
	subtotal := b.ComputeSubtotal(items)
	total := b.ComputeTotal(subtotal, rate)
	return Bill{Subtotal: subtotal, ServiceChargeRate: rate, ServiceCharge: total.Sub(subtotal), Total: total}
}

// ParseServiceChargeRate reads a rate such as "0.10". Empty input yields
// fallback.
func ParseServiceChargeRate(s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "service_charge_rate", Reason: "not a decimal number"}
	}
	if rate.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "service_charge_rate", Reason: "must not be negative"}
	}
	return rate, nil
}

// ParseMoney reads a non-negative decimal amount with at most two places.
func ParseMoney(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: field, Reason: "required"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: "not a decimal number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must not be negative"}
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, &ValidationError{Field: field, Reason: "at most 2 decimal places"}
	}
	return d, nil
}
