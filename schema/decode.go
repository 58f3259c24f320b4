package schema

import (
	"github.com/yeremiapane/restaurant-commands/models"
)

// decoder accumulates the first coercion error so the Decode functions stay
// readable.
type decoder struct {
	rec Record
	err error
}

func (d *decoder) id(field string) uint {
	if d.err != nil {
		return 0
	}
	v, err := d.rec.Uint(field)
	d.err = err
	return v
}

func (d *decoder) optID(field string) *uint {
	if d.err != nil {
		return nil
	}
	v, err := d.rec.OptUint(field)
	d.err = err
	return v
}

func (d *decoder) num(field string) int {
	if d.err != nil || !d.rec.Has(field) {
		return 0
	}
	v, err := d.rec.Int(field)
	d.err = err
	return v
}

func (d *decoder) str(field string) string {
	if d.err != nil {
		return ""
	}
	v, err := d.rec.String(field)
	d.err = err
	return v
}

func (d *decoder) optStr(field string) *string {
	if d.err != nil {
		return nil
	}
	v, err := d.rec.OptString(field)
	d.err = err
	return v
}

func normalize(raw Record, fields FieldSpec) (*decoder, error) {
	rec, err := Resolve(raw, fields)
	if err != nil {
		return nil, err
	}
	return &decoder{rec: rec}, nil
}

func DecodeTable(raw Record) (models.Table, error) {
	d, err := normalize(raw, TableFields)
	if err != nil {
		return models.Table{}, err
	}
	t := models.Table{
		ID:           d.id("id"),
		RestaurantID: d.id("restaurantId"),
		Number:       d.num("number"),
		Capacity:     d.num("capacity"),
		Status:       models.TableStatus(d.str("status")),
	}
	if d.err != nil {
		return models.Table{}, d.err
	}
	if !t.Status.Valid() {
		return models.Table{}, &FieldTypeError{Field: "status", Want: "table status", Value: string(t.Status)}
	}
	if ts, err := d.rec.OptTime("createdAt"); err == nil && ts != nil {
		t.CreatedAt = *ts
	}
	if ts, err := d.rec.OptTime("updatedAt"); err == nil && ts != nil {
		t.UpdatedAt = *ts
	}
	return t, nil
}

func DecodeCommand(raw Record) (models.Command, error) {
	d, err := normalize(raw, CommandFields)
	if err != nil {
		return models.Command{}, err
	}
	c := models.Command{
		ID:            d.id("id"),
		RestaurantID:  d.id("restaurantId"),
		TableID:       d.id("tableId"),
		OpenedBy:      d.id("openedBy"),
		ClosedBy:      d.optID("closedBy"),
		PaidBy:        d.optID("paidBy"),
		Status:        models.CommandStatus(d.str("status")),
		PaymentMethod: d.optStr("paymentMethod"),
	}
	if d.err != nil {
		return models.Command{}, d.err
	}
	switch c.Status {
	case models.CommandOpen, models.CommandClosed, models.CommandPaid:
	default:
		return models.Command{}, &FieldTypeError{Field: "status", Want: "command status", Value: string(c.Status)}
	}
	// A missing or unreadable total is left zero; billing reconciliation
	// recomputes it from the items.
	if total, err := d.rec.OptDecimal("total"); err == nil && total != nil {
		c.Total = *total
	}
	if rate, err := d.rec.OptDecimal("serviceChargeRate"); err != nil {
		return models.Command{}, err
	} else if rate != nil {
		c.ServiceChargeRate = *rate
	}
	if c.PaidAmount, err = d.rec.OptDecimal("paidAmount"); err != nil {
		return models.Command{}, err
	}
	if c.ChangeDue, err = d.rec.OptDecimal("changeDue"); err != nil {
		return models.Command{}, err
	}
	if c.CreatedAt, err = d.rec.Time("createdAt"); err != nil {
		return models.Command{}, err
	}
	if c.ClosedAt, err = d.rec.OptTime("closedAt"); err != nil {
		return models.Command{}, err
	}
	if c.PaidAt, err = d.rec.OptTime("paidAt"); err != nil {
		return models.Command{}, err
	}
	if ts, err := d.rec.OptTime("updatedAt"); err == nil && ts != nil {
		c.UpdatedAt = *ts
	}
	return c, nil
}

func DecodeCommandItem(raw Record) (models.CommandItem, error) {
	d, err := normalize(raw, CommandItemFields)
	if err != nil {
		return models.CommandItem{}, err
	}
	it := models.CommandItem{
		ID:        d.id("id"),
		CommandID: d.id("commandId"),
		ProductID: d.id("productId"),
		Quantity:  d.num("quantity"),
		Notes:     d.optStr("notes"),
	}
	if d.err != nil {
		return models.CommandItem{}, d.err
	}
	if it.UnitPrice, err = d.rec.Decimal("unitPrice"); err != nil {
		return models.CommandItem{}, err
	}
	if ts, err := d.rec.OptTime("createdAt"); err == nil && ts != nil {
		it.CreatedAt = *ts
	}
	return it, nil
}

func DecodeProduct(raw Record) (models.Product, error) {
	d, err := normalize(raw, ProductFields)
	if err != nil {
		return models.Product{}, err
	}
	p := models.Product{
		ID:           d.id("id"),
		RestaurantID: d.id("restaurantId"),
		Name:         d.str("name"),
		Description:  d.str("description"),
		Category:     d.str("category"),
	}
	if d.err != nil {
		return models.Product{}, d.err
	}
	if p.Price, err = d.rec.Decimal("price"); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func DecodeStaff(raw Record) (models.StaffUser, error) {
	d, err := normalize(raw, StaffFields)
	if err != nil {
		return models.StaffUser{}, err
	}
	s := models.StaffUser{
		ID:           d.id("id"),
		RestaurantID: d.optID("restaurantId"),
		Name:         d.str("name"),
		Email:        d.str("email"),
		Role:         models.StaffRole(d.str("role")),
		Status:       models.StaffStatus(d.str("status")),
	}
	if d.err != nil {
		return models.StaffUser{}, d.err
	}
	return s, nil
}
