package schema

// Alias tables, one per entity. Order inside a group is the resolution order.

var TableFields = FieldSpec{
	Entity: "table",
	Groups: []AliasGroup{
		{Canonical: "id", Aliases: []string{"id", "ID"}, Required: true},
		{Canonical: "restaurantId", Aliases: []string{"restaurant_id", "restaurantId", "restaurant"}, Required: true},
		{Canonical: "number", Aliases: []string{"number", "table_number", "tableNumber"}, Required: true},
		{Canonical: "capacity", Aliases: []string{"capacity", "seats"}},
		{Canonical: "status", Aliases: []string{"status", "table_status", "tableStatus"}, Required: true},
		{Canonical: "createdAt", Aliases: []string{"created_at", "createdAt"}},
		{Canonical: "updatedAt", Aliases: []string{"updated_at", "updatedAt"}},
	},
}

var CommandFields = FieldSpec{
	Entity: "command",
	Groups: []AliasGroup{
		{Canonical: "id", Aliases: []string{"id", "ID"}, Required: true},
		{Canonical: "restaurantId", Aliases: []string{"restaurant_id", "restaurantId", "restaurant"}, Required: true},
		{Canonical: "tableId", Aliases: []string{"table_id", "tableId", "table"}, Required: true},
		{Canonical: "openedBy", Aliases: []string{"opened_by", "openedBy", "staff_id", "staffId", "user_id", "userId"}, Required: true},
		{Canonical: "closedBy", Aliases: []string{"closed_by", "closedBy"}},
		{Canonical: "paidBy", Aliases: []string{"paid_by", "paidBy"}},
		{Canonical: "status", Aliases: []string{"status"}, Required: true},
		{Canonical: "total", Aliases: []string{"total", "total_amount", "totalAmount"}},
		{Canonical: "serviceChargeRate", Aliases: []string{"service_charge_rate", "serviceChargeRate", "service_rate"}},
		{Canonical: "paidAmount", Aliases: []string{"paid_amount", "paidAmount", "amount_paid"}},
		{Canonical: "changeDue", Aliases: []string{"change_due", "changeDue", "change"}},
		{Canonical: "paymentMethod", Aliases: []string{"payment_method", "paymentMethod"}},
		{Canonical: "createdAt", Aliases: []string{"created_at", "createdAt", "opened_at", "openedAt"}, Required: true},
		{Canonical: "closedAt", Aliases: []string{"closed_at", "closedAt"}},
		{Canonical: "paidAt", Aliases: []string{"paid_at", "paidAt"}},
		{Canonical: "updatedAt", Aliases: []string{"updated_at", "updatedAt"}},
	},
}

var CommandItemFields = FieldSpec{
	Entity: "command_item",
	Groups: []AliasGroup{
		{Canonical: "id", Aliases: []string{"id", "ID"}, Required: true},
		{Canonical: "commandId", Aliases: []string{"command_id", "commandId", "order_id", "orderId"}, Required: true},
		{Canonical: "productId", Aliases: []string{"product_id", "productId", "menu_id", "menuId"}, Required: true},
		{Canonical: "quantity", Aliases: []string{"quantity", "qty"}, Required: true},
		{Canonical: "unitPrice", Aliases: []string{"unit_price", "unitPrice", "price"}, Required: true},
		{Canonical: "notes", Aliases: []string{"notes", "note", "observation"}},
		{Canonical: "createdAt", Aliases: []string{"created_at", "createdAt"}},
	},
}

var ProductFields = FieldSpec{
	Entity: "product",
	Groups: []AliasGroup{
		{Canonical: "id", Aliases: []string{"id", "ID"}, Required: true},
		{Canonical: "restaurantId", Aliases: []string{"restaurant_id", "restaurantId", "restaurant"}, Required: true},
		{Canonical: "name", Aliases: []string{"name", "title"}, Required: true},
		{Canonical: "description", Aliases: []string{"description"}},
		{Canonical: "price", Aliases: []string{"price", "unit_price", "unitPrice"}, Required: true},
		{Canonical: "category", Aliases: []string{"category", "category_name", "categoryName"}},
	},
}

var StaffFields = FieldSpec{
	Entity: "staff_user",
	Groups: []AliasGroup{
		{Canonical: "id", Aliases: []string{"id", "ID"}, Required: true},
		{Canonical: "restaurantId", Aliases: []string{"restaurant_id", "restaurantId", "restaurant"}},
		{Canonical: "name", Aliases: []string{"name", "full_name", "fullName"}},
		{Canonical: "email", Aliases: []string{"email"}},
		{Canonical: "role", Aliases: []string{"role", "user_role", "userRole"}, Required: true},
		{Canonical: "status", Aliases: []string{"status", "user_status", "userStatus"}, Required: true},
	},
}
