package entity

import "github.com/shopspring/decimal"

// ProductView producto con nombres de categoría y proveedor (left outer join).
type ProductView struct {
	ID                  int64           `json:"id"`
	ProductName         string          `json:"product_name"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int64           `json:"quantity"`
	CreatedAt           string          `json:"created_at"`
	CategoryName        string          `json:"category_name"`
	CategoryDescription string          `json:"category_description"`
	SupplierName        string          `json:"supplier_name"`
	SupplierContact     string          `json:"supplier_contact"`
}

// DeliveryView entrega con nombres de producto y proveedor.
// Price es inválido (Valid=false) cuando el producto referenciado no existe.
type DeliveryView struct {
	ID           int64               `json:"id"`
	Quantity     int64               `json:"quantity"`
	DeliveryDate string              `json:"delivery_date"`
	CreatedAt    string              `json:"created_at"`
	ProductName  string              `json:"product_name"`
	Price        decimal.NullDecimal `json:"price"`
	SupplierName string              `json:"supplier_name"`
}

// CategoryStock agregado de existencias por categoría.
type CategoryStock struct {
	CategoryName  string          `json:"category_name"`
	ProductsCount int             `json:"products_count"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"` // redondeado a 2 decimales
}

// SupplierDeliveryCount número de entregas por proveedor.
type SupplierDeliveryCount struct {
	Name            string `json:"name"`
	DeliveriesCount int    `json:"deliveries_count"`
}
