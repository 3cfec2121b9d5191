package entity

import "github.com/shopspring/decimal"

// Product representa un producto del inventario.
// Quantity se mantiene incrementalmente desde las entregas (Delivery); nunca se recalcula sumándolas.
type Product struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	CategoryID int64           `json:"category_id"` // sin validar contra categories
	SupplierID int64           `json:"supplier_id"` // sin validar contra suppliers
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	CreatedAt  string          `json:"created_at"` // "2006-01-02 15:04:05"
}
