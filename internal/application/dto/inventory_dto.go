package dto

import "github.com/shopspring/decimal"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// CreateProductRequest entrada para crear un producto. No se valida que la categoría
// ni el proveedor existan.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"required"`
	CategoryID int64           `json:"category_id"`
	SupplierID int64           `json:"supplier_id"`
	Price      decimal.Decimal `json:"price"` // >= 0, validado en el caso de uso
	Quantity   int64           `json:"quantity"`
}

// CreateDeliveryRequest entrada para registrar una entrega. DeliveryDate vacío = hoy.
type CreateDeliveryRequest struct {
	ProductID    int64  `json:"product_id"`
	SupplierID   int64  `json:"supplier_id"`
	Quantity     int64  `json:"quantity" validate:"gt=0"`
	DeliveryDate string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateDeliveryRequest campos opcionales; nil conserva el valor almacenado.
type UpdateDeliveryRequest struct {
	ProductID    *int64  `json:"product_id"`
	SupplierID   *int64  `json:"supplier_id"`
	Quantity     *int64  `json:"quantity" validate:"omitempty,gt=0"`
	DeliveryDate *string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
}
