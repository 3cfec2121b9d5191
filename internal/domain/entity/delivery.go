package entity

// Formatos de fecha persistidos como texto; el orden lexicográfico coincide con el cronológico.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Delivery representa una entrega (entrada de mercancía) de un proveedor para un producto.
type Delivery struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	SupplierID   int64  `json:"supplier_id"`
	Quantity     int64  `json:"quantity"`
	DeliveryDate string `json:"delivery_date"` // YYYY-MM-DD, vacío si falta
	CreatedAt    string `json:"created_at"`
}
