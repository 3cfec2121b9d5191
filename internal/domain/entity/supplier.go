package entity

// Supplier representa un proveedor; referenciado por Product y Delivery.
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}
