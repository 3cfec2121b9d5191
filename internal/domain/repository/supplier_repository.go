package repository

import "github.com/jhoicas/inventario-csv/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier (DIP).
type SupplierRepository interface {
	Table[entity.Supplier]
}
