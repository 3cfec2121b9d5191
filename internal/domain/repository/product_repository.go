package repository

import "github.com/jhoicas/inventario-csv/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Table[entity.Product]
}
