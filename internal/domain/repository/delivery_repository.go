package repository

import "github.com/jhoicas/inventario-csv/internal/domain/entity"

// DeliveryRepository define el puerto de persistencia para Delivery.
// Usado dentro de transacciones junto a ProductRepository para mantener el stock consistente.
type DeliveryRepository interface {
	Table[entity.Delivery]
}
