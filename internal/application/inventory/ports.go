package inventory

import (
	"context"

	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo sobre el almacén, pasando
// repositorios atados a ella. Si fn devuelve error no se escribe nada; si no, todas las
// tablas modificadas se confirman juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		deliveryRepo repository.DeliveryRepository,
		productRepo repository.ProductRepository,
	) error) error
	RunTables(ctx context.Context, fn func(tx repository.Tables) error) error
}

// RowStore lectura de filas sueltas y conversión de valores según el esquema de cada tabla.
type RowStore interface {
	Get(ctx context.Context, table string, id int64) (repository.Row, error)
	Coerce(table, field string, v any) (any, error)
}
