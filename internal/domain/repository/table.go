package repository

import "context"

// Table puerto genérico de persistencia de una tabla plana completa.
// No hay consultas parciales: cada operación lee o reescribe la tabla entera.
type Table[T any] interface {
	List(ctx context.Context) ([]T, error)
	// SaveAll reescribe la tabla; una lista vacía no modifica el archivo.
	SaveAll(ctx context.Context, rows []T) error
	// NextID devuelve max(id)+1, o 1 si la tabla está vacía.
	NextID(ctx context.Context) (int64, error)
}
