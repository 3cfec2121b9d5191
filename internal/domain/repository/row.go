package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// Row fila genérica de una tabla: nombre de campo -> valor tipado según el esquema
// (int64, decimal.Decimal o string).
type Row map[string]any

// ID devuelve el campo id o 0 si falta.
func (r Row) ID() int64 { return r.Int("id") }

// Int devuelve el campo como int64; 0 si falta o tiene otro tipo.
func (r Row) Int(field string) int64 {
	v, _ := r[field].(int64)
	return v
}

// Decimal devuelve el campo como decimal; cero si falta o tiene otro tipo.
func (r Row) Decimal(field string) decimal.Decimal {
	v, _ := r[field].(decimal.Decimal)
	return v
}

// Text devuelve el campo como string; vacío si falta o tiene otro tipo.
func (r Row) Text(field string) string {
	v, _ := r[field].(string)
	return v
}

// TableIO lectura/escritura de tablas completas. Lo implementan el almacén y una transacción,
// de modo que los repositorios tipados funcionan igual dentro y fuera de una tx.
type TableIO interface {
	Load(ctx context.Context, table string) ([]Row, error)
	Save(ctx context.Context, table string, rows []Row) error
}
