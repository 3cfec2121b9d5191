package csvstore

import (
	"fmt"

	"github.com/jhoicas/inventario-csv/internal/domain"
)

// Nombres de tablas (un archivo <tabla>.csv por tabla en el directorio de datos).
const (
	TableCategories = "categories"
	TableSuppliers  = "suppliers"
	TableProducts   = "products"
	TableDeliveries = "deliveries"
	TableUsers      = "users"
)

// FieldType tipo semántico de una columna.
type FieldType int

const (
	Text    FieldType = iota // string opaco (texto libre, fechas)
	Int                      // int64
	Decimal                  // decimal.Decimal exacto
)

func (t FieldType) String() string {
	switch t {
	case Int:
		return "int"
	case Decimal:
		return "decimal"
	default:
		return "text"
	}
}

// Field columna de un esquema.
type Field struct {
	Name string
	Type FieldType
}

// Schema columnas ordenadas de una tabla; el orden define la cabecera del archivo.
type Schema struct {
	Table  string
	Fields []Field
}

// Header nombres de columna en orden.
func (s Schema) Header() []string {
	h := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		h[i] = f.Name
	}
	return h
}

// Field busca una columna por nombre.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var schemas = map[string]Schema{
	TableCategories: {Table: TableCategories, Fields: []Field{
		{"id", Int}, {"name", Text}, {"description", Text},
	}},
	TableSuppliers: {Table: TableSuppliers, Fields: []Field{
		{"id", Int}, {"name", Text}, {"contact", Text}, {"address", Text},
	}},
	TableProducts: {Table: TableProducts, Fields: []Field{
		{"id", Int}, {"name", Text}, {"category_id", Int}, {"supplier_id", Int},
		{"price", Decimal}, {"quantity", Int}, {"created_at", Text},
	}},
	TableDeliveries: {Table: TableDeliveries, Fields: []Field{
		{"id", Int}, {"product_id", Int}, {"supplier_id", Int}, {"quantity", Int},
		{"delivery_date", Text}, {"created_at", Text},
	}},
	TableUsers: {Table: TableUsers, Fields: []Field{
		{"id", Int}, {"username", Text}, {"password_hash", Text}, {"role", Text},
		{"full_name", Text}, {"phone", Text},
	}},
}

// CoreTables las cuatro tablas de inventario en orden de dependencia.
func CoreTables() []string {
	return []string{TableCategories, TableSuppliers, TableProducts, TableDeliveries}
}

// SchemaFor devuelve el esquema de una tabla conocida.
func SchemaFor(table string) (Schema, error) {
	s, ok := schemas[table]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", domain.ErrUnknownTable, table)
	}
	return s, nil
}
