package csvstore

import (
	"context"

	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*TableRepo[entity.Category])(nil)
	_ repository.SupplierRepository = (*TableRepo[entity.Supplier])(nil)
	_ repository.ProductRepository  = (*TableRepo[entity.Product])(nil)
	_ repository.DeliveryRepository = (*TableRepo[entity.Delivery])(nil)
	_ repository.UserRepository     = (*TableRepo[entity.User])(nil)
)

// TableRepo adaptador tipado sobre una tabla. Usable con el Store o con una Tx (TableIO).
type TableRepo[T any] struct {
	q       repository.TableIO
	table   string
	toRow   func(T) repository.Row
	fromRow func(repository.Row) T
}

// List carga la tabla y la convierte a entidades.
func (r *TableRepo[T]) List(ctx context.Context) ([]T, error) {
	rows, err := r.q.Load(ctx, r.table)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = r.fromRow(row)
	}
	return out, nil
}

// SaveAll reescribe la tabla con las entidades dadas.
func (r *TableRepo[T]) SaveAll(ctx context.Context, items []T) error {
	rows := make([]repository.Row, len(items))
	for i, it := range items {
		rows[i] = r.toRow(it)
	}
	return r.q.Save(ctx, r.table, rows)
}

// NextID max(id)+1 sobre la vista actual de la tabla (incluye cambios preparados en una tx).
func (r *TableRepo[T]) NextID(ctx context.Context) (int64, error) {
	rows, err := r.q.Load(ctx, r.table)
	if err != nil {
		return 0, err
	}
	return nextID(rows), nil
}

// NewCategoryRepository construye el adaptador de categorías. Pasar Store o Tx.
func NewCategoryRepository(q repository.TableIO) *TableRepo[entity.Category] {
	return &TableRepo[entity.Category]{
		q: q, table: TableCategories,
		toRow: func(c entity.Category) repository.Row {
			return repository.Row{"id": c.ID, "name": c.Name, "description": c.Description}
		},
		fromRow: func(r repository.Row) entity.Category {
			return entity.Category{ID: r.ID(), Name: r.Text("name"), Description: r.Text("description")}
		},
	}
}

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(q repository.TableIO) *TableRepo[entity.Supplier] {
	return &TableRepo[entity.Supplier]{
		q: q, table: TableSuppliers,
		toRow: func(s entity.Supplier) repository.Row {
			return repository.Row{"id": s.ID, "name": s.Name, "contact": s.Contact, "address": s.Address}
		},
		fromRow: func(r repository.Row) entity.Supplier {
			return entity.Supplier{ID: r.ID(), Name: r.Text("name"), Contact: r.Text("contact"), Address: r.Text("address")}
		},
	}
}

// NewProductRepository construye el adaptador de productos.
func NewProductRepository(q repository.TableIO) *TableRepo[entity.Product] {
	return &TableRepo[entity.Product]{
		q: q, table: TableProducts,
		toRow: func(p entity.Product) repository.Row {
			return repository.Row{
				"id": p.ID, "name": p.Name, "category_id": p.CategoryID, "supplier_id": p.SupplierID,
				"price": p.Price, "quantity": p.Quantity, "created_at": p.CreatedAt,
			}
		},
		fromRow: func(r repository.Row) entity.Product {
			return entity.Product{
				ID:         r.ID(),
				Name:       r.Text("name"),
				CategoryID: r.Int("category_id"),
				SupplierID: r.Int("supplier_id"),
				Price:      r.Decimal("price"),
				Quantity:   r.Int("quantity"),
				CreatedAt:  r.Text("created_at"),
			}
		},
	}
}

// NewDeliveryRepository construye el adaptador de entregas.
func NewDeliveryRepository(q repository.TableIO) *TableRepo[entity.Delivery] {
	return &TableRepo[entity.Delivery]{
		q: q, table: TableDeliveries,
		toRow: func(d entity.Delivery) repository.Row {
			return repository.Row{
				"id": d.ID, "product_id": d.ProductID, "supplier_id": d.SupplierID,
				"quantity": d.Quantity, "delivery_date": d.DeliveryDate, "created_at": d.CreatedAt,
			}
		},
		fromRow: func(r repository.Row) entity.Delivery {
			return entity.Delivery{
				ID:           r.ID(),
				ProductID:    r.Int("product_id"),
				SupplierID:   r.Int("supplier_id"),
				Quantity:     r.Int("quantity"),
				DeliveryDate: r.Text("delivery_date"),
				CreatedAt:    r.Text("created_at"),
			}
		},
	}
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(q repository.TableIO) *TableRepo[entity.User] {
	return &TableRepo[entity.User]{
		q: q, table: TableUsers,
		toRow: func(u entity.User) repository.Row {
			return repository.Row{
				"id": u.ID, "username": u.Username, "password_hash": u.PasswordHash,
				"role": u.Role, "full_name": u.FullName, "phone": u.Phone,
			}
		},
		fromRow: func(r repository.Row) entity.User {
			return entity.User{
				ID:           r.ID(),
				Username:     r.Text("username"),
				PasswordHash: r.Text("password_hash"),
				Role:         r.Text("role"),
				FullName:     r.Text("full_name"),
				Phone:        r.Text("phone"),
			}
		},
	}
}
