package csvstore

import (
	"context"

	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción sobre el almacén: bloqueo exclusivo,
// cambios preparados en memoria y commit único vía journal.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios de entregas y productos atados a la misma tx.
// Si fn falla no se escribe nada.
func (r *TxRunner) Run(ctx context.Context, fn func(
	deliveryRepo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.RunTables(ctx, func(tx repository.Tables) error {
		return fn(tx.Deliveries, tx.Products)
	})
}

// RunTables ejecuta fn con todos los repositorios (y el acceso genérico por filas) dentro de una tx.
func (r *TxRunner) RunTables(ctx context.Context, fn func(tx repository.Tables) error) error {
	if err := access.RequirePrivileged(ctx); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recoverLocked(); err != nil {
		return err
	}

	tx := &Tx{store: s, staged: map[string][]repository.Row{}}
	if err := fn(NewTables(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.commitLocked(tx.staged)
	return err
}

// NewTables construye todos los repositorios sobre q (Store o Tx).
func NewTables(q repository.TableIO) repository.Tables {
	return repository.Tables{
		Categories: NewCategoryRepository(q),
		Suppliers:  NewSupplierRepository(q),
		Products:   NewProductRepository(q),
		Deliveries: NewDeliveryRepository(q),
		Users:      NewUserRepository(q),
		Rows:       q,
	}
}
