package csvstore

import (
	"context"

	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

var _ repository.TableIO = (*Tx)(nil)

// Tx cambios preparados en memoria; nada llega a disco hasta el commit de TxRunner.
type Tx struct {
	store  *Store
	staged map[string][]repository.Row
}

// Load devuelve la versión preparada de la tabla o, si no hay, la del disco.
func (t *Tx) Load(ctx context.Context, table string) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rows, ok := t.staged[table]; ok {
		return cloneRows(rows), nil
	}
	return t.store.loadLocked(table)
}

// Save prepara la tabla. Aplica la misma política que Store.Save: rol manager y lista vacía sin efecto.
func (t *Tx) Save(ctx context.Context, table string, rows []repository.Row) error {
	if err := access.RequirePrivileged(ctx); err != nil {
		return err
	}
	if _, err := SchemaFor(table); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	t.staged[table] = cloneRows(rows)
	return nil
}
