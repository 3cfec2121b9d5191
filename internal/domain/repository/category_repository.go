package repository

import "github.com/jhoicas/inventario-csv/internal/domain/entity"

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Table[entity.Category]
}
