package repository

import "github.com/jhoicas/inventario-csv/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Table[entity.User]
}
