// Package access implementa la política de dos niveles: manager (lectura y escritura)
// y reader (solo lectura). El rol viaja como una Session explícita dentro del
// context.Context de cada operación; no existe estado global de proceso.
package access

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
)

// Role nivel de acceso de una sesión.
type Role string

const (
	RoleManager Role = "manager" // privilegiado
	RoleReader  Role = "reader"  // restringido
)

// ParseRole valida el nombre de un rol.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RoleReader:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: el rol debe ser 'reader' o 'manager'", domain.ErrInvalidInput)
}

// RoleForUser traduce el rol de un usuario (admin, manager, view) a su nivel de acceso.
func RoleForUser(userRole string) Role {
	switch userRole {
	case entity.RoleAdmin, entity.RoleManager:
		return RoleManager
	default:
		return RoleReader
	}
}

// Session estado de rol de una sesión lógica (CLI, test, proceso embebido).
type Session struct {
	mu       sync.RWMutex
	role     Role
	username string
}

// NewSession construye una sesión con el rol indicado.
func NewSession(role Role) *Session {
	return &Session{role: role}
}

// NewUserSession construye la sesión de un usuario autenticado.
func NewUserSession(username, userRole string) *Session {
	return &Session{role: RoleForUser(userRole), username: username}
}

// SetRole cambia el rol de la sesión.
func (s *Session) SetRole(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	s.mu.Lock()
	s.role = role
	s.mu.Unlock()
	return nil
}

// Role devuelve el rol actual.
func (s *Session) Role() Role {
	if s == nil {
		return RoleReader
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Username usuario asociado; vacío para sesiones de sistema.
func (s *Session) Username() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// RequirePrivileged falla con domain.ErrForbidden si la sesión no es manager.
func (s *Session) RequirePrivileged() error {
	if s.Role() != RoleManager {
		return domain.ErrForbidden
	}
	return nil
}

type sessionKey struct{}

// WithSession devuelve un contexto hijo que transporta la sesión.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext devuelve la sesión del contexto o nil si no hay ninguna.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// RequirePrivileged verifica el rol de la sesión del contexto.
// Un contexto sin sesión se trata como reader.
func RequirePrivileged(ctx context.Context) error {
	return FromContext(ctx).RequirePrivileged()
}
