package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
)

func TestRequirePrivileged_Manager(t *testing.T) {
	ctx := access.WithSession(context.Background(), access.NewSession(access.RoleManager))
	assert.NoError(t, access.RequirePrivileged(ctx))
}

func TestRequirePrivileged_ReaderDenegado(t *testing.T) {
	ctx := access.WithSession(context.Background(), access.NewSession(access.RoleReader))
	assert.ErrorIs(t, access.RequirePrivileged(ctx), domain.ErrForbidden)
}

func TestRequirePrivileged_SinSesionEsReader(t *testing.T) {
	assert.ErrorIs(t, access.RequirePrivileged(context.Background()), domain.ErrForbidden)
	assert.Equal(t, access.RoleReader, access.FromContext(context.Background()).Role())
}

func TestSession_SetRole(t *testing.T) {
	s := access.NewSession(access.RoleManager)
	ctx := access.WithSession(context.Background(), s)

	require.NoError(t, s.SetRole(access.RoleReader))
	assert.ErrorIs(t, access.RequirePrivileged(ctx), domain.ErrForbidden,
		"el cambio de rol debe verse en los contextos que ya transportan la sesión")

	err := s.SetRole("admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, access.RoleReader, s.Role())
}

func TestSesionesIndependientes(t *testing.T) {
	a := access.NewSession(access.RoleManager)
	b := access.NewSession(access.RoleReader)

	assert.NoError(t, a.RequirePrivileged())
	assert.Error(t, b.RequirePrivileged())
}

func TestRoleForUser(t *testing.T) {
	assert.Equal(t, access.RoleManager, access.RoleForUser("admin"))
	assert.Equal(t, access.RoleManager, access.RoleForUser("manager"))
	assert.Equal(t, access.RoleReader, access.RoleForUser("view"))
	assert.Equal(t, access.RoleReader, access.RoleForUser(""))

	s := access.NewUserSession("olga", "view")
	assert.Equal(t, "olga", s.Username())
	assert.Equal(t, access.RoleReader, s.Role())
}
