package auth_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/application/auth"
	"github.com/jhoicas/inventario-csv/internal/application/dto"
	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "inventario-test"}

func setup(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	return auth.NewAuthUseCase(csvstore.NewTxRunner(s), csvstore.NewUserRepository(s), jwtCfg, logger.Nop())
}

func adminCtx() context.Context {
	return access.WithSession(context.Background(), access.NewUserSession("admin", "admin"))
}

func viewCtx(username string) context.Context {
	return access.WithSession(context.Background(), access.NewUserSession(username, "view"))
}

func mustRegister(t *testing.T, uc *auth.AuthUseCase, username, password, role string) {
	t.Helper()
	_, err := uc.Register(adminCtx(), dto.RegisterUserRequest{Username: username, Password: password, Role: role})
	require.NoError(t, err)
}

func TestBootstrap_SoloConTablaVacia(t *testing.T) {
	uc := setup(t)

	u, created, err := uc.Bootstrap(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, int64(1), u.ID)

	_, created, err = uc.Bootstrap(context.Background(), "otro", "x")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRegister_DuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "Ivan", "pw", "manager")

	_, err := uc.Register(adminCtx(), dto.RegisterUserRequest{Username: " IVAN ", Password: "x", Role: "view"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Register(adminCtx(), dto.RegisterUserRequest{Username: "Straße", Password: "x", Role: "view"})
	require.NoError(t, err)
	_, err = uc.Register(adminCtx(), dto.RegisterUserRequest{Username: "STRASSE", Password: "x", Role: "view"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el plegado de mayúsculas es Unicode completo")
}

func TestRegister_Validaciones(t *testing.T) {
	uc := setup(t)

	_, err := uc.Register(viewCtx("pepe"), dto.RegisterUserRequest{Username: "a", Password: "b", Role: "view"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Register(adminCtx(), dto.RegisterUserRequest{Username: "a", Password: "b", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(adminCtx(), dto.RegisterUserRequest{Username: "  ", Password: "b", Role: "view"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.Register(adminCtx(), dto.RegisterUserRequest{Username: "a", Password: "b", Role: " MANAGER "})
	require.NoError(t, err)
	assert.Equal(t, "manager", u.Role)
}

func TestLogin_TokenYSesion(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "Ivan", "pw", "view")

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ivan", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Ivan", resp.User.Username)

	s, err := uc.SessionFromToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", s.Username())
	assert.Equal(t, access.RoleReader, s.Role())

	_, err = uc.SessionFromToken("basura")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "ivan", "pw", "view")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ivan", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_SinSecretoConfigurado(t *testing.T) {
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(csvstore.NewTxRunner(s), csvstore.NewUserRepository(s),
		auth.JWTConfig{ExpMinutes: 5, Issuer: "inventario-test"}, logger.Nop())
	_, _, err = uc.Bootstrap(context.Background(), "admin", "pw")
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrSecretMissing)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestChangePassword_SinRolPrivilegiado(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "ivan", "old", "view")

	err := uc.ChangePassword(viewCtx("ivan"), "ivan", "mal", "new")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, uc.ChangePassword(viewCtx("ivan"), "ivan", "old", "new"))
	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "ivan", Password: "new"})
	assert.NoError(t, err)

	assert.ErrorIs(t, uc.ChangePassword(context.Background(), "nadie", "a", "b"), domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.ChangePassword(context.Background(), "ivan", "new", ""), domain.ErrInvalidInput)
}

func TestSetPassword(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "ivan", "old", "view")

	assert.ErrorIs(t, uc.SetPassword(viewCtx("ivan"), "ivan", "x"), domain.ErrForbidden)
	require.NoError(t, uc.SetPassword(adminCtx(), "IVAN", "nueva"))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "ivan", Password: "nueva"})
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "admin", "pw", "admin")
	mustRegister(t, uc, "ivan", "pw", "view")

	assert.ErrorIs(t, uc.Delete(viewCtx("ivan"), "admin"), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(adminCtx(), "Admin"), domain.ErrInvalidInput, "no puede eliminarse a sí mismo")
	assert.ErrorIs(t, uc.Delete(adminCtx(), "nadie"), domain.ErrUserNotFound)

	require.NoError(t, uc.Delete(adminCtx(), "ivan"))
	users, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)

	system := access.WithSession(context.Background(), access.NewSession(access.RoleManager))
	assert.ErrorIs(t, uc.Delete(system, "admin"), domain.ErrInvalidInput, "no se elimina el último usuario")
}

func TestUpdateProfile(t *testing.T) {
	uc := setup(t)
	mustRegister(t, uc, "admin", "pw", "admin")
	mustRegister(t, uc, "ivan", "pw", "view")

	u, err := uc.UpdateProfile(viewCtx("ivan"), "ivan", dto.UpdateProfileRequest{Username: "ivan.p", FullName: " Иван Петров ", Phone: "+7 900"})
	require.NoError(t, err)
	assert.Equal(t, "ivan.p", u.Username)
	assert.Equal(t, "Иван Петров", u.FullName)

	_, err = uc.UpdateProfile(viewCtx("ivan.p"), "admin", dto.UpdateProfileRequest{Username: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un reader solo edita su propio perfil")

	_, err = uc.UpdateProfile(adminCtx(), "ivan.p", dto.UpdateProfileRequest{Username: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.UpdateProfile(adminCtx(), "nadie", dto.UpdateProfileRequest{Username: "z"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
