package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/backup"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

var stamp = time.Date(2025, 2, 16, 12, 0, 0, 0, time.UTC)

func managerCtx() context.Context {
	return access.WithSession(context.Background(), access.NewSession(access.RoleManager))
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func newService(t *testing.T) (*backup.Service, string, string) {
	t.Helper()
	root := t.TempDir()
	data := filepath.Join(root, "data")
	backups := filepath.Join(root, "backups")
	return backup.NewService(data, backups, logger.Nop(), func() time.Time { return stamp }), data, backups
}

func TestBackup_NombrePorDefecto(t *testing.T) {
	svc, data, backups := newService(t)
	write(t, filepath.Join(data, "products.csv"), "id,name\n1,X\n")
	write(t, filepath.Join(data, "categories.csv"), "id,name\n1,C\n")
	write(t, filepath.Join(data, "users.csv"), "id,username\n")

	path, err := svc.Backup(managerCtx(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backups, "products_db_20250216_120000"), path)
	assert.Equal(t, "id,name\n1,X\n", read(t, filepath.Join(path, "products.csv")))
	assert.Equal(t, "id,name\n1,C\n", read(t, filepath.Join(path, "categories.csv")))
	assert.FileExists(t, filepath.Join(path, "users.csv"))
}

func TestBackup_ReemplazaDestinoExistente(t *testing.T) {
	svc, data, backups := newService(t)
	write(t, filepath.Join(data, "products.csv"), "nuevo")
	write(t, filepath.Join(backups, "manual", "viejo.csv"), "viejo")

	path, err := svc.Backup(managerCtx(), "manual")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(path, "viejo.csv"))
	assert.Equal(t, "nuevo", read(t, filepath.Join(path, "products.csv")))
}

func TestBackup_SinDirectorioDeDatos(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Backup(managerCtx(), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBackup_ReaderDenegado(t *testing.T) {
	svc, data, backups := newService(t)
	write(t, filepath.Join(data, "products.csv"), "actual")
	write(t, filepath.Join(backups, "manual", "products.csv"), "respaldo previo")

	_, err := svc.Backup(context.Background(), "manual")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Backup(context.Background(), data)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, "actual", read(t, filepath.Join(data, "products.csv")))
	assert.Equal(t, "respaldo previo", read(t, filepath.Join(backups, "manual", "products.csv")))
}

func TestBackup_DestinosRechazados(t *testing.T) {
	svc, data, backups := newService(t)
	write(t, filepath.Join(data, "products.csv"), "actual")
	write(t, filepath.Join(backups, "otro", "products.csv"), "intacto")
	root := filepath.Dir(data)

	cases := map[string]string{
		"directorio de datos":        data,
		"dentro de datos":            filepath.Join(data, "respaldo"),
		"padre de datos":             root,
		"nombre punto punto":         "..",
		"nombre punto":               ".",
		"nombre con separador":       filepath.Join("otro", "sub"),
		"nombre que sale de backups": filepath.Join("..", "data"),
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Backup(managerCtx(), target)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.Equal(t, "actual", read(t, filepath.Join(data, "products.csv")))
	assert.Equal(t, "intacto", read(t, filepath.Join(backups, "otro", "products.csv")))
}

func TestBackup_RutaAbsolutaFueraDeDatos(t *testing.T) {
	svc, data, _ := newService(t)
	write(t, filepath.Join(data, "products.csv"), "actual")
	target := filepath.Join(t.TempDir(), "externo")

	path, err := svc.Backup(managerCtx(), target)
	require.NoError(t, err)
	assert.Equal(t, target, path)
	assert.Equal(t, "actual", read(t, filepath.Join(path, "products.csv")))
}

func TestRestore_CopiaCSVYDescartaJournal(t *testing.T) {
	svc, data, backups := newService(t)
	src := filepath.Join(backups, "products_db_20250101_000000")
	write(t, filepath.Join(src, "products.csv"), "restaurado")
	write(t, filepath.Join(src, "deliveries.csv"), "entregas")
	write(t, filepath.Join(src, "notas.txt"), "no se copia")
	write(t, filepath.Join(data, "products.csv"), "actual")
	write(t, filepath.Join(data, csvstore.JournalFile), "{}")

	names, err := svc.Restore(managerCtx(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"deliveries.csv", "products.csv"}, names)
	assert.Equal(t, "restaurado", read(t, filepath.Join(data, "products.csv")))
	assert.NoFileExists(t, filepath.Join(data, "notas.txt"))
	assert.NoFileExists(t, filepath.Join(data, csvstore.JournalFile))
}

func TestRestore_Errores(t *testing.T) {
	svc, data, backups := newService(t)
	empty := filepath.Join(backups, "vacio")
	require.NoError(t, os.MkdirAll(empty, 0o755))
	write(t, filepath.Join(backups, "ok", "products.csv"), "x")
	write(t, filepath.Join(data, "products.csv"), "actual")

	_, err := svc.Restore(context.Background(), filepath.Join(backups, "ok"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "actual", read(t, filepath.Join(data, "products.csv")))

	_, err = svc.Restore(managerCtx(), empty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Restore(managerCtx(), filepath.Join(backups, "no-existe"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
