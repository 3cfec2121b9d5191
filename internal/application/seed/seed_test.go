package seed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/application/seed"
	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

func managerCtx() context.Context {
	return access.WithSession(context.Background(), access.NewSession(access.RoleManager))
}

func TestDefault_DatosEmbebidos(t *testing.T) {
	data, err := seed.Default()
	require.NoError(t, err)

	assert.Len(t, data.Categories, 3)
	assert.Len(t, data.Suppliers, 3)
	assert.Len(t, data.Products, 7)
	assert.Len(t, data.Deliveries, 4)
	assert.Equal(t, "Ноутбук", data.Products[0].Name)
	assert.Equal(t, "75000.00", data.Products[0].Price.StringFixed(2))
	assert.Equal(t, "2025-02-15", data.Deliveries[3].DeliveryDate)
}

func TestParse_PrecioInvalido(t *testing.T) {
	_, err := seed.Parse([]byte("products:\n  - {id: 1, name: X, price: caro}\n"))
	assert.Error(t, err)
}

func TestSeed_SoloTablasVacias(t *testing.T) {
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	ctx := managerCtx()
	require.NoError(t, csvstore.NewCategoryRepository(s).SaveAll(ctx, []entity.Category{{ID: 1, Name: "Propia"}}))

	data, err := seed.Default()
	require.NoError(t, err)
	res, err := seed.NewSeeder(csvstore.NewTxRunner(s), logger.Nop()).Seed(ctx, data)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"suppliers": 3, "products": 7, "deliveries": 4}, res.Created)
	assert.Equal(t, map[string]int{"categories": 1}, res.Skipped)

	cats, err := csvstore.NewCategoryRepository(s).List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Propia", cats[0].Name)

	row, err := s.Get(context.Background(), csvstore.TableProducts, 4)
	require.NoError(t, err)
	assert.Equal(t, "Хлеб", row.Text("name"))
	assert.Equal(t, "50.00", row.Decimal("price").StringFixed(2))
}

func TestSeed_ReaderDenegado(t *testing.T) {
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	data, err := seed.Default()
	require.NoError(t, err)

	_, err = seed.NewSeeder(csvstore.NewTxRunner(s), nil).Seed(context.Background(), data)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
