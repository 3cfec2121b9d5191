package views_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/application/views"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

var today = time.Date(2025, 2, 16, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fixture: dos categorías (una sin productos), un producto con categoría y proveedor
// inexistentes y una entrega que apunta a un producto inexistente.
func setup(t *testing.T) (*views.ViewUseCase, repository.Tables) {
	t.Helper()
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	tables := csvstore.NewTables(s)
	ctx := access.WithSession(context.Background(), access.NewSession(access.RoleManager))

	require.NoError(t, tables.Categories.SaveAll(ctx, []entity.Category{
		{ID: 1, Name: "Электроника", Description: "Техника"},
		{ID: 2, Name: "Пустая"},
	}))
	require.NoError(t, tables.Suppliers.SaveAll(ctx, []entity.Supplier{
		{ID: 1, Name: "ООО Техно", Contact: "+7 999"},
	}))
	require.NoError(t, tables.Products.SaveAll(ctx, []entity.Product{
		{ID: 1, Name: "Ноутбук", CategoryID: 1, SupplierID: 1, Price: dec("75000.00"), Quantity: 10},
		{ID: 2, Name: "Мышь", CategoryID: 1, SupplierID: 1, Price: dec("0.335"), Quantity: 3},
		{ID: 3, Name: "Сирота", CategoryID: 9, SupplierID: 9, Price: dec("5"), Quantity: 1},
	}))
	require.NoError(t, tables.Deliveries.SaveAll(ctx, []entity.Delivery{
		{ID: 1, ProductID: 1, SupplierID: 1, Quantity: 5, DeliveryDate: "2025-02-10"},
		{ID: 2, ProductID: 404, SupplierID: 1, Quantity: 2, DeliveryDate: "2025-02-15"},
		{ID: 3, ProductID: 2, SupplierID: 7, Quantity: 1, DeliveryDate: ""},
		{ID: 4, ProductID: 1, SupplierID: 1, Quantity: 3, DeliveryDate: "2025-01-01"},
	}))
	return views.NewViewUseCase(tables, func() time.Time { return today }), tables
}

func TestProductsFull_LeftOuterJoin(t *testing.T) {
	uc, _ := setup(t)

	rows, err := uc.ProductsFull(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Ноутбук", rows[0].ProductName)
	assert.Equal(t, "Электроника", rows[0].CategoryName)
	assert.Equal(t, "Техника", rows[0].CategoryDescription)
	assert.Equal(t, "ООО Техно", rows[0].SupplierName)
	assert.Equal(t, "+7 999", rows[0].SupplierContact)

	assert.Equal(t, "Сирота", rows[2].ProductName)
	assert.Equal(t, "", rows[2].CategoryName)
	assert.Equal(t, "", rows[2].SupplierName)
}

func TestProductsFull_Limit(t *testing.T) {
	uc, _ := setup(t)

	rows, err := uc.ProductsFull(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = uc.ProductsFull(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestDeliveriesFull_OrdenDescendente(t *testing.T) {
	uc, _ := setup(t)

	rows, err := uc.DeliveriesFull(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	var ids []int64
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{2, 1, 4, 3}, ids, "las fechas vacías van al final")

	assert.Equal(t, "", rows[0].ProductName)
	assert.False(t, rows[0].Price.Valid, "producto inexistente: precio nulo")
	assert.True(t, rows[1].Price.Valid)
	assert.True(t, dec("75000").Equal(rows[1].Price.Decimal))
	assert.Equal(t, "", rows[3].SupplierName)
}

func TestDeliveriesFull_DaysBack(t *testing.T) {
	uc, _ := setup(t)

	days := 7
	rows, err := uc.DeliveriesFull(context.Background(), &days)
	require.NoError(t, err)

	var ids []int64
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{2, 1}, ids, "corte 2025-02-09 inclusive; fecha vacía excluida")

	zero := 0
	rows, err = uc.DeliveriesFull(context.Background(), &zero)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStockByCategory(t *testing.T) {
	uc, _ := setup(t)

	rows, err := uc.StockByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Электроника", rows[0].CategoryName)
	assert.Equal(t, 2, rows[0].ProductsCount)
	assert.Equal(t, int64(13), rows[0].TotalQuantity)
	assert.Equal(t, "750001.01", rows[0].TotalValue.StringFixed(2), "0.335*3 = 1.005 -> redondeo a 2 decimales")

	assert.Equal(t, "Пустая", rows[1].CategoryName)
	assert.Equal(t, 0, rows[1].ProductsCount)
	assert.Equal(t, int64(0), rows[1].TotalQuantity)
	assert.True(t, rows[1].TotalValue.IsZero())
}

func TestVistas_TablasVacias(t *testing.T) {
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	uc := views.NewViewUseCase(csvstore.NewTables(s), nil)

	p, err := uc.ProductsFull(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, p)
	d, err := uc.DeliveriesFull(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, d)
	c, err := uc.StockByCategory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c)
}
