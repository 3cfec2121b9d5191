package reports_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/application/reports"
	"github.com/jhoicas/inventario-csv/internal/application/views"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

var today = time.Date(2025, 2, 16, 12, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) *reports.ReportUseCase {
	t.Helper()
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	tables := csvstore.NewTables(s)
	ctx := access.WithSession(context.Background(), access.NewSession(access.RoleManager))

	require.NoError(t, tables.Categories.SaveAll(ctx, []entity.Category{
		{ID: 1, Name: "Электроника", Description: "Техника"},
		{ID: 2, Name: "Продукты"},
	}))
	require.NoError(t, tables.Suppliers.SaveAll(ctx, []entity.Supplier{
		{ID: 1, Name: "ООО Техно", Contact: "+7 999", Address: "Москва"},
		{ID: 2, Name: "ИП Иванов"},
	}))
	require.NoError(t, tables.Products.SaveAll(ctx, []entity.Product{
		{ID: 1, Name: "Ноутбук", CategoryID: 1, SupplierID: 1, Price: dec("75000.00"), Quantity: 10, CreatedAt: "2025-02-01 10:00:00"},
		{ID: 2, Name: "Хлеб", CategoryID: 2, SupplierID: 2, Price: dec("50.00"), Quantity: 100, CreatedAt: "2025-02-01 10:00:00"},
		{ID: 3, Name: "Телефон", CategoryID: 1, SupplierID: 1, Price: dec("25000.50"), Quantity: 5, CreatedAt: "2025-02-01 10:00:00"},
	}))
	require.NoError(t, tables.Deliveries.SaveAll(ctx, []entity.Delivery{
		{ID: 1, ProductID: 1, SupplierID: 1, Quantity: 5, DeliveryDate: "2025-02-10", CreatedAt: "2025-02-10 09:00:00"},
		{ID: 2, ProductID: 2, SupplierID: 2, Quantity: 20, DeliveryDate: "2024-12-01", CreatedAt: "2024-12-01 09:00:00"},
	}))

	clock := func() time.Time { return today }
	return reports.NewReportUseCase(tables, views.NewViewUseCase(tables, clock), clock)
}

func productIDs(ps []entity.Product) []int64 {
	ids := make([]int64, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestProductsByCategoryName(t *testing.T) {
	uc := setup(t)

	ps, err := uc.ProductsByCategoryName(context.Background(), "Электроника")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, productIDs(ps))

	ps, err = uc.ProductsByCategoryName(context.Background(), "электроника")
	require.NoError(t, err)
	assert.Empty(t, ps, "la coincidencia es exacta")
}

func TestProductsAbovePrice_OrdenDescendente(t *testing.T) {
	uc := setup(t)

	ps, err := uc.ProductsAbovePrice(context.Background(), dec("50"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, productIDs(ps), "estrictamente mayor: 50.00 queda fuera")

	ps, err = uc.ProductsAbovePrice(context.Background(), dec("0"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2}, productIDs(ps))
}

func TestSuppliersWithDeliveryCount(t *testing.T) {
	uc := setup(t)

	rows, err := uc.SuppliersWithDeliveryCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.SupplierDeliveryCount{
		{Name: "ООО Техно", DeliveriesCount: 1},
		{Name: "ИП Иванов", DeliveriesCount: 1},
	}, rows)
}

func TestDeliveriesReport_LimitesInclusivos(t *testing.T) {
	uc := setup(t)

	rows, err := uc.DeliveriesReport(context.Background(), "2024-12-01", "2025-02-10")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = uc.DeliveriesReport(context.Background(), "2025-01-01", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)

	rows, err = uc.DeliveriesReport(context.Background(), "", "2024-12-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ID)
}

func TestPerformanceReport_Golden(t *testing.T) {
	uc := setup(t)
	uc.SetTimer(func(time.Time) time.Duration { return 1500 * time.Microsecond })

	report, err := uc.PerformanceReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Queries, 6)
	require.Len(t, report.Tables, 4)
	assert.Equal(t, "performance_report_20250216_123000.txt", report.FileName())

	var buf bytes.Buffer
	require.NoError(t, report.RenderText(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "performance_report", buf.Bytes())
}

func TestPerformanceReport_ErrorNoInterrumpe(t *testing.T) {
	s, err := csvstore.Open(filepath.Join(t.TempDir(), "data"), logger.Nop())
	require.NoError(t, err)
	tables := csvstore.NewTables(s)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(csvstore.TableProducts), []byte("id,price\nx,1\n"), 0o644))

	uc := reports.NewReportUseCase(tables, views.NewViewUseCase(tables, nil), nil)
	report, err := uc.PerformanceReport(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.Queries[0].Err, "products.csv malformado")
	assert.Empty(t, report.Queries[5].Err, "proveedores no depende de products")
	assert.NotEmpty(t, report.Tables[0].Err)

	var buf bytes.Buffer
	require.NoError(t, report.RenderText(&buf))
	assert.Contains(t, buf.String(), "Error: ")
}
