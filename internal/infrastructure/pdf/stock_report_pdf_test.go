package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-csv/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "0,00",
		"50":         "50,00",
		"999.999":    "1 000,00",
		"75000":      "75 000,00",
		"1234567.5":  "1 234 567,50",
		"-1234.5":    "-1 234,50",
		"875002.505": "875 002,51",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerate_ProducePDF(t *testing.T) {
	report := StockReport{
		AppName:     "inventario-csv",
		GeneratedAt: time.Date(2025, 2, 16, 12, 0, 0, 0, time.UTC),
		Stock: []entity.CategoryStock{
			{CategoryName: "Electronics", ProductsCount: 2, TotalQuantity: 15, TotalValue: decimal.RequireFromString("875002.50")},
			{CategoryName: "Empty", TotalValue: decimal.Zero},
		},
		Products: []entity.ProductView{
			{ID: 1, ProductName: "Laptop", Price: decimal.RequireFromString("75000.00"), Quantity: 10, CategoryName: "Electronics", SupplierName: "Supplier A"},
			{ID: 2, ProductName: "Orphan", Price: decimal.RequireFromString("5"), Quantity: 1},
		},
	}

	out, err := NewMarotoStockReport().Generate(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}

func TestGenerate_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoStockReport().Generate(ctx, StockReport{})
	assert.ErrorIs(t, err, context.Canceled)
}
