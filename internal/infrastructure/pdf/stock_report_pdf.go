// Package pdf genera el informe de existencias en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + nombre de la app  │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA 1: Categoría | Productos | Unidades | Valor           │
//	│  TOTAL GENERAL                                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA 2: Id | Producto | Categoría | Proveedor | Precio | Cant │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-csv/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// StockReport datos del informe.
type StockReport struct {
	AppName     string
	GeneratedAt time.Time
	Stock       []entity.CategoryStock
	Products    []entity.ProductView
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport genera el informe de existencias usando Maroto v2.
// TODO: registrar una fuente TTF con glifos cirílicos (config.WithCustomFonts); la
// helvetica estándar no los dibuja.
type MarotoStockReport struct{}

// NewMarotoStockReport construye el generador.
func NewMarotoStockReport() *MarotoStockReport { return &MarotoStockReport{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) Generate(ctx context.Context, r StockReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de existencias", true).
		WithAuthor(r.AppName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("EXISTENCIAS POR CATEGORÍA"))
	m.AddRows(stockHeaderRow())
	m.AddRows(stockRows(r.Stock)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(r.Stock))

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionRow("PRODUCTOS"))
	m.AddRows(productHeaderRow())
	m.AddRows(productRows(r.Products)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("INFORME DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(r.AppName, "inventario"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func stockHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Categoría", 5, align.Left),
		headerCell("Productos", 2, align.Center),
		headerCell("Unidades", 2, align.Right),
		headerCell("Valor", 3, align.Right),
	)
}

func stockRows(stock []entity.CategoryStock) []core.Row {
	rows := make([]core.Row, 0, len(stock))
	for _, s := range stock {
		rows = append(rows, row.New(6).Add(
			cell(s.CategoryName, 5, align.Left),
			cell(strconv.Itoa(s.ProductsCount), 2, align.Center),
			cell(strconv.FormatInt(s.TotalQuantity, 10), 2, align.Right),
			cell(formatMoney(s.TotalValue), 3, align.Right),
		))
	}
	return rows
}

func totalRow(stock []entity.CategoryStock) core.Row {
	var units int64
	value := decimal.Zero
	for _, s := range stock {
		units += s.TotalQuantity
		value = value.Add(s.TotalValue)
	}
	bold := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		bold("TOTAL:", 7),
		bold(strconv.FormatInt(units, 10), 2),
		bold(formatMoney(value), 3),
	)
}

func productHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Id", 1, align.Center),
		headerCell("Producto", 3, align.Left),
		headerCell("Categoría", 3, align.Left),
		headerCell("Proveedor", 2, align.Left),
		headerCell("Precio", 2, align.Right),
		headerCell("Cant.", 1, align.Right),
	)
}

func productRows(products []entity.ProductView) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, row.New(6).Add(
			cell(strconv.FormatInt(p.ID, 10), 1, align.Center),
			cell(p.ProductName, 3, align.Left),
			cell(nonEmpty(p.CategoryName, "—"), 3, align.Left),
			cell(nonEmpty(p.SupplierName, "—"), 2, align.Left),
			cell(formatMoney(p.Price), 2, align.Right),
			cell(strconv.FormatInt(p.Quantity, 10), 1, align.Right),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a 2 decimales y separa miles con espacio.
// Ej: 75000 → "75 000,00", -1234.5 → "-1 234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
