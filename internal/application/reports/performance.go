package reports

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/index"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// Parámetros fijos de las consultas medidas.
const (
	benchProductsLimit = 100
	benchCategoryName  = "Электроника"
	benchDaysBack      = 30
)

var benchMinPrice = decimal.NewFromInt(10000)

// perfTables orden de medición de la carga de tablas.
var perfTables = []string{"products", "categories", "suppliers", "deliveries"}

// QueryTiming resultado de medir una consulta. Err no vacío indica que la consulta falló.
type QueryTiming struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Rows    int           `json:"rows"`
	Sample  any           `json:"sample,omitempty"`
	Err     string        `json:"error,omitempty"`
}

// TableTiming tiempo de carga de una tabla y de construcción de su índice por id.
type TableTiming struct {
	Table string        `json:"table"`
	Load  time.Duration `json:"load_ns"`
	Index time.Duration `json:"index_ns"`
	Rows  int           `json:"rows"`
	Err   string        `json:"error,omitempty"`
}

// PerformanceReport informe completo.
type PerformanceReport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Queries     []QueryTiming `json:"queries"`
	Tables      []TableTiming `json:"tables"`
}

// FileName nombre de archivo del informe de texto: performance_report_YYYYMMDD_HHMMSS.txt.
func (r *PerformanceReport) FileName() string {
	return "performance_report_" + r.GeneratedAt.Format("20060102_150405") + ".txt"
}

type measuredQuery struct {
	name string
	run  func(ctx context.Context) (int, any, error)
}

func firstOf[T any](rows []T, err error) (int, any, error) {
	if err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return 0, nil, nil
	}
	return len(rows), rows[0], nil
}

// PerformanceReport ejecuta y mide cada vista y consulta, y la carga de cada tabla.
// Un error de una consulta queda registrado en su entrada; no interrumpe el informe.
func (uc *ReportUseCase) PerformanceReport(ctx context.Context) (*PerformanceReport, error) {
	queries := []measuredQuery{
		{"Productos con categoría y proveedor (ProductsFull)", func(ctx context.Context) (int, any, error) {
			return firstOf(uc.views.ProductsFull(ctx, benchProductsLimit))
		}},
		{"Productos de la categoría «" + benchCategoryName + "» (índice por category_id)", func(ctx context.Context) (int, any, error) {
			return firstOf(uc.ProductsByCategoryName(ctx, benchCategoryName))
		}},
		{"Productos con precio mayor que " + benchMinPrice.String() + " (orden por precio)", func(ctx context.Context) (int, any, error) {
			return firstOf(uc.ProductsAbovePrice(ctx, benchMinPrice))
		}},
		{fmt.Sprintf("Entregas de los últimos %d días (DeliveriesFull)", benchDaysBack), func(ctx context.Context) (int, any, error) {
			days := benchDaysBack
			return firstOf(uc.views.DeliveriesFull(ctx, &days))
		}},
		{"Existencias por categoría (StockByCategory)", func(ctx context.Context) (int, any, error) {
			return firstOf(uc.views.StockByCategory(ctx))
		}},
		{"Proveedores con número de entregas (agregación)", func(ctx context.Context) (int, any, error) {
			return firstOf(uc.SuppliersWithDeliveryCount(ctx))
		}},
	}

	report := &PerformanceReport{GeneratedAt: uc.now()}
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		n, sample, err := q.run(ctx)
		qt := QueryTiming{Name: q.name, Elapsed: uc.since(start), Rows: n, Sample: sample}
		if err != nil {
			qt.Err = err.Error()
		}
		report.Queries = append(report.Queries, qt)
	}

	for _, table := range perfTables {
		start := time.Now()
		rows, err := uc.tables.Rows.Load(ctx, table)
		tt := TableTiming{Table: table, Load: uc.since(start)}
		if err != nil {
			tt.Err = err.Error()
			report.Tables = append(report.Tables, tt)
			continue
		}
		start = time.Now()
		_ = index.ByID(rows, repository.Row.ID)
		tt.Index = uc.since(start)
		tt.Rows = len(rows)
		report.Tables = append(report.Tables, tt)
	}
	return report, nil
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.4f s", d.Seconds())
}

// RenderText escribe el informe en texto plano.
func (r *PerformanceReport) RenderText(w io.Writer) error {
	heavy := strings.Repeat("=", 60)
	light := strings.Repeat("-", 60)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, heavy)
	fmt.Fprintln(bw, "INFORME DE RENDIMIENTO DE CONSULTAS")
	fmt.Fprintln(bw, "Base de datos: inventario (CSV)")
	fmt.Fprintf(bw, "Fecha: %s\n", r.GeneratedAt.Format(entity.TimestampLayout))
	fmt.Fprintln(bw, heavy)

	for _, q := range r.Queries {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, light)
		fmt.Fprintf(bw, "Consulta: %s\n", q.Name)
		fmt.Fprintln(bw, light)
		if q.Err != "" {
			fmt.Fprintf(bw, "Error: %s\n", q.Err)
			continue
		}
		fmt.Fprintf(bw, "Tiempo: %s\n", seconds(q.Elapsed))
		fmt.Fprintf(bw, "Registros: %d\n", q.Rows)
		if q.Sample != nil {
			sample, err := json.Marshal(q.Sample)
			if err != nil {
				return fmt.Errorf("serializar ejemplo: %w", err)
			}
			fmt.Fprintf(bw, "Ejemplo: %s\n", sample)
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, light)
	fmt.Fprintln(bw, "Carga de tablas e índices")
	fmt.Fprintln(bw, light)
	for _, t := range r.Tables {
		if t.Err != "" {
			fmt.Fprintf(bw, "  %s: error %s\n", t.Table, t.Err)
			continue
		}
		fmt.Fprintf(bw, "  %s: carga %s, índice por id %s, filas %d\n", t.Table, seconds(t.Load), seconds(t.Index), t.Rows)
	}
	return bw.Flush()
}
