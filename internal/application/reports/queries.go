// Package reports consultas de diagnóstico sobre las tablas y el informe de rendimiento
// que mide cuánto tarda cada vista y cada consulta.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-csv/internal/application/views"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/index"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// ReportUseCase consultas ad hoc de solo lectura.
type ReportUseCase struct {
	tables repository.Tables
	views  *views.ViewUseCase
	now    func() time.Time
	since  func(time.Time) time.Duration
}

// NewReportUseCase construye el caso de uso. now nil = time.Now.
func NewReportUseCase(tables repository.Tables, v *views.ViewUseCase, now func() time.Time) *ReportUseCase {
	if now == nil {
		now = time.Now
	}
	return &ReportUseCase{tables: tables, views: v, now: now, since: time.Since}
}

// SetTimer reemplaza el cronómetro del informe de rendimiento (tests).
func (uc *ReportUseCase) SetTimer(since func(time.Time) time.Duration) {
	uc.since = since
}

// ProductsByCategoryName productos de la primera categoría cuyo nombre coincide exactamente.
// Sin coincidencia devuelve una lista vacía.
func (uc *ReportUseCase) ProductsByCategoryName(ctx context.Context, name string) ([]entity.Product, error) {
	categories, err := uc.tables.Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("productos por categoría: %w", err)
	}
	var (
		catID int64
		found bool
	)
	for _, c := range categories {
		if c.Name == name {
			catID, found = c.ID, true
			break
		}
	}
	if !found {
		return []entity.Product{}, nil
	}
	products, err := uc.tables.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("productos por categoría: %w", err)
	}
	byCategory := index.ByKey(products, func(p entity.Product) int64 { return p.CategoryID })
	if rows := byCategory[catID]; rows != nil {
		return rows, nil
	}
	return []entity.Product{}, nil
}

// ProductsAbovePrice productos con precio estrictamente mayor que minPrice, del más caro al más barato.
func (uc *ReportUseCase) ProductsAbovePrice(ctx context.Context, minPrice decimal.Decimal) ([]entity.Product, error) {
	products, err := uc.tables.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("productos por precio: %w", err)
	}
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if p.Price.GreaterThan(minPrice) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.GreaterThan(out[j].Price)
	})
	return out, nil
}

// SuppliersWithDeliveryCount número de entregas de cada proveedor (cero si no tiene).
func (uc *ReportUseCase) SuppliersWithDeliveryCount(ctx context.Context) ([]entity.SupplierDeliveryCount, error) {
	suppliers, err := uc.tables.Suppliers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("entregas por proveedor: %w", err)
	}
	deliveries, err := uc.tables.Deliveries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("entregas por proveedor: %w", err)
	}
	bySupplier := index.ByKey(deliveries, func(d entity.Delivery) int64 { return d.SupplierID })
	out := make([]entity.SupplierDeliveryCount, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, entity.SupplierDeliveryCount{Name: s.Name, DeliveriesCount: len(bySupplier[s.ID])})
	}
	return out, nil
}

// DeliveriesReport entregas entre from y to (YYYY-MM-DD, ambos inclusive). Un límite vacío no filtra.
func (uc *ReportUseCase) DeliveriesReport(ctx context.Context, from, to string) ([]entity.DeliveryView, error) {
	all, err := uc.views.DeliveriesFull(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]entity.DeliveryView, 0, len(all))
	for _, d := range all {
		if from != "" && d.DeliveryDate < from {
			continue
		}
		if to != "" && d.DeliveryDate > to {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
