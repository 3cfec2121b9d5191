// Package views calcula las vistas derivadas de solo lectura: productos y entregas con sus
// nombres relacionados, y existencias agregadas por categoría.
package views

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/index"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// ViewUseCase vistas sobre las tablas. No depende del rol de la sesión.
type ViewUseCase struct {
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	products   repository.ProductRepository
	deliveries repository.DeliveryRepository
	now        func() time.Time
}

// NewViewUseCase construye el caso de uso. now nil = time.Now.
func NewViewUseCase(tables repository.Tables, now func() time.Time) *ViewUseCase {
	if now == nil {
		now = time.Now
	}
	return &ViewUseCase{
		categories: tables.Categories,
		suppliers:  tables.Suppliers,
		products:   tables.Products,
		deliveries: tables.Deliveries,
		now:        now,
	}
}

func categoryID(c entity.Category) int64 { return c.ID }
func supplierID(s entity.Supplier) int64 { return s.ID }
func productID(p entity.Product) int64   { return p.ID }

// ProductsFull productos con categoría y proveedor. Una referencia colgante produce campos
// vacíos. limit <= 0 devuelve todos.
func (uc *ViewUseCase) ProductsFull(ctx context.Context, limit int) ([]entity.ProductView, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista productos: %w", err)
	}
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista productos: %w", err)
	}
	suppliers, err := uc.suppliers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista productos: %w", err)
	}
	byCategory := index.ByID(categories, categoryID)
	bySupplier := index.ByID(suppliers, supplierID)

	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	out := make([]entity.ProductView, 0, len(products))
	for _, p := range products {
		c, _ := index.Lookup(byCategory, p.CategoryID)
		s, _ := index.Lookup(bySupplier, p.SupplierID)
		out = append(out, entity.ProductView{
			ID:                  p.ID,
			ProductName:         p.Name,
			Price:               p.Price,
			Quantity:            p.Quantity,
			CreatedAt:           p.CreatedAt,
			CategoryName:        c.Name,
			CategoryDescription: c.Description,
			SupplierName:        s.Name,
			SupplierContact:     s.Contact,
		})
	}
	return out, nil
}

// DeliveriesFull entregas con producto y proveedor, ordenadas por fecha descendente
// (comparación lexicográfica de YYYY-MM-DD). Con daysBack se excluyen las anteriores a
// hoy - daysBack días; una fecha vacía queda al final y no pasa el corte.
func (uc *ViewUseCase) DeliveriesFull(ctx context.Context, daysBack *int) ([]entity.DeliveryView, error) {
	deliveries, err := uc.deliveries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista entregas: %w", err)
	}
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista entregas: %w", err)
	}
	suppliers, err := uc.suppliers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista entregas: %w", err)
	}
	byProduct := index.ByID(products, productID)
	bySupplier := index.ByID(suppliers, supplierID)

	out := make([]entity.DeliveryView, 0, len(deliveries))
	for _, d := range deliveries {
		p, found := index.Lookup(byProduct, d.ProductID)
		s, _ := index.Lookup(bySupplier, d.SupplierID)
		out = append(out, entity.DeliveryView{
			ID:           d.ID,
			Quantity:     d.Quantity,
			DeliveryDate: d.DeliveryDate,
			CreatedAt:    d.CreatedAt,
			ProductName:  p.Name,
			Price:        decimal.NullDecimal{Decimal: p.Price, Valid: found},
			SupplierName: s.Name,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeliveryDate > out[j].DeliveryDate
	})

	if daysBack == nil {
		return out, nil
	}
	cutoff := uc.now().AddDate(0, 0, -*daysBack).Format(entity.DateLayout)
	filtered := out[:0]
	for _, v := range out {
		if v.DeliveryDate >= cutoff {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// StockByCategory por cada categoría: número de productos, unidades y valor (precio ×
// cantidad) redondeado a 2 decimales. Las categorías sin productos aparecen con ceros.
func (uc *ViewUseCase) StockByCategory(ctx context.Context) ([]entity.CategoryStock, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista stock: %w", err)
	}
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("vista stock: %w", err)
	}
	byCategory := index.ByKey(products, func(p entity.Product) int64 { return p.CategoryID })

	out := make([]entity.CategoryStock, 0, len(categories))
	for _, c := range categories {
		prods := byCategory[c.ID]
		var qty int64
		value := decimal.Zero
		for _, p := range prods {
			qty += p.Quantity
			value = value.Add(p.Price.Mul(decimal.NewFromInt(p.Quantity)))
		}
		out = append(out, entity.CategoryStock{
			CategoryName:  c.Name,
			ProductsCount: len(prods),
			TotalQuantity: qty,
			TotalValue:    value.Round(2),
		})
	}
	return out, nil
}
