// Package seed carga los datos iniciales del inventario (embebidos en seed.yaml).
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

//go:embed seed.yaml
var seedYAML []byte

type productSeed struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	CategoryID int64  `yaml:"category_id"`
	SupplierID int64  `yaml:"supplier_id"`
	Price      string `yaml:"price"`
	Quantity   int64  `yaml:"quantity"`
	CreatedAt  string `yaml:"created_at"`
}

type categorySeed struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type supplierSeed struct {
	ID      int64  `yaml:"id"`
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
	Address string `yaml:"address"`
}

type deliverySeed struct {
	ID           int64  `yaml:"id"`
	ProductID    int64  `yaml:"product_id"`
	SupplierID   int64  `yaml:"supplier_id"`
	Quantity     int64  `yaml:"quantity"`
	DeliveryDate string `yaml:"delivery_date"`
	CreatedAt    string `yaml:"created_at"`
}

type document struct {
	Categories []categorySeed `yaml:"categories"`
	Suppliers  []supplierSeed `yaml:"suppliers"`
	Products   []productSeed  `yaml:"products"`
	Deliveries []deliverySeed `yaml:"deliveries"`
}

// Data conjunto de filas iniciales.
type Data struct {
	Categories []entity.Category
	Suppliers  []entity.Supplier
	Products   []entity.Product
	Deliveries []entity.Delivery
}

// Parse decodifica un documento YAML de datos iniciales.
func Parse(raw []byte) (*Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	data := &Data{}
	for _, c := range doc.Categories {
		data.Categories = append(data.Categories, entity.Category(c))
	}
	for _, s := range doc.Suppliers {
		data.Suppliers = append(data.Suppliers, entity.Supplier(s))
	}
	for _, p := range doc.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("seed: precio de producto %d: %w", p.ID, err)
		}
		data.Products = append(data.Products, entity.Product{
			ID:         p.ID,
			Name:       p.Name,
			CategoryID: p.CategoryID,
			SupplierID: p.SupplierID,
			Price:      price,
			Quantity:   p.Quantity,
			CreatedAt:  p.CreatedAt,
		})
	}
	for _, d := range doc.Deliveries {
		data.Deliveries = append(data.Deliveries, entity.Delivery(d))
	}
	return data, nil
}

// Default datos embebidos.
func Default() (*Data, error) {
	return Parse(seedYAML)
}

// TxRunner unidad de trabajo sobre las tablas.
type TxRunner interface {
	RunTables(ctx context.Context, fn func(tx repository.Tables) error) error
}

// Result filas escritas por tabla; una tabla que ya tenía datos aparece en Skipped.
type Result struct {
	Created map[string]int
	Skipped map[string]int
}

// Seeder escribe los datos iniciales en las tablas vacías.
type Seeder struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewSeeder construye el seeder.
func NewSeeder(txRunner TxRunner, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{txRunner: txRunner, log: log.Named("seed")}
}

// Seed escribe data en cada tabla que está vacía y deja intactas las demás. Requiere rol
// manager. Todas las tablas se confirman juntas.
func (s *Seeder) Seed(ctx context.Context, data *Data) (*Result, error) {
	res := &Result{Created: map[string]int{}, Skipped: map[string]int{}}
	err := s.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		if err := seedTable[entity.Category](ctx, "categories", tx.Categories, data.Categories, res); err != nil {
			return err
		}
		if err := seedTable[entity.Supplier](ctx, "suppliers", tx.Suppliers, data.Suppliers, res); err != nil {
			return err
		}
		if err := seedTable[entity.Product](ctx, "products", tx.Products, data.Products, res); err != nil {
			return err
		}
		return seedTable[entity.Delivery](ctx, "deliveries", tx.Deliveries, data.Deliveries, res)
	})
	if err != nil {
		return nil, err
	}
	for table, n := range res.Created {
		s.log.Info().Str("table", table).Int("rows", n).Msg("tabla inicializada")
	}
	for table, n := range res.Skipped {
		s.log.Info().Str("table", table).Int("rows", n).Msg("tabla con datos, se omite")
	}
	return res, nil
}

func seedTable[T any](ctx context.Context, name string, repo repository.Table[T], rows []T, res *Result) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		res.Skipped[name] = len(existing)
		return nil
	}
	if err := repo.SaveAll(ctx, rows); err != nil {
		return err
	}
	res.Created[name] = len(rows)
	return nil
}
