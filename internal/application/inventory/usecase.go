package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-csv/internal/application/dto"
	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

// MutationUseCase altas y ediciones validadas. Mantiene Product.Quantity coherente con las
// entregas: cada alta o edición de una entrega ajusta el stock en la misma transacción.
type MutationUseCase struct {
	txRunner TxRunner
	rows     RowStore
	log      *logger.Logger
	now      func() time.Time
}

// NewMutationUseCase construye el caso de uso. now nil = time.Now.
func NewMutationUseCase(txRunner TxRunner, rows RowStore, log *logger.Logger, now func() time.Time) *MutationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &MutationUseCase{
		txRunner: txRunner,
		rows:     rows,
		log:      log.Named("inventory"),
		now:      now,
	}
}

// Get devuelve una fila por id de cualquier tabla. No requiere rol.
func (uc *MutationUseCase) Get(ctx context.Context, table string, id int64) (repository.Row, error) {
	return uc.rows.Get(ctx, table, id)
}

// AddCategory crea una categoría con el siguiente id.
func (uc *MutationUseCase) AddCategory(ctx context.Context, in dto.CreateCategoryRequest) (entity.Category, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return entity.Category{}, err
	}
	if err := dto.Validate(in); err != nil {
		return entity.Category{}, err
	}
	var created entity.Category
	err := uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		rows, err := tx.Categories.List(ctx)
		if err != nil {
			return err
		}
		id, err := tx.Categories.NextID(ctx)
		if err != nil {
			return err
		}
		created = entity.Category{ID: id, Name: in.Name, Description: in.Description}
		return tx.Categories.SaveAll(ctx, append(rows, created))
	})
	if err != nil {
		return entity.Category{}, fmt.Errorf("crear categoría: %w", err)
	}
	uc.log.Info().Int64("category_id", created.ID).Str("name", created.Name).Msg("categoría creada")
	return created, nil
}

// AddSupplier crea un proveedor con el siguiente id.
func (uc *MutationUseCase) AddSupplier(ctx context.Context, in dto.CreateSupplierRequest) (entity.Supplier, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return entity.Supplier{}, err
	}
	if err := dto.Validate(in); err != nil {
		return entity.Supplier{}, err
	}
	var created entity.Supplier
	err := uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		rows, err := tx.Suppliers.List(ctx)
		if err != nil {
			return err
		}
		id, err := tx.Suppliers.NextID(ctx)
		if err != nil {
			return err
		}
		created = entity.Supplier{ID: id, Name: in.Name, Contact: in.Contact, Address: in.Address}
		return tx.Suppliers.SaveAll(ctx, append(rows, created))
	})
	if err != nil {
		return entity.Supplier{}, fmt.Errorf("crear proveedor: %w", err)
	}
	uc.log.Info().Int64("supplier_id", created.ID).Str("name", created.Name).Msg("proveedor creado")
	return created, nil
}

// AddProduct crea un producto. category_id y supplier_id no se comprueban contra sus tablas.
func (uc *MutationUseCase) AddProduct(ctx context.Context, in dto.CreateProductRequest) (entity.Product, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return entity.Product{}, err
	}
	if err := dto.Validate(in); err != nil {
		return entity.Product{}, err
	}
	if in.Price.IsNegative() {
		return entity.Product{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	var created entity.Product
	err := uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		rows, err := tx.Products.List(ctx)
		if err != nil {
			return err
		}
		id, err := tx.Products.NextID(ctx)
		if err != nil {
			return err
		}
		created = entity.Product{
			ID:         id,
			Name:       in.Name,
			CategoryID: in.CategoryID,
			SupplierID: in.SupplierID,
			Price:      in.Price,
			Quantity:   in.Quantity,
			CreatedAt:  uc.now().Format(entity.TimestampLayout),
		}
		return tx.Products.SaveAll(ctx, append(rows, created))
	})
	if err != nil {
		return entity.Product{}, fmt.Errorf("crear producto: %w", err)
	}
	uc.log.Info().
		Int64("product_id", created.ID).
		Str("price", created.Price.String()).
		Int64("quantity", created.Quantity).
		Msg("producto creado")
	return created, nil
}

// UpdateRow actualiza campos de una fila de cualquier tabla. Solo se aplican las claves que ya
// existen en la fila; el resto se ignora, igual que id. Cada valor se convierte al tipo del
// esquema. Editar products.quantity por aquí no toca las entregas.
func (uc *MutationUseCase) UpdateRow(ctx context.Context, table string, id int64, updates map[string]any) (repository.Row, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return nil, err
	}
	var updated repository.Row
	err := uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		rows, err := tx.Rows.Load(ctx, table)
		if err != nil {
			return err
		}
		pos := -1
		for i, r := range rows {
			if r.ID() == id {
				pos = i
				break
			}
		}
		if pos < 0 {
			return fmt.Errorf("%s id=%d: %w", table, id, domain.ErrNotFound)
		}
		row := rows[pos]
		for field, raw := range updates {
			if field == "id" {
				continue
			}
			if _, ok := row[field]; !ok {
				continue
			}
			v, err := uc.rows.Coerce(table, field, raw)
			if err != nil {
				return err
			}
			row[field] = v
		}
		updated = row
		return tx.Rows.Save(ctx, table, rows)
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar %s: %w", table, err)
	}
	uc.log.Info().Str("table", table).Int64("id", id).Int("fields", len(updates)).Msg("fila actualizada")
	return updated, nil
}

// AddDelivery registra una entrega y suma su cantidad al stock del producto, en una sola
// transacción. Si el producto no existe la entrega se guarda igual y el stock no cambia.
func (uc *MutationUseCase) AddDelivery(ctx context.Context, in dto.CreateDeliveryRequest) (entity.Delivery, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return entity.Delivery{}, err
	}
	if err := dto.Validate(in); err != nil {
		return entity.Delivery{}, err
	}
	now := uc.now()
	date := in.DeliveryDate
	if date == "" {
		date = now.Format(entity.DateLayout)
	}

	var (
		created  entity.Delivery
		adjusted bool
	)
	err := uc.txRunner.Run(ctx, func(deliveryRepo repository.DeliveryRepository, productRepo repository.ProductRepository) error {
		deliveries, err := deliveryRepo.List(ctx)
		if err != nil {
			return err
		}
		id, err := deliveryRepo.NextID(ctx)
		if err != nil {
			return err
		}
		created = entity.Delivery{
			ID:           id,
			ProductID:    in.ProductID,
			SupplierID:   in.SupplierID,
			Quantity:     in.Quantity,
			DeliveryDate: date,
			CreatedAt:    now.Format(entity.TimestampLayout),
		}
		if err := deliveryRepo.SaveAll(ctx, append(deliveries, created)); err != nil {
			return err
		}

		products, err := productRepo.List(ctx)
		if err != nil {
			return err
		}
		adjusted = adjustStock(products, in.ProductID, in.Quantity)
		if !adjusted {
			return nil
		}
		return productRepo.SaveAll(ctx, products)
	})
	if err != nil {
		return entity.Delivery{}, fmt.Errorf("registrar entrega: %w", err)
	}
	if !adjusted {
		uc.log.Warn().Int64("delivery_id", created.ID).Int64("product_id", in.ProductID).
			Msg("producto inexistente: entrega registrada sin ajuste de stock")
	}
	uc.log.Info().
		Int64("delivery_id", created.ID).
		Int64("product_id", created.ProductID).
		Int64("quantity", created.Quantity).
		Msg("entrega registrada")
	return created, nil
}

// UpdateDelivery edita una entrega. Si cambian el producto o la cantidad, resta la cantidad
// anterior al producto anterior y suma la nueva al producto nuevo (puede ser el mismo), y
// guarda productos una sola vez. Los productos inexistentes se omiten.
func (uc *MutationUseCase) UpdateDelivery(ctx context.Context, id int64, in dto.UpdateDeliveryRequest) (entity.Delivery, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return entity.Delivery{}, err
	}
	if err := dto.Validate(in); err != nil {
		return entity.Delivery{}, err
	}

	var old, updated entity.Delivery
	err := uc.txRunner.Run(ctx, func(deliveryRepo repository.DeliveryRepository, productRepo repository.ProductRepository) error {
		deliveries, err := deliveryRepo.List(ctx)
		if err != nil {
			return err
		}
		pos := -1
		for i, d := range deliveries {
			if d.ID == id {
				pos = i
				break
			}
		}
		if pos < 0 {
			return fmt.Errorf("entrega id=%d: %w", id, domain.ErrNotFound)
		}
		old = deliveries[pos]
		updated = mergeDelivery(old, in)
		deliveries[pos] = updated
		if err := deliveryRepo.SaveAll(ctx, deliveries); err != nil {
			return err
		}

		if old.ProductID == updated.ProductID && old.Quantity == updated.Quantity {
			return nil
		}
		products, err := productRepo.List(ctx)
		if err != nil {
			return err
		}
		removed := adjustStock(products, old.ProductID, -old.Quantity)
		added := adjustStock(products, updated.ProductID, updated.Quantity)
		if !removed && !added {
			return nil
		}
		return productRepo.SaveAll(ctx, products)
	})
	if err != nil {
		return entity.Delivery{}, fmt.Errorf("actualizar entrega: %w", err)
	}
	uc.log.Info().
		Int64("delivery_id", id).
		Int64("old_product_id", old.ProductID).
		Int64("new_product_id", updated.ProductID).
		Int64("old_quantity", old.Quantity).
		Int64("new_quantity", updated.Quantity).
		Msg("entrega actualizada")
	return updated, nil
}

func mergeDelivery(d entity.Delivery, in dto.UpdateDeliveryRequest) entity.Delivery {
	if in.ProductID != nil {
		d.ProductID = *in.ProductID
	}
	if in.SupplierID != nil {
		d.SupplierID = *in.SupplierID
	}
	if in.Quantity != nil {
		d.Quantity = *in.Quantity
	}
	if in.DeliveryDate != nil {
		d.DeliveryDate = *in.DeliveryDate
	}
	return d
}

// adjustStock suma delta a la cantidad del producto productID; false si no existe.
func adjustStock(products []entity.Product, productID, delta int64) bool {
	for i := range products {
		if products[i].ID == productID {
			products[i].Quantity += delta
			return true
		}
	}
	return false
}
