package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/application/dto"
)

// NewAddCommand altas; requieren sesión con rol manager o admin.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Altas de categorías, proveedores, productos y entregas",
	}
	cmd.AddCommand(newAddCategoryCommand(opts))
	cmd.AddCommand(newAddSupplierCommand(opts))
	cmd.AddCommand(newAddProductCommand(opts))
	cmd.AddCommand(newAddDeliveryCommand(opts))
	return cmd
}

func created(w io.Writer, what string, id int64) error {
	_, err := fmt.Fprintf(w, "%s creado con id %d\n", what, id)
	return err
}

func newAddCategoryCommand(opts *RootOptions) *cobra.Command {
	var in dto.CreateCategoryRequest

	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "Crea una categoría",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			c, err := opts.app.mutations.AddCategory(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, c, func(w io.Writer) error {
				return created(w, "Categoría", c.ID)
			})
		},
	}

	cmd.Flags().StringVar(&in.Description, "description", "", "descripción")

	return cmd
}

func newAddSupplierCommand(opts *RootOptions) *cobra.Command {
	var in dto.CreateSupplierRequest

	cmd := &cobra.Command{
		Use:   "supplier <name>",
		Short: "Crea un proveedor",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			s, err := opts.app.mutations.AddSupplier(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, s, func(w io.Writer) error {
				return created(w, "Proveedor", s.ID)
			})
		},
	}

	cmd.Flags().StringVar(&in.Contact, "contact", "", "contacto")
	cmd.Flags().StringVar(&in.Address, "address", "", "dirección")

	return cmd
}

func newAddProductCommand(opts *RootOptions) *cobra.Command {
	var (
		in    dto.CreateProductRequest
		price string
	)

	cmd := &cobra.Command{
		Use:   "product <name>",
		Short: "Crea un producto",
		Long: `Crea un producto. La categoría y el proveedor no se comprueban.

Ejemplo:
  inventario add product "Manzanas" --category 1 --supplier 1 --price 89.90 --quantity 10`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			in.Name = args[0]
			if in.Price, err = parseMoney(price); err != nil {
				return err
			}
			p, err := opts.app.mutations.AddProduct(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, p, func(w io.Writer) error {
				return created(w, "Producto", p.ID)
			})
		},
	}

	cmd.Flags().Int64Var(&in.CategoryID, "category", 0, "id de categoría")
	cmd.Flags().Int64Var(&in.SupplierID, "supplier", 0, "id de proveedor")
	cmd.Flags().StringVar(&price, "price", "0", "precio")
	cmd.Flags().Int64Var(&in.Quantity, "quantity", 0, "cantidad inicial")

	return cmd
}

func newAddDeliveryCommand(opts *RootOptions) *cobra.Command {
	var in dto.CreateDeliveryRequest

	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Registra una entrega y suma la cantidad al stock",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			d, err := opts.app.mutations.AddDelivery(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, d, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Entrega %d registrada: producto %d, cantidad %d, fecha %s\n",
					d.ID, d.ProductID, d.Quantity, d.DeliveryDate)
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&in.ProductID, "product", 0, "id de producto")
	cmd.Flags().Int64Var(&in.SupplierID, "supplier", 0, "id de proveedor")
	cmd.Flags().Int64Var(&in.Quantity, "quantity", 0, "cantidad (> 0)")
	cmd.Flags().StringVar(&in.DeliveryDate, "date", "", "fecha YYYY-MM-DD (por defecto hoy)")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}
