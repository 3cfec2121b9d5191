package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/application/dto"
	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/infrastructure/csvstore"
)

// NewUpdateCommand ediciones; requieren sesión con rol manager o admin.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edición de filas y entregas",
	}
	cmd.AddCommand(newUpdateRowCommand(opts))
	cmd.AddCommand(newUpdateDeliveryCommand(opts))
	return cmd
}

// requireCoreTable la tabla de usuarios solo se toca desde "user".
func requireCoreTable(table string) error {
	for _, t := range csvstore.CoreTables() {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (use %s)", domain.ErrUnknownTable, table, strings.Join(csvstore.CoreTables(), ", "))
}

// parseAssignments convierte campo=valor en el mapa de cambios.
func parseAssignments(args []string) (map[string]any, error) {
	updates := make(map[string]any, len(args))
	for _, a := range args {
		field, value, ok := strings.Cut(a, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("asignación %q, se espera campo=valor: %w", a, domain.ErrInvalidInput)
		}
		updates[field] = value
	}
	return updates, nil
}

func newUpdateRowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "row <table> <id> campo=valor...",
		Short: "Actualiza campos de una fila",
		Long: `Actualiza los campos indicados de una fila. id y los campos que la fila no tiene se ignoran.
Cambiar products.quantity por aquí no registra ninguna entrega.

Ejemplo:
  inventario update row products 3 price=120.50 name="Peras"`,
		Args: usageArgs(cobra.MinimumNArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCoreTable(args[0]); err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			updates, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			row, err := opts.app.mutations.UpdateRow(ctx, args[0], id, updates)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, row, func(w io.Writer) error {
				return printRow(w, row)
			})
		},
	}
}

func newUpdateDeliveryCommand(opts *RootOptions) *cobra.Command {
	var (
		productID, supplierID, quantity int64
		date                            string
	)

	cmd := &cobra.Command{
		Use:   "delivery <id>",
		Short: "Edita una entrega y reajusta el stock",
		Long: `Edita una entrega. Solo se cambian los campos indicados. Si cambia el producto o la
cantidad, la cantidad anterior se resta del producto anterior y la nueva se suma al nuevo.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var in dto.UpdateDeliveryRequest
			flags := cmd.Flags()
			if flags.Changed("product") {
				in.ProductID = &productID
			}
			if flags.Changed("supplier") {
				in.SupplierID = &supplierID
			}
			if flags.Changed("quantity") {
				in.Quantity = &quantity
			}
			if flags.Changed("date") {
				in.DeliveryDate = &date
			}
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			d, err := opts.app.mutations.UpdateDelivery(ctx, id, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, d, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Entrega %d actualizada: producto %d, cantidad %d, fecha %s\n",
					d.ID, d.ProductID, d.Quantity, d.DeliveryDate)
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&productID, "product", 0, "nuevo id de producto")
	cmd.Flags().Int64Var(&supplierID, "supplier", 0, "nuevo id de proveedor")
	cmd.Flags().Int64Var(&quantity, "quantity", 0, "nueva cantidad (> 0)")
	cmd.Flags().StringVar(&date, "date", "", "nueva fecha YYYY-MM-DD")

	return cmd
}
