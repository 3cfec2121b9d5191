package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
)

// NewShowCommand consultas de solo lectura; no requieren sesión.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Consultas sobre el inventario",
	}
	cmd.AddCommand(newShowProductsCommand(opts))
	cmd.AddCommand(newShowDeliveriesCommand(opts))
	cmd.AddCommand(newShowStockCommand(opts))
	cmd.AddCommand(newShowSuppliersCommand(opts))
	cmd.AddCommand(newShowRowCommand(opts))
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", s, domain.ErrInvalidInput)
	}
	return id, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("importe %q: %w", s, domain.ErrInvalidInput)
	}
	return d, nil
}

func productRows(products []entity.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			fmt.Sprint(p.ID), p.Name, money(p.Price), fmt.Sprint(p.Quantity),
			fmt.Sprint(p.CategoryID), fmt.Sprint(p.SupplierID),
		})
	}
	return rows
}

var productHeader = []string{"ID", "PRODUCTO", "PRECIO", "CANTIDAD", "CATEGORÍA", "PROVEEDOR"}

func newShowProductsCommand(opts *RootOptions) *cobra.Command {
	var (
		limit    int
		category string
		above    string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Lista productos con categoría y proveedor",
		Long: `Sin filtros muestra la vista completa de productos ordenada por id.
--category filtra por nombre exacto de categoría y --above por precio estrictamente mayor.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			switch {
			case category != "" && above != "":
				return NewExitError(ExitCommandError, "--category y --above son excluyentes")
			case category != "":
				products, err := opts.app.reports.ProductsByCategoryName(ctx, category)
				if err != nil {
					return err
				}
				return emit(w, opts.Format, products, func(w io.Writer) error {
					return writeTable(w, productHeader, productRows(products))
				})
			case above != "":
				minPrice, err := parseMoney(above)
				if err != nil {
					return err
				}
				products, err := opts.app.reports.ProductsAbovePrice(ctx, minPrice)
				if err != nil {
					return err
				}
				return emit(w, opts.Format, products, func(w io.Writer) error {
					return writeTable(w, productHeader, productRows(products))
				})
			}

			products, err := opts.app.views.ProductsFull(ctx, limit)
			if err != nil {
				return err
			}
			return emit(w, opts.Format, products, func(w io.Writer) error {
				rows := make([][]string, 0, len(products))
				for _, p := range products {
					rows = append(rows, []string{
						fmt.Sprint(p.ID), p.ProductName, money(p.Price), fmt.Sprint(p.Quantity),
						dash(p.CategoryName), dash(p.SupplierName), dash(p.SupplierContact),
					})
				}
				return writeTable(w, []string{"ID", "PRODUCTO", "PRECIO", "CANTIDAD", "CATEGORÍA", "PROVEEDOR", "CONTACTO"}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "máximo de filas (0 = todas)")
	cmd.Flags().StringVar(&category, "category", "", "nombre exacto de la categoría")
	cmd.Flags().StringVar(&above, "above", "", "precio mínimo (exclusivo)")

	return cmd
}

func newShowDeliveriesCommand(opts *RootOptions) *cobra.Command {
	var (
		days     int
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "deliveries",
		Short: "Lista entregas, de la más reciente a la más antigua",
		Long: `--days N limita a las entregas de los últimos N días.
--from y --to (YYYY-MM-DD, inclusivos) filtran por fecha de entrega.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				list []entity.DeliveryView
				err  error
			)
			switch {
			case cmd.Flags().Changed("days") && (from != "" || to != ""):
				return NewExitError(ExitCommandError, "--days no se combina con --from/--to")
			case from != "" || to != "":
				list, err = opts.app.reports.DeliveriesReport(ctx, from, to)
			case cmd.Flags().Changed("days"):
				list, err = opts.app.views.DeliveriesFull(ctx, &days)
			default:
				list, err = opts.app.views.DeliveriesFull(ctx, nil)
			}
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, list, func(w io.Writer) error {
				rows := make([][]string, 0, len(list))
				for _, d := range list {
					price := "—"
					if d.Price.Valid {
						price = money(d.Price.Decimal)
					}
					rows = append(rows, []string{
						fmt.Sprint(d.ID), dash(d.DeliveryDate), dash(d.ProductName), price,
						fmt.Sprint(d.Quantity), dash(d.SupplierName),
					})
				}
				return writeTable(w, []string{"ID", "FECHA", "PRODUCTO", "PRECIO", "CANTIDAD", "PROVEEDOR"}, rows)
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "solo los últimos N días")
	cmd.Flags().StringVar(&from, "from", "", "fecha inicial YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "fecha final YYYY-MM-DD")

	return cmd
}

func newShowStockCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "Existencias y valor por categoría",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			stock, err := opts.app.views.StockByCategory(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, stock, func(w io.Writer) error {
				rows := make([][]string, 0, len(stock))
				for _, s := range stock {
					rows = append(rows, []string{
						s.CategoryName, fmt.Sprint(s.ProductsCount), fmt.Sprint(s.TotalQuantity), money(s.TotalValue),
					})
				}
				return writeTable(w, []string{"CATEGORÍA", "PRODUCTOS", "CANTIDAD", "VALOR"}, rows)
			})
		},
	}
}

func newShowSuppliersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suppliers",
		Short: "Proveedores con número de entregas",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.app.reports.SuppliersWithDeliveryCount(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, list, func(w io.Writer) error {
				rows := make([][]string, 0, len(list))
				for _, s := range list {
					rows = append(rows, []string{s.Name, fmt.Sprint(s.DeliveriesCount)})
				}
				return writeTable(w, []string{"PROVEEDOR", "ENTREGAS"}, rows)
			})
		},
	}
}

func newShowRowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "row <table> <id>",
		Short: "Muestra una fila por id",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireCoreTable(args[0]); err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			row, err := opts.app.mutations.Get(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, row, func(w io.Writer) error {
				return printRow(w, row)
			})
		},
	}
}

func printRow(w io.Writer, row repository.Row) error {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(row[k])})
	}
	return writeTable(w, []string{"CAMPO", "VALOR"}, rows)
}
