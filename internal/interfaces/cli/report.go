package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/infrastructure/pdf"
)

// ReportResult salida de report en formato JSON.
type ReportResult struct {
	Path    string      `json:"path"`
	PDFPath string      `json:"pdf_path,omitempty"`
	Report  interface{} `json:"report"`
}

// NewReportCommand mide las consultas del sistema y guarda el informe de rendimiento.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Informe de rendimiento de las consultas",
		Long: `Ejecuta cada consulta, mide su duración y guarda el informe en el directorio de
informes como performance_report_YYYYMMDD_HHMMSS.txt. Con --pdf escribe además el
informe de existencias en PDF.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := opts.app
			rep, err := app.reports.PerformanceReport(ctx)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := rep.RenderText(&buf); err != nil {
				return err
			}
			dir := app.cfg.Storage.ReportsDir
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("crear %s: %w", dir, err)
			}
			path := filepath.Join(dir, rep.FileName())
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("guardar informe: %w", err)
			}
			app.log.Info().Str("path", path).Msg("informe de rendimiento guardado")

			res := ReportResult{Path: path, Report: rep}
			if pdfPath != "" {
				if err := writeStockPDF(cmd, opts, pdfPath); err != nil {
					return err
				}
				res.PDFPath = pdfPath
			}
			return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) error {
				if _, err := w.Write(buf.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(w, "\nInforme guardado en %s\n", path)
				if res.PDFPath != "" {
					fmt.Fprintf(w, "PDF de existencias guardado en %s\n", res.PDFPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "ruta del PDF de existencias")

	return cmd
}

func writeStockPDF(cmd *cobra.Command, opts *RootOptions, path string) error {
	ctx := cmd.Context()
	app := opts.app
	stock, err := app.views.StockByCategory(ctx)
	if err != nil {
		return err
	}
	products, err := app.views.ProductsFull(ctx, 0)
	if err != nil {
		return err
	}
	data, err := app.pdf.Generate(ctx, pdf.StockReport{
		AppName:     app.cfg.App.Name,
		GeneratedAt: app.now(),
		Stock:       stock,
		Products:    products,
	})
	if err != nil {
		return fmt.Errorf("generar PDF: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("guardar PDF: %w", err)
	}
	return nil
}
