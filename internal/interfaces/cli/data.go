package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewBackupCommand copia el directorio de datos a la carpeta de respaldos.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [name]",
		Short: "Respalda el directorio de datos (requiere rol manager)",
		Long: `Copia todos los archivos del directorio de datos a <BACKUP_DIR>/<name>.
Sin nombre se usa products_db_YYYYMMDD_HHMMSS. Una ruta absoluta no puede coincidir
con el directorio de datos, estar dentro de él ni contenerlo.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			path, err := opts.app.backup.Backup(ctx, name)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"path": path}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Respaldo creado en %s\n", path)
				return err
			})
		},
	}
}

// NewRestoreCommand copia los CSV de un respaldo al directorio de datos.
func NewRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <dir>",
		Short: "Restaura un respaldo (requiere rol manager)",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			names, err := opts.app.backup.Restore(ctx, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, names, func(w io.Writer) error {
				for _, n := range names {
					fmt.Fprintf(w, "Restaurado %s\n", n)
				}
				return nil
			})
		},
	}
}

// ImportResult salida de import.
type ImportResult struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// NewImportCommand reemplaza una tabla con un CSV externo.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "import <table> <file>",
		Short: "Importa un CSV externo a una tabla (requiere rol manager)",
		Long: `Reemplaza el contenido de la tabla con el archivo indicado. La cabecera debe coincidir
con el esquema de la tabla. --encoding admite utf-8, windows-1251, windows-1252, koi8-r
e iso-8859-1.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]
			if err := requireCoreTable(table); err != nil {
				return err
			}
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("abrir %s: %w", args[1], err)
			}
			defer f.Close()

			n, err := opts.app.store.Import(ctx, table, f, encoding)
			if err != nil {
				return err
			}
			res := ImportResult{Table: table, Rows: n}
			return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Importadas %d filas en %s\n", n, table)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "utf-8", "codificación del archivo")

	return cmd
}
