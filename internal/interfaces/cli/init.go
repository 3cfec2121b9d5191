package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/application/seed"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
)

// InitResult salida de init.
type InitResult struct {
	Created      map[string]int `json:"created"`
	Skipped      map[string]int `json:"skipped"`
	AdminCreated bool           `json:"admin_created"`
}

// NewInitCommand crea directorios, carga los datos iniciales en las tablas vacías y,
// si se indica contraseña, crea el primer administrador.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	var adminUser, adminPassword string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Inicializa el directorio de datos con datos de ejemplo",
		Long: `Crea los directorios de datos, respaldos e informes y escribe los datos iniciales
en cada tabla vacía. Las tablas que ya tienen filas no se modifican.

Para iniciar sesión después (login) debe estar definida la variable JWT_SECRET.

Ejemplo:
  inventario init --admin-password s3cr3t`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := opts.app
			for _, dir := range []string{app.cfg.Storage.DataDir, app.cfg.Storage.BackupDir, app.cfg.Storage.ReportsDir} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("crear %s: %w", dir, err)
				}
			}
			data, err := seed.Default()
			if err != nil {
				return err
			}
			// init actúa como proceso de sistema: solo rellena tablas vacías.
			sys := access.WithSession(cmd.Context(), access.NewSession(access.RoleManager))
			res, err := app.seeder.Seed(sys, data)
			if err != nil {
				return err
			}
			out := InitResult{Created: res.Created, Skipped: res.Skipped}
			if adminPassword != "" {
				_, created, err := app.auth.Bootstrap(cmd.Context(), adminUser, adminPassword)
				if err != nil {
					return err
				}
				out.AdminCreated = created
			}
			return emit(cmd.OutOrStdout(), opts.Format, out, func(w io.Writer) error {
				for _, t := range sortedKeys(out.Created) {
					fmt.Fprintf(w, "Creada %s.csv: %d filas\n", t, out.Created[t])
				}
				for _, t := range sortedKeys(out.Skipped) {
					fmt.Fprintf(w, "La tabla %s ya contiene datos (%d filas), se omite\n", t, out.Skipped[t])
				}
				if out.AdminCreated {
					fmt.Fprintf(w, "Usuario administrador %q creado\n", adminUser)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&adminUser, "admin-user", "admin", "nombre del primer administrador")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "contraseña del primer administrador (solo si no hay usuarios)")

	return cmd
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
