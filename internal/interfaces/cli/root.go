// Package cli implementa la interfaz de línea de comandos `inventario` sobre los casos de uso.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/pkg/config"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

// RootOptions flags globales y dependencias compartidas por todos los comandos.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	cfg *config.Config
	app *App
}

// NewRootCommand crea el comando raíz. Las dependencias se construyen en PersistentPreRunE,
// cuando ya se conocen los flags globales.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:           "inventario",
		Short:         "Inventario de productos sobre archivos CSV",
		Long:          "Gestión de categorías, proveedores, productos y entregas almacenados en tablas CSV, con stock actualizado por cada entrega.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("formato %q inválido: debe ser uno de %v", opts.Format, ValidFormats))
			}
			level := opts.cfg.App.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			log := logger.New(logger.Config{Env: opts.cfg.App.Env, Level: level, Out: cmd.ErrOrStderr()})
			app, err := NewApp(opts.cfg, log)
			if err != nil {
				return err
			}
			opts.app = app
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "flags inválidos", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "salida detallada (log en nivel debug)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (json|text)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}
