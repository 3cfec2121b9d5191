package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/inventario-csv/internal/interfaces/cli"
	"github.com/jhoicas/inventario-csv/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(cli.ExitFailure)
	}

	// Ctrl+C cancela el contexto; las escrituras en curso terminan o se reaplican desde el journal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCommand(cfg))
	stop()
	os.Exit(code)
}
