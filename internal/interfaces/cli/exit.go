package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/domain"
)

// Códigos de salida de la CLI.
const (
	ExitSuccess      = 0 // ejecución correcta
	ExitFailure      = 1 // error genérico (E/S, datos corruptos)
	ExitCommandError = 2 // uso incorrecto o entrada inválida
	ExitPermission   = 3 // se requiere rol manager o credenciales válidas
	ExitNotFound     = 4 // id o usuario inexistente
)

// ExitError error con un código de salida explícito.
type ExitError struct {
	Code    int
	Message string
	Err     error // opcional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError crea un ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError envuelve err con un código de salida.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode traduce un error al código de salida. Los errores de dominio se clasifican por tipo.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	switch {
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return ExitPermission
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return ExitNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownTable), errors.Is(err, domain.ErrDuplicate):
		return ExitCommandError
	}
	return ExitFailure
}

// Execute ejecuta la CLI, imprime el error en stderr y devuelve el código de salida.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	return ExitCode(err)
}

// usageArgs envuelve un validador de argumentos de cobra para que falle con ExitCommandError.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "argumentos inválidos", err)
		}
		return nil
	}
}
