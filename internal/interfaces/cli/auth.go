package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventario-csv/internal/application/dto"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
)

// NewLoginCommand verifica credenciales y guarda el token de sesión.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var in dto.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y guarda el token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.app.auth.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err := writeToken(opts.app.cfg.Storage.SessionFile, resp.Token); err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, resp.User, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Sesión iniciada: %s (%s)\n", resp.User.Username, resp.User.Role)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "usuario")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "contraseña")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewLogoutCommand elimina el token de sesión.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión actual",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := removeToken(opts.app.cfg.Storage.SessionFile); err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, nil, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Sesión cerrada")
				return err
			})
		},
	}
}

// WhoamiResult salida de whoami.
type WhoamiResult struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewWhoamiCommand muestra el usuario y el nivel de acceso de la sesión.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra la sesión actual",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			s := access.FromContext(ctx)
			res := WhoamiResult{Username: s.Username(), Role: string(s.Role())}
			return emit(cmd.OutOrStdout(), opts.Format, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s)\n", dash(res.Username), res.Role)
				return err
			})
		},
	}
}

// NewUserCommand administración de usuarios.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de usuarios",
	}
	cmd.AddCommand(newUserAddCommand(opts))
	cmd.AddCommand(newUserListCommand(opts))
	cmd.AddCommand(newUserDeleteCommand(opts))
	cmd.AddCommand(newUserPasswdCommand(opts))
	cmd.AddCommand(newUserProfileCommand(opts))
	return cmd
}

func printUser(w io.Writer, u *dto.UserResponse) error {
	_, err := fmt.Fprintf(w, "Usuario %d: %s (%s)\n", u.ID, u.Username, u.Role)
	return err
}

func newUserAddCommand(opts *RootOptions) *cobra.Command {
	var in dto.RegisterUserRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Crea un usuario (requiere rol manager)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			u, err := opts.app.auth.Register(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, u, func(w io.Writer) error { return printUser(w, u) })
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "usuario")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "contraseña")
	cmd.Flags().StringVar(&in.Role, "role", "view", "rol (admin|manager|view)")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "nombre completo")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono")

	return cmd
}

func newUserListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista los usuarios",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := opts.app.auth.List(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, users, func(w io.Writer) error {
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{fmt.Sprint(u.ID), u.Username, u.Role, dash(u.FullName), dash(u.Phone)})
				}
				return writeTable(w, []string{"ID", "USUARIO", "ROL", "NOMBRE", "TELÉFONO"}, rows)
			})
		},
	}
}

func newUserDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Elimina un usuario (requiere rol manager)",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := opts.app.auth.Delete(ctx, args[0]); err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"deleted": args[0]}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Usuario %s eliminado\n", args[0])
				return err
			})
		},
	}
}

// newUserPasswdCommand con --old cambia la contraseña del usuario de la sesión; sin --old
// un manager asigna la contraseña del usuario indicado.
func newUserPasswdCommand(opts *RootOptions) *cobra.Command {
	var oldPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "passwd [username]",
		Short: "Cambia una contraseña",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			username := access.FromContext(ctx).Username()
			if len(args) == 1 {
				username = args[0]
			}
			if username == "" {
				return NewExitError(ExitCommandError, "indique el usuario o inicie sesión")
			}
			if cmd.Flags().Changed("old") {
				err = opts.app.auth.ChangePassword(ctx, username, oldPassword, newPassword)
			} else {
				err = opts.app.auth.SetPassword(ctx, username, newPassword)
			}
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, map[string]string{"username": username}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Contraseña de %s actualizada\n", username)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&oldPassword, "old", "", "contraseña actual")
	cmd.Flags().StringVar(&newPassword, "new", "", "contraseña nueva")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

func newUserProfileCommand(opts *RootOptions) *cobra.Command {
	var in dto.UpdateProfileRequest

	cmd := &cobra.Command{
		Use:   "profile <username>",
		Short: "Actualiza nombre de usuario, nombre completo y teléfono",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.app.sessionContext(cmd.Context())
			if err != nil {
				return err
			}
			if in.Username == "" {
				in.Username = args[0]
			}
			u, err := opts.app.auth.UpdateProfile(ctx, args[0], in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts.Format, u, func(w io.Writer) error { return printUser(w, u) })
		},
	}

	cmd.Flags().StringVar(&in.Username, "new-username", "", "nuevo nombre de usuario")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "nombre completo")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "teléfono")

	return cmd
}
