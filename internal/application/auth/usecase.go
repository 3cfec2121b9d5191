// Package auth usuarios de la CLI: alta, login con token JWT, contraseñas bcrypt y perfil.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-csv/internal/application/dto"
	"github.com/jhoicas/inventario-csv/internal/domain"
	"github.com/jhoicas/inventario-csv/internal/domain/access"
	"github.com/jhoicas/inventario-csv/internal/domain/entity"
	"github.com/jhoicas/inventario-csv/internal/domain/repository"
	"github.com/jhoicas/inventario-csv/pkg/jwt"
	"github.com/jhoicas/inventario-csv/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ErrSecretMissing la configuración no tiene secreto para firmar tokens.
var ErrSecretMissing = errors.New("JWT_SECRET no configurado: defina la variable de entorno para iniciar sesión")

// TxRunner unidad de trabajo sobre las tablas.
type TxRunner interface {
	RunTables(ctx context.Context, fn func(tx repository.Tables) error) error
}

// AuthUseCase casos de uso de usuarios y sesiones.
type AuthUseCase struct {
	txRunner TxRunner
	users    repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(txRunner TxRunner, users repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{txRunner: txRunner, users: users, jwtCfg: jwtCfg, log: log.Named("auth")}
}

// fold normaliza un nombre de usuario para compararlo sin distinguir mayúsculas.
// cases.Caser tiene estado: uno nuevo por llamada.
func fold(username string) string {
	return cases.Fold().String(strings.TrimSpace(username))
}

// systemCtx sesión privilegiada para escrituras que ya autorizó la verificación de credenciales.
func systemCtx(ctx context.Context) context.Context {
	return access.WithSession(ctx, access.NewSession(access.RoleManager))
}

func findUser(users []entity.User, username string) int {
	key := fold(username)
	for i, u := range users {
		if fold(u.Username) == key {
			return i
		}
	}
	return -1
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: la contraseña no puede estar vacía", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register crea un usuario. Requiere rol manager. El nombre es único sin distinguir
// mayúsculas; si ya existe devuelve domain.ErrDuplicate.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	if err := access.RequirePrivileged(ctx); err != nil {
		return nil, err
	}
	return uc.register(ctx, in)
}

func (uc *AuthUseCase) register(ctx context.Context, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	var created entity.User
	err = uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		users, err := tx.Users.List(ctx)
		if err != nil {
			return err
		}
		if findUser(users, in.Username) >= 0 {
			return fmt.Errorf("usuario %q: %w", in.Username, domain.ErrDuplicate)
		}
		id, err := tx.Users.NextID(ctx)
		if err != nil {
			return err
		}
		created = entity.User{
			ID:           id,
			Username:     in.Username,
			PasswordHash: hash,
			Role:         in.Role,
			FullName:     strings.TrimSpace(in.FullName),
			Phone:        strings.TrimSpace(in.Phone),
		}
		return tx.Users.SaveAll(ctx, append(users, created))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("usuario creado")
	return toUserResponse(created), nil
}

// Bootstrap crea el primer administrador cuando la tabla de usuarios está vacía.
// Devuelve false si ya existían usuarios.
func (uc *AuthUseCase) Bootstrap(ctx context.Context, username, password string) (*dto.UserResponse, bool, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(users) > 0 {
		return nil, false, nil
	}
	u, err := uc.register(systemCtx(ctx), dto.RegisterUserRequest{
		Username: username,
		Password: password,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Login verifica usuario y contraseña y genera un token JWT con el rol.
// Credenciales incorrectas o usuario inexistente devuelven domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(uc.jwtCfg.Secret) == "" {
		return nil, ErrSecretMissing
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	i := findUser(users, in.Username)
	if i < 0 {
		return nil, domain.ErrUnauthorized
	}
	user := users[i]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", user.Username).Msg("login")
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// SessionFromToken valida el token y devuelve la sesión correspondiente al rol del usuario.
func (uc *AuthUseCase) SessionFromToken(token string) (*access.Session, error) {
	username, role, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return access.NewUserSession(username, role), nil
}

// ChangePassword cambia la contraseña propia comprobando la actual. No requiere rol:
// la contraseña vigente autoriza la escritura.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	ctx = systemCtx(ctx)
	return uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		users, err := tx.Users.List(ctx)
		if err != nil {
			return err
		}
		i := findUser(users, username)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		if err := bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(oldPassword)); err != nil {
			return domain.ErrUnauthorized
		}
		users[i].PasswordHash = hash
		return tx.Users.SaveAll(ctx, users)
	})
}

// SetPassword asigna una contraseña sin comprobar la anterior. Requiere rol manager.
func (uc *AuthUseCase) SetPassword(ctx context.Context, username, newPassword string) error {
	if err := access.RequirePrivileged(ctx); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		users, err := tx.Users.List(ctx)
		if err != nil {
			return err
		}
		i := findUser(users, username)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		users[i].PasswordHash = hash
		return tx.Users.SaveAll(ctx, users)
	})
}

// Delete elimina un usuario. Requiere rol manager. No se puede eliminar el usuario de la
// propia sesión ni el último usuario.
func (uc *AuthUseCase) Delete(ctx context.Context, username string) error {
	if err := access.RequirePrivileged(ctx); err != nil {
		return err
	}
	if self := access.FromContext(ctx).Username(); self != "" && fold(self) == fold(username) {
		return fmt.Errorf("%w: no se puede eliminar el usuario de la sesión actual", domain.ErrInvalidInput)
	}
	err := uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		users, err := tx.Users.List(ctx)
		if err != nil {
			return err
		}
		i := findUser(users, username)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		if len(users) == 1 {
			return fmt.Errorf("%w: no se puede eliminar el último usuario", domain.ErrInvalidInput)
		}
		return tx.Users.SaveAll(ctx, append(users[:i], users[i+1:]...))
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("username", username).Msg("usuario eliminado")
	return nil
}

// UpdateProfile cambia nombre de usuario, nombre completo y teléfono. Lo puede hacer un
// manager o el propio usuario.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, username string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	self := access.FromContext(ctx).Username()
	if err := access.RequirePrivileged(ctx); err != nil {
		if self == "" || fold(self) != fold(username) {
			return nil, err
		}
		ctx = systemCtx(ctx)
	}
	in.Username = strings.TrimSpace(in.Username)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var updated entity.User
	err := uc.txRunner.RunTables(ctx, func(tx repository.Tables) error {
		users, err := tx.Users.List(ctx)
		if err != nil {
			return err
		}
		i := findUser(users, username)
		if i < 0 {
			return domain.ErrUserNotFound
		}
		if j := findUser(users, in.Username); j >= 0 && j != i {
			return fmt.Errorf("usuario %q: %w", in.Username, domain.ErrDuplicate)
		}
		users[i].Username = in.Username
		users[i].FullName = strings.TrimSpace(in.FullName)
		users[i].Phone = strings.TrimSpace(in.Phone)
		updated = users[i]
		return tx.Users.SaveAll(ctx, users)
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// List usuarios sin el hash de contraseña.
func (uc *AuthUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

func toUserResponse(u entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
		Phone:    u.Phone,
	}
}
