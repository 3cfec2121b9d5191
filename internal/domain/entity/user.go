package entity

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleView    = "view"
)

// User representa un usuario con acceso a la CLI.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt hash, nunca plano
	Role         string // admin, manager, view
	FullName     string
	Phone        string
}
