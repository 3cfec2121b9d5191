package dto

// RegisterUserRequest entrada para crear un usuario.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin manager view"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest datos de perfil (sin contraseña).
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// UserResponse salida de un usuario; nunca incluye el hash.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// LoginResponse token de sesión + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
