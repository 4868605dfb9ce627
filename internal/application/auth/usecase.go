package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/billing-api/internal/application/dto"
	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminConfig credenciales del administrador (usuario único de la app).
// Si PasswordHash (bcrypt) está definido se usa; si no, se compara contra
// Password en claro (default admin/admin, herencia del producto original).
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

// AuthUseCase login del administrador: valida credenciales y emite un JWT
// que consume el middleware de las rutas protegidas.
type AuthUseCase struct {
	admin  AdminConfig
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(admin AdminConfig, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{admin: admin, jwtCfg: jwtCfg}
}

// Login verifica usuario/contraseña y genera el token.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.admin.Username)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	if uc.admin.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(in.Password)); err != nil {
			return nil, domain.ErrUnauthorized
		}
	} else if subtle.ConstantTimeCompare([]byte(in.Password), []byte(uc.admin.Password)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.admin.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Username: uc.admin.Username}, nil
}
