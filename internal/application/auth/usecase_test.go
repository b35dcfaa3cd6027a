package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrive/inventario-api/internal/application/auth"
	"github.com/hidrive/inventario-api/internal/application/dto"
	"github.com/hidrive/inventario-api/internal/domain"
	"github.com/hidrive/inventario-api/internal/domain/entity"
	"github.com/hidrive/inventario-api/internal/infrastructure/memory"
	pkgjwt "github.com/hidrive/inventario-api/pkg/jwt"
)

// brokenUserRepo simula un store caído: toda búsqueda falla.
type brokenUserRepo struct{}

func (brokenUserRepo) Create(*entity.User) error                { return nil }
func (brokenUserRepo) GetByID(string) (*entity.User, error)     { return nil, nil }
func (brokenUserRepo) FindByEmail(string) (*entity.User, error) { return nil, assert.AnError }

func newAuthUC() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "test",
	})
}

func TestRegisterUser_RolPorDefectoEsOperador(t *testing.T) {
	uc := newAuthUC()

	user, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secreto-largo",
	})
	require.NoError(t, err)
	assert.Equal(t, "operador", user.Role)
	assert.Equal(t, "ana@example.com", user.Name, "sin nombre, usa el email")
}

func TestRegisterUser_EmailDuplicado_SeRechaza(t *testing.T) {
	uc := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto-largo"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "otro-secreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Un fallo del store al verificar el email no debe leerse como "email libre":
// el registro se aborta con el error en lugar de continuar a ciegas.
func TestRegisterUser_FalloDelStore_AbortaElRegistro(t *testing.T) {
	uc := auth.NewAuthUseCase(brokenUserRepo{}, auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "test",
	})

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secreto-largo",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists,
		"un fallo de infraestructura no es un duplicado")
}

func TestLogin_TokenLlevaUserIDYRol(t *testing.T) {
	uc := newAuthUC()

	registered, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secreto-largo",
		Role:     "admin",
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "secreto-largo"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, role, err := pkgjwt.Parse("test-secret", out.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, "admin", role)
}

func TestLogin_PasswordIncorrecto_Unauthorized(t *testing.T) {
	uc := newAuthUC()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto-largo"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "equivocado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newAuthUC()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
