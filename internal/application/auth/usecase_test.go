package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bookstore-api/internal/application/auth"
	"github.com/jhoicas/bookstore-api/internal/application/dto"
	"github.com/jhoicas/bookstore-api/internal/domain"
	"github.com/jhoicas/bookstore-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/bookstore-api/pkg/jwt"
)

const secret = "test-secret"

type stubUsers struct{ users []entity.User }

func (s stubUsers) Create(context.Context, *entity.User) error { return nil }
func (s stubUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}
func (s stubUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}
func (s stubUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}
func (s stubUsers) Update(context.Context, *entity.User) error              { return nil }
func (s stubUsers) List(context.Context, int, int) ([]*entity.User, error) { return nil, nil }
func (s stubUsers) Count(context.Context) (int64, error)                   { return int64(len(s.users)), nil }

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (plainHasher) Compare(hash, plain string) error {
	if hash != "hash:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

func newAuth() *auth.AuthUseCase {
	users := stubUsers{users: []entity.User{
		{ID: "u1", Username: "ana", Email: "ana@example.com", PasswordHash: "hash:clave", Role: entity.RoleManager, Status: entity.UserStatusActive},
		{ID: "u2", Username: "beto", Email: "beto@example.com", PasswordHash: "hash:clave", Role: entity.RoleCustomer, Status: entity.UserStatusLocked},
	}}
	return auth.NewAuthUseCase(users, plainHasher{}, auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "test"})
}

func TestLogin_PorUsernameYEmail(t *testing.T) {
	uc := newAuth()
	for _, login := range []string{"ana", "ana@example.com"} {
		resp, err := uc.Login(context.Background(), dto.LoginRequest{Login: login, Password: "clave"})
		require.NoError(t, err, login)
		assert.Equal(t, "u1", resp.User.ID)

		claims, err := pkgjwt.Parse(secret, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, entity.RoleManager, claims.Role)
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()

	_, err := uc.Login(context.Background(), dto.LoginRequest{Login: "ana", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Login: "nadie", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inexistente no se distingue de password inválido")

	_, err = uc.Login(context.Background(), dto.LoginRequest{Login: "", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CuentaBloqueada(t *testing.T) {
	_, err := newAuth().Login(context.Background(), dto.LoginRequest{Login: "beto", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
