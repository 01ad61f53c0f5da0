package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/memory"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }
func (plainHasher) Verify(plain, digest string) bool { return digest == "hash:"+plain }

func TestUserCreate(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewUserUseCase(store.Users(), plainHasher{})
	ctx := context.Background()

	u, err := uc.Create(ctx, dto.CreateUserRequest{
		Email: " Luisa@Ferreteria.co", Password: "Segura123!", Name: "Luisa", Role: entity.RoleOperator,
	})
	require.NoError(t, err)
	assert.Equal(t, "luisa@ferreteria.co", u.Email)
	assert.True(t, u.Active)

	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash:Segura123!", stored.PasswordHash)

	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Email: "luisa@ferreteria.co", Password: "Segura123!", Name: "Otra", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Email: "pedro@ferreteria.co", Password: "Segura123!", Name: "Pedro", Role: "Bodeguero",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Email: "pedro@ferreteria.co", Password: "sencilla123", Name: "Pedro", Role: entity.RoleOperator,
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestUserUpdate_AdminNoSeDesactivaASiMismo(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewUserUseCase(store.Users(), plainHasher{})
	ctx := context.Background()

	admin, err := uc.Create(ctx, dto.CreateUserRequest{
		Email: "admin@ferreteria.co", Password: "Segura123!", Name: "Admin", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	op, err := uc.Create(ctx, dto.CreateUserRequest{
		Email: "op@ferreteria.co", Password: "Segura123!", Name: "Op", Role: entity.RoleOperator,
	})
	require.NoError(t, err)

	inactive := false
	_, err = uc.Update(ctx, admin.ID, admin.ID, dto.UpdateUserRequest{Active: &inactive})
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err := uc.Update(ctx, admin.ID, op.ID, dto.UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Data, 2)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
