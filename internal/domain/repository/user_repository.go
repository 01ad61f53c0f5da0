package repository

import (
	"context"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos ForUpdate bloquean la fila hasta el fin de la transacción y solo tienen sentido dentro de ella.
// Todas las búsquedas devuelven (nil, nil) si no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByEmailForUpdate(ctx context.Context, email string) (*entity.User, error)
	// FindByResetTokenForUpdate busca por digest del token, sin filtrar expiración.
	FindByResetTokenForUpdate(ctx context.Context, tokenDigest string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// Update persiste nombre, email, rol y estado.
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SaveResetState persiste los cuatro campos de recuperación tal como están en user.
	SaveResetState(ctx context.Context, user *entity.User) error
}
