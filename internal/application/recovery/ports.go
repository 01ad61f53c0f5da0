package recovery

import (
	"context"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de usuarios atado a ella.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	RunUsers(ctx context.Context, fn func(users repository.UserRepository) error) error
}
