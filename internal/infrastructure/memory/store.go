// Package memory implementa los repositorios y el TxRunner en memoria.
// Una transacción toma el mutex del Store durante toda su ejecución y, si falla,
// restaura la copia tomada al inicio. Sirve para pruebas y para STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/application/recovery"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ recovery.TxRunner  = (*Store)(nil)
)

type state struct {
	users      map[string]entity.User
	products   map[string]entity.Product
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	entries    []entity.Entry
	exits      []entity.Exit
	movements  []entity.Movement
}

func newState() *state {
	return &state{
		users:      map[string]entity.User{},
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		suppliers:  map[string]entity.Supplier{},
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.users {
		c.users[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.categories {
		c.categories[k] = v
	}
	for k, v := range st.suppliers {
		c.suppliers[k] = v
	}
	c.entries = append([]entity.Entry(nil), st.entries...)
	c.exits = append([]entity.Exit(nil), st.exits...)
	c.movements = append([]entity.Movement(nil), st.movements...)
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// do ejecuta fn sobre el estado; si inTx es false toma el mutex solo para esta llamada.
func (s *Store) do(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// transact serializa fn con el resto de transacciones y revierte si devuelve error o entra en pánico.
func (s *Store) transact(ctx context.Context, fn func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if p := recover(); p != nil {
			s.st = snapshot
			panic(p)
		}
		if err != nil {
			s.st = snapshot
		}
	}()
	return fn()
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	entries repository.EntryRepository,
	exits repository.ExitRepository,
	movements repository.MovementRepository,
) error) error {
	return s.transact(ctx, func() error {
		return fn(&ProductRepo{s: s, tx: true}, &EntryRepo{s: s, tx: true}, &ExitRepo{s: s, tx: true}, &MovementRepo{s: s, tx: true})
	})
}

// RunUsers implementa recovery.TxRunner.
func (s *Store) RunUsers(ctx context.Context, fn func(users repository.UserRepository) error) error {
	return s.transact(ctx, func() error {
		return fn(&UserRepo{s: s, tx: true})
	})
}

// Users repositorio de usuarios fuera de transacción.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// Entries repositorio de entradas fuera de transacción.
func (s *Store) Entries() *EntryRepo { return &EntryRepo{s: s} }

// Exits repositorio de salidas fuera de transacción.
func (s *Store) Exits() *ExitRepo { return &ExitRepo{s: s} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
