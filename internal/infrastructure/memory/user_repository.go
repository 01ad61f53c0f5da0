package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s  *Store
	tx bool
}

func copyUser(u entity.User) *entity.User {
	if u.ResetCodeExpires != nil {
		t := *u.ResetCodeExpires
		u.ResetCodeExpires = &t
	}
	if u.ResetTokenExpires != nil {
		t := *u.ResetTokenExpires
		u.ResetTokenExpires = &t
	}
	return &u
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.s.do(r.tx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[user.ID] = *copyUser(*user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(r.tx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(r.tx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = copyUser(u)
				break
			}
		}
		return nil
	})
	return out, err
}

// FindByEmailForUpdate dentro de Run/RunUsers el mutex del Store ya serializa el acceso.
func (r *UserRepo) FindByEmailForUpdate(ctx context.Context, email string) (*entity.User, error) {
	return r.FindByEmail(ctx, email)
}

func (r *UserRepo) FindByResetTokenForUpdate(_ context.Context, tokenDigest string) (*entity.User, error) {
	if tokenDigest == "" {
		return nil, nil
	}
	var out *entity.User
	err := r.s.do(r.tx, func(st *state) error {
		for _, u := range st.users {
			if u.ResetToken == tokenDigest {
				out = copyUser(u)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.s.do(r.tx, func(st *state) error {
		list := make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			list = append(list, copyUser(u))
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out = page(list, limit, offset)
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.s.do(r.tx, func(st *state) error {
		cur, ok := st.users[user.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, u := range st.users {
			if id != user.ID && strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		cur.Name = user.Name
		cur.Email = user.Email
		cur.Role = user.Role
		cur.Active = user.Active
		cur.UpdatedAt = time.Now()
		st.users[user.ID] = cur
		return nil
	})
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.s.do(r.tx, func(st *state) error {
		cur, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		cur.PasswordHash = passwordHash
		cur.UpdatedAt = time.Now()
		st.users[id] = cur
		return nil
	})
}

func (r *UserRepo) SaveResetState(_ context.Context, user *entity.User) error {
	return r.s.do(r.tx, func(st *state) error {
		cur, ok := st.users[user.ID]
		if !ok {
			return domain.ErrNotFound
		}
		c := copyUser(*user)
		cur.ResetCode = c.ResetCode
		cur.ResetCodeExpires = c.ResetCodeExpires
		cur.ResetToken = c.ResetToken
		cur.ResetTokenExpires = c.ResetTokenExpires
		st.users[user.ID] = cur
		return nil
	})
}
