package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/repository"
)

var (
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.EntryRepository    = (*EntryRepo)(nil)
	_ repository.ExitRepository     = (*ExitRepo)(nil)
)

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func (st *state) userName(id string) string {
	if u, ok := st.users[id]; ok {
		return u.Name
	}
	return ""
}

// MovementRepo kardex en memoria.
type MovementRepo struct {
	s  *Store
	tx bool
}

func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	return r.s.do(r.tx, func(st *state) error {
		m := *movement
		m.ProductCode, m.ProductName, m.UserName = "", "", ""
		st.movements = append(st.movements, m)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	f.Normalize()
	var out []*entity.Movement
	err := r.s.do(r.tx, func(st *state) error {
		list := make([]*entity.Movement, 0)
		for _, m := range st.movements {
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.UserID != "" && m.UserID != f.UserID {
				continue
			}
			if !inRange(m.CreatedAt, f.From, f.To) {
				continue
			}
			if p, ok := st.products[m.ProductID]; ok {
				m.ProductCode, m.ProductName = p.Code, p.Name
			}
			m.UserName = st.userName(m.UserID)
			list = append(list, &m)
		}
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ID > list[j].ID
		})
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// EntryRepo entradas en memoria.
type EntryRepo struct {
	s  *Store
	tx bool
}

func (r *EntryRepo) Create(_ context.Context, entry *entity.Entry) error {
	return r.s.do(r.tx, func(st *state) error {
		e := *entry
		e.ProductName, e.UserName = "", ""
		st.entries = append(st.entries, e)
		return nil
	})
}

func (st *state) entry(e entity.Entry) *entity.Entry {
	if p, ok := st.products[e.ProductID]; ok {
		e.ProductName = p.Name
	}
	e.UserName = st.userName(e.UserID)
	return &e
}

func (r *EntryRepo) GetByID(_ context.Context, id string) (*entity.Entry, error) {
	var out *entity.Entry
	err := r.s.do(r.tx, func(st *state) error {
		for _, e := range st.entries {
			if e.ID == id {
				out = st.entry(e)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *EntryRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Entry, error) {
	f.Normalize()
	var out []*entity.Entry
	err := r.s.do(r.tx, func(st *state) error {
		list := make([]*entity.Entry, 0)
		for _, e := range st.entries {
			if (f.ProductID != "" && e.ProductID != f.ProductID) || (f.UserID != "" && e.UserID != f.UserID) {
				continue
			}
			if !inRange(e.CreatedAt, f.From, f.To) {
				continue
			}
			list = append(list, st.entry(e))
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// ExitRepo salidas en memoria.
type ExitRepo struct {
	s  *Store
	tx bool
}

func (r *ExitRepo) Create(_ context.Context, exit *entity.Exit) error {
	return r.s.do(r.tx, func(st *state) error {
		x := *exit
		x.ProductName, x.UserName = "", ""
		st.exits = append(st.exits, x)
		return nil
	})
}

func (st *state) exit(x entity.Exit) *entity.Exit {
	if p, ok := st.products[x.ProductID]; ok {
		x.ProductName = p.Name
	}
	x.UserName = st.userName(x.UserID)
	return &x
}

func (r *ExitRepo) GetByID(_ context.Context, id string) (*entity.Exit, error) {
	var out *entity.Exit
	err := r.s.do(r.tx, func(st *state) error {
		for _, x := range st.exits {
			if x.ID == id {
				out = st.exit(x)
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *ExitRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Exit, error) {
	f.Normalize()
	var out []*entity.Exit
	err := r.s.do(r.tx, func(st *state) error {
		list := make([]*entity.Exit, 0)
		for _, x := range st.exits {
			if (f.ProductID != "" && x.ProductID != f.ProductID) || (f.UserID != "" && x.UserID != f.UserID) {
				continue
			}
			if !inRange(x.CreatedAt, f.From, f.To) {
				continue
			}
			list = append(list, st.exit(x))
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		out = page(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *ExitRepo) SumQuantityByProduct(_ context.Context, from, to time.Time) (map[string]int, error) {
	totals := map[string]int{}
	err := r.s.do(r.tx, func(st *state) error {
		for _, x := range st.exits {
			if x.ProductID != "" && inRange(x.CreatedAt, &from, &to) {
				totals[x.ProductID] += x.Quantity
			}
		}
		return nil
	})
	return totals, err
}
