// Package memory implements the repository contracts in process memory. It backs the service
// tests and single-instance embedded use.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
)

type options struct {
	sequenceStart int64
	now           func() time.Time
}

type Option func(*options)

// WithSequenceStart makes the first assigned identifier n.
func WithSequenceStart(n int64) Option {
	return func(o *options) { o.sequenceStart = n }
}

// WithNow replaces the wall clock. Assigned timestamps stay strictly increasing regardless.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Repository is the in-memory twin of repositories.GenericRepository.
type Repository[T any, K repositories.Identifier] struct {
	mu    sync.RWMutex
	table repositories.Table[T, K]
	rows  map[K]T
	next  K
	clock *clock
}

func NewRepository[T any, K repositories.Identifier](table repositories.Table[T, K], opts ...Option) *Repository[T, K] {
	o := options{sequenceStart: 1, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T, K]{
		table: table,
		rows:  make(map[K]T),
		next:  K(o.sequenceStart),
		clock: &clock{now: o.now},
	}
}

func (r *Repository[T, K]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if r.table.ID(entity) != 0 {
		return zero, apperrors.ErrAlreadyPersisted
	}
	if err := r.check(entity); err != nil {
		return zero, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(entity, 0); err != nil {
		return zero, err
	}

	id := r.next
	r.next++
	r.table.SetID(&entity, id)
	if r.table.Stamp != nil {
		r.table.Stamp(&entity, r.clock.Now())
	}
	r.rows[id] = r.table.Clone(entity)
	return r.table.Clone(entity), nil
}

func (r *Repository[T, K]) FindByID(ctx context.Context, id K) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if id == 0 {
		return zero, apperrors.RequiredField("id")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[id]
	if !ok {
		return zero, apperrors.ErrNotFound
	}
	return r.table.Clone(row), nil
}

func (r *Repository[T, K]) FindAll(ctx context.Context) ([]T, error) {
	return r.Filter(ctx, nil)
}

func (r *Repository[T, K]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id := r.table.ID(entity)
	if id == 0 {
		return zero, apperrors.RequiredField("id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok {
		return zero, apperrors.ErrNotFound
	}
	if r.table.Restamp != nil {
		r.table.Restamp(stored, &entity, r.clock.Now())
	}
	if err := r.check(entity); err != nil {
		return zero, err
	}
	if err := r.checkUnique(entity, id); err != nil {
		return zero, err
	}

	r.rows[id] = r.table.Clone(entity)
	return r.table.Clone(entity), nil
}

func (r *Repository[T, K]) Delete(ctx context.Context, id K) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if id == 0 {
		return zero, apperrors.RequiredField("id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return zero, apperrors.ErrNotFound
	}
	delete(r.rows, id)
	return r.table.Clone(row), nil
}

// Filter returns copies of the rows matching keep in identifier order; a nil keep matches all.
func (r *Repository[T, K]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		if keep == nil || keep(row) {
			result = append(result, r.table.Clone(row))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return r.table.ID(result[i]) < r.table.ID(result[j])
	})
	return result, nil
}

func (r *Repository[T, K]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *Repository[T, K]) check(entity T) error {
	if r.table.Check == nil {
		return nil
	}
	if err := r.table.Check(entity); err != nil {
		return apperrors.NewConstraintError(r.table.CheckConstraint(), err)
	}
	return nil
}

// checkUnique must be called with the write lock held. self is skipped.
func (r *Repository[T, K]) checkUnique(entity T, self K) error {
	for constraint, key := range r.table.Unique {
		want := key(entity)
		if want == "" {
			continue
		}
		for id, row := range r.rows {
			if id != self && key(row) == want {
				return apperrors.NewConstraintError(constraint, nil)
			}
		}
	}
	return nil
}

// clock hands out strictly increasing timestamps at microsecond precision, like timestamptz.
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
