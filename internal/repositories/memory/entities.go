package memory

import (
	"context"
	"sort"
	"sync"

	"equipment-access/internal/entities"
	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
)

func NewPersonRepository(opts ...Option) repositories.PersonRepositoryInterface {
	return NewRepository(repositories.PersonTable, opts...)
}

func NewProviderRepository(opts ...Option) repositories.ProviderRepositoryInterface {
	return NewRepository(repositories.ProviderTable, opts...)
}

type EquipmentRepository struct {
	*Repository[entities.Equipment, int64]
}

func NewEquipmentRepository(opts ...Option) *EquipmentRepository {
	return &EquipmentRepository{Repository: NewRepository(repositories.EquipmentTable, opts...)}
}

func (r *EquipmentRepository) FindByProvider(ctx context.Context, providerID int64) ([]entities.Equipment, error) {
	return r.Filter(ctx, func(e entities.Equipment) bool { return e.ProviderID == providerID })
}

func (r *EquipmentRepository) CountByProvider(ctx context.Context, providerID int64) (int, error) {
	found, err := r.FindByProvider(ctx, providerID)
	return len(found), err
}

type AccessRequestRepository struct {
	*Repository[entities.AccessRequest, int64]
	locks *pairLocks
	held  string
}

func NewAccessRequestRepository(opts ...Option) *AccessRequestRepository {
	return &AccessRequestRepository{
		Repository: NewRepository(repositories.AccessRequestTable, opts...),
		locks:      &pairLocks{locks: make(map[string]*sync.Mutex)},
	}
}

func (r *AccessRequestRepository) FindByPair(ctx context.Context, personID, equipmentID int64) ([]entities.AccessRequest, error) {
	found, err := r.Filter(ctx, func(a entities.AccessRequest) bool {
		return a.PersonID == personID && a.EquipmentID == equipmentID
	})
	if err != nil {
		return nil, err
	}
	sortOldestFirst(found)
	return found, nil
}

func (r *AccessRequestRepository) Latest(ctx context.Context, personID, equipmentID int64) (entities.AccessRequest, error) {
	history, err := r.FindByPair(ctx, personID, equipmentID)
	if err != nil {
		return entities.AccessRequest{}, err
	}
	if len(history) == 0 {
		return entities.AccessRequest{}, apperrors.ErrNotFound
	}
	return history[len(history)-1], nil
}

func (r *AccessRequestRepository) FindAllOrdered(ctx context.Context) ([]entities.AccessRequest, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sortOldestFirst(all)
	return all, nil
}

func (r *AccessRequestRepository) CountByPerson(ctx context.Context, personID int64) (int, error) {
	found, err := r.Filter(ctx, func(a entities.AccessRequest) bool { return a.PersonID == personID })
	return len(found), err
}

func (r *AccessRequestRepository) CountByEquipment(ctx context.Context, equipmentID int64) (int, error) {
	found, err := r.Filter(ctx, func(a entities.AccessRequest) bool { return a.EquipmentID == equipmentID })
	return len(found), err
}

// WithPairLock serializes fn against every other caller locking the same pair.
// Nested calls for the pair already held run without locking again.
func (r *AccessRequestRepository) WithPairLock(
	ctx context.Context,
	personID, equipmentID int64,
	fn func(repo repositories.AccessRequestRepositoryInterface) error,
) error {
	key := repositories.PairLockKey(personID, equipmentID)
	if r.held == key {
		return fn(r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := r.locks.lock(key)
	defer unlock()

	return fn(&AccessRequestRepository{Repository: r.Repository, locks: r.locks, held: key})
}

func sortOldestFirst(requests []entities.AccessRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		a, b := requests[i], requests[j]
		if !a.RequestedAt.Equal(b.RequestedAt) {
			return a.RequestedAt.Before(b.RequestedAt)
		}
		return a.ID < b.ID
	})
}

type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *pairLocks) lock(key string) func() {
	p.mu.Lock()
	m, ok := p.locks[key]
	if !ok {
		m = &sync.Mutex{}
		p.locks[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}

var (
	_ repositories.EquipmentRepositoryInterface     = (*EquipmentRepository)(nil)
	_ repositories.AccessRequestRepositoryInterface = (*AccessRequestRepository)(nil)
	_ repositories.CacheRepositoryInterface         = (*Cache)(nil)
)
