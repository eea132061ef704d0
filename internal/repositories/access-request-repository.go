package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
)

const accessRequestTable = "access_requests"

// Newest first. requested_at is strictly increasing per pair, id breaks ties across pairs.
var latestFirst = []string{"requested_at DESC", "id DESC"}

var AccessRequestTable = Table[entities.AccessRequest, int64]{
	Name:    accessRequestTable,
	Columns: []string{"id", "equipment_id", "person_id", "purpose", "request_type", "requested_at"},
	ID:      func(a entities.AccessRequest) int64 { return a.ID },
	SetID:   func(a *entities.AccessRequest, id int64) { a.ID = id },
	// requested_at is never written by the application.
	Values: func(a entities.AccessRequest) map[string]interface{} {
		return map[string]interface{}{
			"equipment_id": a.EquipmentID,
			"person_id":    a.PersonID,
			"purpose":      a.Purpose,
			"request_type": string(a.Type),
		}
	},
	Scan: scanAccessRequest,
	Check: func(a entities.AccessRequest) error {
		if !a.Type.Valid() {
			return errInvalidEnum("request_type", string(a.Type))
		}
		if len([]rune(a.Purpose)) > entities.MaxPurposeLength {
			return fmt.Errorf("purpose longer than %d characters", entities.MaxPurposeLength)
		}
		return nil
	},
	Clone: func(a entities.AccessRequest) entities.AccessRequest { return a },
	Stamp: func(a *entities.AccessRequest, now time.Time) {
		a.RequestedAt = now
	},
	Restamp: func(stored entities.AccessRequest, a *entities.AccessRequest, _ time.Time) {
		a.RequestedAt = stored.RequestedAt
	},
}

func scanAccessRequest(row pgx.Row) (entities.AccessRequest, error) {
	var a entities.AccessRequest
	var requestType string
	err := row.Scan(&a.ID, &a.EquipmentID, &a.PersonID, &a.Purpose, &requestType, &a.RequestedAt)
	if err != nil {
		return entities.AccessRequest{}, err
	}
	a.Type = entities.RequestType(requestType)
	return a, nil
}

type AccessRequestRepositoryInterface interface {
	GenericRepositoryInterface[entities.AccessRequest, int64]
	// Latest returns the most recent request of the pair or ErrNotFound.
	Latest(ctx context.Context, personID, equipmentID int64) (entities.AccessRequest, error)
	// FindByPair returns the history of the pair, oldest first.
	FindByPair(ctx context.Context, personID, equipmentID int64) ([]entities.AccessRequest, error)
	// FindAllOrdered returns every request, oldest first.
	FindAllOrdered(ctx context.Context) ([]entities.AccessRequest, error)
	CountByPerson(ctx context.Context, personID int64) (int, error)
	CountByEquipment(ctx context.Context, equipmentID int64) (int, error)
	// WithPairLock runs fn while holding the exclusive lock of the pair. Everything fn does
	// through the repository it receives commits or rolls back as one unit.
	WithPairLock(ctx context.Context, personID, equipmentID int64, fn func(repo AccessRequestRepositoryInterface) error) error
}

type AccessRequestRepository struct {
	*GenericRepository[entities.AccessRequest, int64]
	txManager TxManagerInterface
}

func NewAccessRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) AccessRequestRepositoryInterface {
	return &AccessRequestRepository{
		GenericRepository: NewGenericRepository(storage, AccessRequestTable, logger),
		txManager:         NewTxManager(storage),
	}
}

func pairWhere(personID, equipmentID int64) sq.Eq {
	return sq.Eq{"person_id": personID, "equipment_id": equipmentID}
}

func (r *AccessRequestRepository) Latest(ctx context.Context, personID, equipmentID int64) (entities.AccessRequest, error) {
	return r.FindFirst(ctx, pairWhere(personID, equipmentID), latestFirst...)
}

func (r *AccessRequestRepository) FindByPair(ctx context.Context, personID, equipmentID int64) ([]entities.AccessRequest, error) {
	return r.FindWhere(ctx, pairWhere(personID, equipmentID), "requested_at", "id")
}

func (r *AccessRequestRepository) FindAllOrdered(ctx context.Context) ([]entities.AccessRequest, error) {
	return r.FindWhere(ctx, nil, "requested_at", "id")
}

func (r *AccessRequestRepository) CountByPerson(ctx context.Context, personID int64) (int, error) {
	return r.Count(ctx, sq.Eq{"person_id": personID})
}

func (r *AccessRequestRepository) CountByEquipment(ctx context.Context, equipmentID int64) (int, error) {
	return r.Count(ctx, sq.Eq{"equipment_id": equipmentID})
}

// PairLockKey names the advisory lock of a (person, equipment) pair.
func PairLockKey(personID, equipmentID int64) string {
	return fmt.Sprintf("access_requests:%d:%d", personID, equipmentID)
}

// WithPairLock takes a transaction-scoped advisory lock on the pair, so it also serializes
// pairs that have no rows yet.
func (r *AccessRequestRepository) WithPairLock(
	ctx context.Context,
	personID, equipmentID int64,
	fn func(repo AccessRequestRepositoryInterface) error,
) error {
	if r.txManager == nil {
		// already bound to a transaction
		if err := r.lockPair(ctx, r.db, personID, equipmentID); err != nil {
			return err
		}
		return fn(r)
	}

	return r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := r.lockPair(ctx, tx, personID, equipmentID); err != nil {
			return err
		}
		return fn(&AccessRequestRepository{GenericRepository: r.WithQuerier(tx)})
	})
}

func (r *AccessRequestRepository) lockPair(ctx context.Context, q Querier, personID, equipmentID int64) error {
	_, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", PairLockKey(personID, equipmentID))
	if err != nil {
		return fmt.Errorf("lock pair %d,%d: %w", personID, equipmentID, err)
	}
	return nil
}

func errInvalidEnum(field, value string) error {
	return fmt.Errorf("invalid %s %q", field, value)
}
