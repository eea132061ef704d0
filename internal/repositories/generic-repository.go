package repositories

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	apperrors "equipment-access/pkg/errors"
)

// Identifier is the set of key types a repository can be keyed by. The zero value means "unassigned".
type Identifier interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64
}

// GenericRepositoryInterface is the CRUD contract shared by every entity kind.
// Each call is atomic on its own.
type GenericRepositoryInterface[T any, K Identifier] interface {
	// Save inserts an entity without an identifier and returns it with the assigned one.
	// An entity that already has an identifier is rejected with ErrAlreadyPersisted.
	Save(ctx context.Context, entity T) (T, error)
	FindByID(ctx context.Context, id K) (T, error)
	// FindAll returns a snapshot of every row; callers must not rely on its order.
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id K) (T, error)
}

// Table describes how an entity kind maps to storage. It is the only thing a kind supplies.
type Table[T any, K Identifier] struct {
	Name string
	// Columns lists the selected columns in Scan order, the identifier first.
	Columns []string
	// Immutable columns are written on insert and never on update.
	Immutable []string
	// Touch columns are set to NOW() on every update.
	Touch []string

	ID     func(T) K
	SetID  func(*T, K)
	Values func(T) map[string]interface{}
	Scan   func(pgx.Row) (T, error)

	// Unique maps a constraint name to the key it guards; empty keys are not compared.
	Unique map[string]func(T) string
	// Check mirrors the table CHECK constraints.
	Check func(T) error
	Clone func(T) T

	// Stamp sets the store-managed fields of a new row.
	Stamp func(e *T, now time.Time)
	// Restamp carries the store-managed fields of stored over to an update.
	Restamp func(stored T, e *T, now time.Time)
}

func (t Table[T, K]) CheckConstraint() string { return t.Name + "_check" }

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// GenericRepository implements GenericRepositoryInterface on PostgreSQL.
type GenericRepository[T any, K Identifier] struct {
	table  Table[T, K]
	db     Querier
	logger *zap.Logger
}

func NewGenericRepository[T any, K Identifier](db Querier, table Table[T, K], logger *zap.Logger) *GenericRepository[T, K] {
	return &GenericRepository[T, K]{table: table, db: db, logger: logger}
}

// WithQuerier returns a copy of the repository bound to q, usually a pgx.Tx.
func (r *GenericRepository[T, K]) WithQuerier(q Querier) *GenericRepository[T, K] {
	c := *r
	c.db = q
	return &c
}

func (r *GenericRepository[T, K]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if r.table.ID(entity) != 0 {
		return zero, apperrors.ErrAlreadyPersisted
	}
	if err := r.check(entity); err != nil {
		return zero, err
	}

	query, args, err := psql.Insert(r.table.Name).
		SetMap(r.table.Values(entity)).
		Suffix("RETURNING " + r.selectList()).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build insert into %s: %w", r.table.Name, err)
	}

	saved, err := r.table.Scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, r.translate("insert", err)
	}
	return saved, nil
}

func (r *GenericRepository[T, K]) FindByID(ctx context.Context, id K) (T, error) {
	var zero T
	if id == 0 {
		return zero, apperrors.RequiredField("id")
	}
	return r.FindFirst(ctx, sq.Eq{"id": id})
}

func (r *GenericRepository[T, K]) FindAll(ctx context.Context) ([]T, error) {
	return r.FindWhere(ctx, nil, "id")
}

func (r *GenericRepository[T, K]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	id := r.table.ID(entity)
	if id == 0 {
		return zero, apperrors.RequiredField("id")
	}
	if err := r.check(entity); err != nil {
		return zero, err
	}

	builder := psql.Update(r.table.Name)
	for col, val := range r.table.Values(entity) {
		if slices.Contains(r.table.Immutable, col) {
			continue
		}
		builder = builder.Set(col, val)
	}
	for _, col := range r.table.Touch {
		builder = builder.Set(col, sq.Expr("NOW()"))
	}

	query, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + r.selectList()).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build update of %s: %w", r.table.Name, err)
	}

	updated, err := r.table.Scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, r.translate("update", err)
	}
	return updated, nil
}

func (r *GenericRepository[T, K]) Delete(ctx context.Context, id K) (T, error) {
	var zero T
	if id == 0 {
		return zero, apperrors.RequiredField("id")
	}

	query, args, err := psql.Delete(r.table.Name).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + r.selectList()).
		ToSql()
	if err != nil {
		return zero, fmt.Errorf("build delete from %s: %w", r.table.Name, err)
	}

	removed, err := r.table.Scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, r.translate("delete", err)
	}
	return removed, nil
}

// FindFirst returns the first row matching where in the given order, or ErrNotFound.
func (r *GenericRepository[T, K]) FindFirst(ctx context.Context, where sq.Sqlizer, orderBy ...string) (T, error) {
	var zero T
	builder := psql.Select(r.table.Columns...).From(r.table.Name).Where(where).OrderBy(orderBy...).Limit(1)

	query, args, err := builder.ToSql()
	if err != nil {
		return zero, fmt.Errorf("build select from %s: %w", r.table.Name, err)
	}

	found, err := r.table.Scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return zero, r.translate("select", err)
	}
	return found, nil
}

// FindWhere returns every row matching where; a nil where selects the whole table.
func (r *GenericRepository[T, K]) FindWhere(ctx context.Context, where sq.Sqlizer, orderBy ...string) ([]T, error) {
	builder := psql.Select(r.table.Columns...).From(r.table.Name).OrderBy(orderBy...)
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select from %s: %w", r.table.Name, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.translate("select", err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		item, err := r.table.Scan(rows)
		if err != nil {
			return nil, r.translate("scan", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate("select", err)
	}
	return result, nil
}

func (r *GenericRepository[T, K]) Count(ctx context.Context, where sq.Sqlizer) (int, error) {
	builder := psql.Select("COUNT(*)").From(r.table.Name)
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count of %s: %w", r.table.Name, err)
	}

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, r.translate("count", err)
	}
	return total, nil
}

func (r *GenericRepository[T, K]) check(entity T) error {
	if r.table.Check == nil {
		return nil
	}
	if err := r.table.Check(entity); err != nil {
		return apperrors.NewConstraintError(r.table.CheckConstraint(), err)
	}
	return nil
}

func (r *GenericRepository[T, K]) selectList() string {
	return strings.Join(r.table.Columns, ", ")
}

// translate maps driver errors onto the application taxonomy.
func (r *GenericRepository[T, K]) translate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503", "23514":
			r.logger.Debug("constraint violated",
				zap.String("table", r.table.Name),
				zap.String("constraint", pgErr.ConstraintName),
				zap.String("op", op))
			return apperrors.NewConstraintError(pgErr.ConstraintName, err)
		}
	}
	return fmt.Errorf("%s %s: %w", op, r.table.Name, err)
}
