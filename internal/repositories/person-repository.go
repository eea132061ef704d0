package repositories

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
)

const personTable = "persons"

var PersonTable = Table[entities.Person, int64]{
	Name:    personTable,
	Columns: []string{"id", "full_name", "document", "role", "created_at", "updated_at"},
	Touch:   []string{"updated_at"},
	ID:      func(p entities.Person) int64 { return p.ID },
	SetID:   func(p *entities.Person, id int64) { p.ID = id },
	Values: func(p entities.Person) map[string]interface{} {
		return map[string]interface{}{
			"full_name": p.FullName,
			"document":  p.Document,
			"role":      string(p.Role),
		}
	},
	Scan: scanPerson,
	Unique: map[string]func(entities.Person) string{
		"persons_document_key": func(p entities.Person) string { return p.Document },
	},
	Check: func(p entities.Person) error {
		if !p.Role.Valid() {
			return errInvalidEnum("role", string(p.Role))
		}
		return nil
	},
	Clone: func(p entities.Person) entities.Person { return p },
	Stamp: func(p *entities.Person, now time.Time) {
		p.CreatedAt, p.UpdatedAt = now, now
	},
	Restamp: func(stored entities.Person, p *entities.Person, now time.Time) {
		p.CreatedAt, p.UpdatedAt = stored.CreatedAt, now
	},
}

type PersonRepositoryInterface interface {
	GenericRepositoryInterface[entities.Person, int64]
}

func NewPersonRepository(storage *pgxpool.Pool, logger *zap.Logger) PersonRepositoryInterface {
	return NewGenericRepository(storage, PersonTable, logger)
}

func scanPerson(row pgx.Row) (entities.Person, error) {
	var p entities.Person
	var role string
	err := row.Scan(&p.ID, &p.FullName, &p.Document, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return entities.Person{}, err
	}
	p.Role = entities.Role(role)
	return p, nil
}
