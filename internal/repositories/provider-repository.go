package repositories

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
)

const providerTable = "providers"

var ProviderTable = Table[entities.Provider, int64]{
	Name:    providerTable,
	Columns: []string{"id", "name", "tax_id", "contact_email", "address", "created_at", "updated_at"},
	Touch:   []string{"updated_at"},
	ID:      func(p entities.Provider) int64 { return p.ID },
	SetID:   func(p *entities.Provider, id int64) { p.ID = id },
	Values: func(p entities.Provider) map[string]interface{} {
		return map[string]interface{}{
			"name":          p.Name,
			"tax_id":        p.TaxID,
			"contact_email": p.ContactEmail,
			"address":       p.Address,
		}
	},
	Scan: scanProvider,
	Unique: map[string]func(entities.Provider) string{
		"providers_tax_id_key": func(p entities.Provider) string { return p.TaxID },
	},
	// Equipments is loaded on demand and never stored with the row.
	Clone: func(p entities.Provider) entities.Provider {
		p.Equipments = nil
		return p
	},
	Stamp: func(p *entities.Provider, now time.Time) {
		p.CreatedAt, p.UpdatedAt = now, now
	},
	Restamp: func(stored entities.Provider, p *entities.Provider, now time.Time) {
		p.CreatedAt, p.UpdatedAt = stored.CreatedAt, now
	},
}

type ProviderRepositoryInterface interface {
	GenericRepositoryInterface[entities.Provider, int64]
}

func NewProviderRepository(storage *pgxpool.Pool, logger *zap.Logger) ProviderRepositoryInterface {
	return NewGenericRepository(storage, ProviderTable, logger)
}

func scanProvider(row pgx.Row) (entities.Provider, error) {
	var p entities.Provider
	err := row.Scan(&p.ID, &p.Name, &p.TaxID, &p.ContactEmail, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
