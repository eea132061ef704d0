package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
)

const equipmentTable = "equipments"

// EquipmentTable stores both variants in one table; kind decides which variant columns hold values.
var EquipmentTable = Table[entities.Equipment, int64]{
	Name: equipmentTable,
	Columns: []string{
		"id", "serial", "brand", "model", "status", "maintenance_frequency", "image_url", "provider_id",
		"kind", "os", "ram_gb", "risk_class", "calibration_cert", "created_at", "updated_at",
	},
	Immutable: []string{"kind"},
	Touch:     []string{"updated_at"},
	ID:        func(e entities.Equipment) int64 { return e.ID },
	SetID:     func(e *entities.Equipment, id int64) { e.ID = id },
	Values:    equipmentValues,
	Scan:      scanEquipment,
	Unique: map[string]func(entities.Equipment) string{
		"equipments_serial_key": func(e entities.Equipment) string { return e.Serial },
	},
	Check: func(e entities.Equipment) error {
		if !e.Status.Valid() {
			return errInvalidEnum("status", string(e.Status))
		}
		if !e.Frequency.Valid() {
			return errInvalidEnum("maintenance_frequency", string(e.Frequency))
		}
		return e.CheckVariant()
	},
	Clone: entities.Equipment.Clone,
	Stamp: func(e *entities.Equipment, now time.Time) {
		e.CreatedAt, e.UpdatedAt = now, now
	},
	Restamp: func(stored entities.Equipment, e *entities.Equipment, now time.Time) {
		e.Kind = stored.Kind
		e.CreatedAt, e.UpdatedAt = stored.CreatedAt, now
	},
}

func equipmentValues(e entities.Equipment) map[string]interface{} {
	values := map[string]interface{}{
		"serial":                e.Serial,
		"brand":                 e.Brand,
		"model":                 e.Model,
		"status":                string(e.Status),
		"maintenance_frequency": string(e.Frequency),
		"image_url":             e.ImageURL,
		"provider_id":           e.ProviderID,
		"kind":                  string(e.Kind),
		"os":                    nil,
		"ram_gb":                nil,
		"risk_class":            nil,
		"calibration_cert":      nil,
	}
	switch e.Kind {
	case entities.KindTech:
		if e.Tech != nil {
			values["os"] = e.Tech.OS
			values["ram_gb"] = e.Tech.RAMGB
		}
	case entities.KindBiomedical:
		if e.Biomedical != nil {
			values["risk_class"] = e.Biomedical.RiskClass
			values["calibration_cert"] = e.Biomedical.CalibrationCert
		}
	}
	return values
}

func scanEquipment(row pgx.Row) (entities.Equipment, error) {
	var (
		e                         entities.Equipment
		status, frequency, kind   string
		os, riskClass, certNumber null.String
		ramGB                     null.Int
	)
	err := row.Scan(
		&e.ID, &e.Serial, &e.Brand, &e.Model, &status, &frequency, &e.ImageURL, &e.ProviderID,
		&kind, &os, &ramGB, &riskClass, &certNumber, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return entities.Equipment{}, err
	}
	e.Status = entities.EquipmentStatus(status)
	e.Frequency = entities.MaintenanceFrequency(frequency)

	switch entities.EquipmentKind(kind) {
	case entities.KindTech:
		e = entities.NewTechEquipment(e, entities.TechSpec{OS: os.String, RAMGB: ramGB.Int})
	case entities.KindBiomedical:
		e = entities.NewBiomedicalEquipment(e, entities.BiomedicalSpec{
			RiskClass:       riskClass.String,
			CalibrationCert: certNumber.String,
		})
	default:
		e.Kind = entities.EquipmentKind(kind)
	}
	return e, nil
}

type EquipmentRepositoryInterface interface {
	GenericRepositoryInterface[entities.Equipment, int64]
	FindByProvider(ctx context.Context, providerID int64) ([]entities.Equipment, error)
	CountByProvider(ctx context.Context, providerID int64) (int, error)
}

type EquipmentRepository struct {
	*GenericRepository[entities.Equipment, int64]
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{GenericRepository: NewGenericRepository(storage, EquipmentTable, logger)}
}

func (r *EquipmentRepository) FindByProvider(ctx context.Context, providerID int64) ([]entities.Equipment, error) {
	return r.FindWhere(ctx, sq.Eq{"provider_id": providerID}, "id")
}

func (r *EquipmentRepository) CountByProvider(ctx context.Context, providerID int64) (int, error) {
	return r.Count(ctx, sq.Eq{"provider_id": providerID})
}
