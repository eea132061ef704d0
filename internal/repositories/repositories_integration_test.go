package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
	apperrors "equipment-access/pkg/errors"
)

type fixture struct {
	persons   PersonRepositoryInterface
	providers ProviderRepositoryInterface
	equipment EquipmentRepositoryInterface
	access    AccessRequestRepositoryInterface
}

func newFixture(t *testing.T) fixture {
	pool := requireDB(t)
	logger := zap.NewNop()
	return fixture{
		persons:   NewPersonRepository(pool, logger),
		providers: NewProviderRepository(pool, logger),
		equipment: NewEquipmentRepository(pool, logger),
		access:    NewAccessRequestRepository(pool, logger),
	}
}

func (f fixture) seedPair(t *testing.T) (entities.Person, entities.Equipment) {
	t.Helper()
	ctx := context.Background()

	person, err := f.persons.Save(ctx, entities.Person{FullName: "Ana Ruiz", Document: "CC-1", Role: entities.RoleNurse})
	require.NoError(t, err)

	provider, err := f.providers.Save(ctx, entities.Provider{
		Name: "MedSupply", TaxID: "900-1", ContactEmail: "sales@medsupply.co", Address: "Calle 1",
	})
	require.NoError(t, err)

	eq, err := f.equipment.Save(ctx, entities.NewBiomedicalEquipment(entities.Equipment{
		Serial:     "BIO-1",
		Brand:      "Philips",
		Model:      "IntelliVue",
		Status:     entities.StatusInUse,
		Frequency:  entities.FrequencyMonthly,
		ProviderID: provider.ID,
	}, entities.BiomedicalSpec{RiskClass: "IIb", CalibrationCert: "CAL-7"}))
	require.NoError(t, err)

	return person, eq
}

func TestPostgres_PersonCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	saved, err := f.persons.Save(ctx, entities.Person{FullName: "Luis", Document: "CC-9", Role: entities.RoleWatchman})
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = f.persons.Save(ctx, saved)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPersisted)

	_, err = f.persons.Save(ctx, entities.Person{FullName: "Other", Document: "CC-9", Role: entities.RoleBoss})
	var cerr *apperrors.ConstraintError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "persons_document_key", cerr.Constraint)

	saved.FullName = "Luis Gomez"
	updated, err := f.persons.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "Luis Gomez", updated.FullName)

	ghost := saved
	ghost.ID = saved.ID + 1000
	_, err = f.persons.Update(ctx, ghost)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	removed, err := f.persons.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, removed.ID)

	_, err = f.persons.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.persons.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgres_EquipmentVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, bio := f.seedPair(t)

	found, err := f.equipment.FindByID(ctx, bio.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.KindBiomedical, found.Kind)
	require.NotNil(t, found.Biomedical)
	assert.Nil(t, found.Tech)
	assert.Equal(t, "CAL-7", found.Biomedical.CalibrationCert)
	assert.False(t, found.ImageURL.Valid)

	tech, err := f.equipment.Save(ctx, entities.NewTechEquipment(entities.Equipment{
		Serial: "PC-1", Brand: "Lenovo", Model: "T14", Status: entities.StatusNew,
		Frequency: entities.FrequencyAnnual, ProviderID: bio.ProviderID,
		ImageURL: null.StringFrom("/uploads/pc.png"),
	}, entities.TechSpec{OS: "Ubuntu", RAMGB: 32}))
	require.NoError(t, err)
	require.NotNil(t, tech.Tech)
	assert.Equal(t, 32, tech.Tech.RAMGB)
	assert.Equal(t, "/uploads/pc.png", tech.ImageURL.String)

	changed := entities.NewTechEquipment(found, entities.TechSpec{OS: "x", RAMGB: 1})
	_, err = f.equipment.Update(ctx, changed)
	assert.ErrorIs(t, err, apperrors.ErrConstraintViolation)

	n, err := f.equipment.CountByProvider(ctx, bio.ProviderID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = f.providers.Delete(ctx, bio.ProviderID)
	assert.ErrorIs(t, err, apperrors.ErrConstraintViolation)
}

func TestPostgres_AccessRequestTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person, eq := f.seedPair(t)

	first, err := f.access.Save(ctx, entities.AccessRequest{
		PersonID: person.ID, EquipmentID: eq.ID, Purpose: "maintenance check", Type: entities.RequestEntry,
	})
	require.NoError(t, err)

	second, err := f.access.Save(ctx, entities.NextFrom(first))
	require.NoError(t, err)
	assert.True(t, second.RequestedAt.After(first.RequestedAt))

	latest, err := f.access.Latest(ctx, person.ID, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, entities.RequestExit, latest.Type)

	first.Purpose = "edited"
	updated, err := f.access.Update(ctx, first)
	require.NoError(t, err)
	assert.True(t, updated.RequestedAt.Equal(first.RequestedAt))

	_, err = f.access.Save(ctx, entities.AccessRequest{
		PersonID: person.ID, EquipmentID: eq.ID + 1000, Purpose: "x", Type: entities.RequestEntry,
	})
	assert.ErrorIs(t, err, apperrors.ErrConstraintViolation)

	_, err = f.persons.Delete(ctx, person.ID)
	assert.ErrorIs(t, err, apperrors.ErrConstraintViolation)
}

func TestPostgres_WithPairLockSerializesToggles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person, eq := f.seedPair(t)

	_, err := f.access.Save(ctx, entities.AccessRequest{
		PersonID: person.ID, EquipmentID: eq.ID, Purpose: "rounds", Type: entities.RequestEntry,
	})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := f.access.WithPairLock(ctx, person.ID, eq.ID, func(r AccessRequestRepositoryInterface) error {
				latest, err := r.Latest(ctx, person.ID, eq.ID)
				if err != nil {
					return err
				}
				_, err = r.Save(ctx, entities.NextFrom(latest))
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := f.access.FindByPair(ctx, person.ID, eq.ID)
	require.NoError(t, err)
	require.Len(t, history, workers+1)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].Type.Opposite(), history[i].Type)
	}
}
