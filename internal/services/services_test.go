package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"equipment-access/internal/dto"
	"equipment-access/internal/entities"
	"equipment-access/internal/listeners"
	"equipment-access/internal/metrics"
	"equipment-access/internal/repositories/memory"
	"equipment-access/pkg/config"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/imagestore"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/validation"
)

type fixture struct {
	persons    *PersonService
	providers  *ProviderService
	equipment  *EquipmentService
	requests   *AccessRequestService
	toggle     *AccessToggleService
	tokens     *TokenService
	scan       *ScanService
	importer   *EquipmentImportService
	report     *AccessReportService
	accessRepo *memory.AccessRequestRepository
	cache      *memory.Cache
	bus        *eventbus.Bus
	registry   *prometheus.Registry
	logs       *observer.ObservedLogs
}

// newFixture wires every service over in-memory repositories. Identifiers
// start at 1 for persons and providers, 5 for equipment and 100 for requests.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	bus := eventbus.New(logger)
	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)
	listeners.NewAuditListener(logger).Register(bus)
	listeners.NewMetricsListener(recorder).Register(bus)

	personRepo := memory.NewPersonRepository()
	providerRepo := memory.NewProviderRepository()
	equipmentRepo := memory.NewEquipmentRepository(memory.WithSequenceStart(5))
	accessRepo := memory.NewAccessRequestRepository(memory.WithSequenceStart(100))
	cache := memory.NewCache()

	images, err := imagestore.NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)
	v := validation.New()

	f := &fixture{
		accessRepo: accessRepo,
		cache:      cache,
		bus:        bus,
		registry:   registry,
		logs:       logs,
	}
	f.persons = NewPersonService(personRepo, accessRepo, v, logger)
	f.providers = NewProviderService(providerRepo, equipmentRepo, v, logger)
	f.equipment = NewEquipmentService(equipmentRepo, providerRepo, accessRepo, images, v, bus, logger)
	f.requests = NewAccessRequestService(accessRepo, personRepo, equipmentRepo, v, bus, logger)
	f.toggle = NewAccessToggleService(accessRepo, recorder, bus, logger)
	f.tokens = NewTokenService(personRepo, equipmentRepo, qr.NewRenderer(256))
	f.scan = NewScanService(f.toggle, qr.NewDecoder(), cache, config.ScanConfig{
		Timeout:       2 * time.Second,
		FrameInterval: time.Millisecond,
		Debounce:      time.Minute,
	}, logger)
	f.importer = NewEquipmentImportService(f.equipment, logger)
	f.report = NewAccessReportService(accessRepo, personRepo, equipmentRepo, logger)
	return f
}

func personDTO(document string) dto.CreatePersonDTO {
	return dto.CreatePersonDTO{FullName: "Ana Gómez", Document: document, Role: "nurse"}
}

func providerDTO(taxID string) dto.CreateProviderDTO {
	return dto.CreateProviderDTO{
		Name:         "MedSupply",
		TaxID:        taxID,
		ContactEmail: "sales@medsupply.example",
		Address:      "Av. Siempre Viva 742",
	}
}

func techDTO(serial string, providerID int64) dto.CreateEquipmentDTO {
	ram := 16
	return dto.CreateEquipmentDTO{
		Kind:       "TECH",
		Serial:     serial,
		Brand:      "Lenovo",
		Model:      "T14",
		Status:     "IN_USE",
		Frequency:  "ANNUAL",
		ProviderID: providerID,
		OS:         "Linux",
		RAMGB:      &ram,
	}
}

func biomedicalDTO(serial string, providerID int64) dto.CreateEquipmentDTO {
	return dto.CreateEquipmentDTO{
		Kind:            "BIOMEDICAL",
		Serial:          serial,
		Brand:           "Philips",
		Model:           "IntelliVue",
		Status:          "NEW",
		Frequency:       "QUARTERLY",
		ProviderID:      providerID,
		RiskClass:       "IIb",
		CalibrationCert: "CAL-2026-001",
	}
}

// seedPair creates Person 1, a provider and Equipment 5.
func (f *fixture) seedPair(t *testing.T) (*entities.Person, *entities.Equipment) {
	t.Helper()
	ctx := context.Background()

	person, err := f.persons.CreatePerson(ctx, personDTO("DOC-1"))
	require.NoError(t, err)
	provider, err := f.providers.CreateProvider(ctx, providerDTO("TAX-1"))
	require.NoError(t, err)
	equipment, err := f.equipment.CreateEquipment(ctx, techDTO("SN-1", provider.ID))
	require.NoError(t, err)
	return person, equipment
}

func (f *fixture) entry(t *testing.T, personID, equipmentID int64, purpose string) *entities.AccessRequest {
	t.Helper()
	created, err := f.requests.CreateEntryRequest(context.Background(), dto.CreateAccessRequestDTO{
		PersonID:    personID,
		EquipmentID: equipmentID,
		Purpose:     purpose,
		Type:        "ENTRY",
	})
	require.NoError(t, err)
	return created
}

func updateType(requestType string) dto.UpdateAccessRequestDTO {
	return dto.UpdateAccessRequestDTO{Type: &requestType}
}

// counterValue reads one labelled counter from the fixture registry.
func counterValue(t *testing.T, f *fixture, name, label string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, pair := range m.GetLabel() {
				if pair.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
