package seeders

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-access/internal/entities"
	"equipment-access/internal/metrics"
	"equipment-access/internal/repositories/memory"
	"equipment-access/internal/routes"
	"equipment-access/internal/services"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/imagestore"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/validation"
)

func memoryServices(t *testing.T) routes.Services {
	t.Helper()
	logger := zap.NewNop()
	bus := eventbus.New(logger)
	personRepo := memory.NewPersonRepository()
	providerRepo := memory.NewProviderRepository()
	equipmentRepo := memory.NewEquipmentRepository()
	accessRepo := memory.NewAccessRequestRepository()
	images, err := imagestore.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	v := validation.New()

	return routes.Services{
		Persons:        services.NewPersonService(personRepo, accessRepo, v, logger),
		Providers:      services.NewProviderService(providerRepo, equipmentRepo, v, logger),
		Equipment:      services.NewEquipmentService(equipmentRepo, providerRepo, accessRepo, images, v, bus, logger),
		AccessRequests: services.NewAccessRequestService(accessRepo, personRepo, equipmentRepo, v, bus, logger),
		Toggle:         services.NewAccessToggleService(accessRepo, metrics.NewRecorder(prometheus.NewRegistry()), bus, logger),
		Tokens:         services.NewTokenService(personRepo, equipmentRepo, qr.NewRenderer(128)),
	}
}

func TestApplyExample(t *testing.T) {
	ctx := context.Background()
	svc := memoryServices(t)

	fixture, err := Load(bytes.NewReader(Example))
	require.NoError(t, err)
	assert.Equal(t, "Calle 10 #20-30", fixture.Providers[0].Address)

	report, err := Apply(ctx, fixture, svc, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Report{Persons: 2, Providers: 1, Equipment: 2, Entries: 2}, report)

	again, err := Apply(ctx, fixture, svc, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Report{}, again)

	requests, err := svc.AccessRequests.ListEntryRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, entities.RequestEntry, requests[0].Type)

	issued, err := svc.Tokens.Issue(ctx, requests[0].PersonID, requests[0].EquipmentID)
	require.NoError(t, err)
	toggled, err := svc.Toggle.Toggle(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, entities.RequestExit, toggled.Type)
	assert.Equal(t, "Patient monitoring", toggled.Purpose)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("persons:\n  - name: Ana\n"))
	assert.Error(t, err)
}

func TestApply_UnknownReference(t *testing.T) {
	fixture := &Fixture{
		Equipment: []EquipmentRow{{Kind: "TECH", Serial: "X-1", Provider: "missing"}},
	}
	_, err := Apply(context.Background(), fixture, memoryServices(t), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "missing"`)
}
