package listeners

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"equipment-access/internal/entities"
	"equipment-access/internal/events"
	"equipment-access/internal/metrics"
	"equipment-access/pkg/eventbus"
)

func TestListeners(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := eventbus.New(zap.NewNop())
	reg := prometheus.NewRegistry()

	NewAuditListener(zap.New(core)).Register(bus)
	NewMetricsListener(metrics.NewRecorder(reg)).Register(bus)

	ctx := context.Background()
	prior := entities.AccessRequest{ID: 100, PersonID: 1, EquipmentID: 5, Purpose: "p", Type: entities.RequestEntry}
	bus.Publish(ctx, events.AccessRequestCreatedEvent{Request: prior})
	next := entities.NextFrom(prior)
	next.ID = 101
	bus.Publish(ctx, events.AccessToggledEvent{Previous: prior, Request: next})
	bus.Publish(ctx, events.EquipmentProvisionedEvent{Equipment: entities.Equipment{ID: 5, Kind: entities.KindTech}, Created: true})
	bus.Wait()

	toggled := logs.FilterMessage("access toggled").All()
	require.Len(t, toggled, 1)
	fields := toggled[0].ContextMap()
	assert.Equal(t, "ENTRY", fields["from"])
	assert.Equal(t, "EXIT", fields["to"])
	assert.Equal(t, int64(101), fields["access_request_id"])

	assert.Len(t, logs.FilterMessage("access request created").All(), 1)
	assert.Len(t, logs.FilterMessage("equipment provisioned").All(), 1)

	expected := `
# HELP access_toggles_total Access requests appended by the entry/exit toggle, by resulting type.
# TYPE access_toggles_total counter
access_toggles_total{type="EXIT"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "access_toggles_total"))
	n, err := testutil.GatherAndCount(reg, "access_requests_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
