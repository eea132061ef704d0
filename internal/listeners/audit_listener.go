package listeners

import (
	"context"

	"go.uber.org/zap"

	"equipment-access/internal/events"
	"equipment-access/pkg/eventbus"
)

// AuditListener writes one structured log line per access event.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.Named("audit")}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AccessToggled, l.handleToggled)
	bus.Subscribe(events.AccessRequestCreated, l.handleCreated)
	bus.Subscribe(events.EquipmentProvisioned, l.handleProvisioned)
}

func (l *AuditListener) handleToggled(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.AccessToggledEvent)
	if !ok {
		return nil
	}
	l.logger.Info("access toggled",
		zap.Int64("access_request_id", e.Request.ID),
		zap.Int64("previous_id", e.Previous.ID),
		zap.Int64("person_id", e.Request.PersonID),
		zap.Int64("equipment_id", e.Request.EquipmentID),
		zap.String("from", string(e.Previous.Type)),
		zap.String("to", string(e.Request.Type)),
		zap.Time("requested_at", e.Request.RequestedAt),
	)
	return nil
}

func (l *AuditListener) handleCreated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.AccessRequestCreatedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("access request created",
		zap.Int64("access_request_id", e.Request.ID),
		zap.Int64("person_id", e.Request.PersonID),
		zap.Int64("equipment_id", e.Request.EquipmentID),
		zap.String("type", string(e.Request.Type)),
	)
	return nil
}

func (l *AuditListener) handleProvisioned(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.EquipmentProvisionedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("equipment provisioned",
		zap.Int64("equipment_id", e.Equipment.ID),
		zap.String("serial", e.Equipment.Serial),
		zap.String("kind", string(e.Equipment.Kind)),
		zap.Bool("created", e.Created),
	)
	return nil
}
