package events

import "equipment-access/internal/entities"

const (
	AccessToggled        = "access.toggled"
	AccessRequestCreated = "access.request.created"
	EquipmentProvisioned = "equipment.provisioned"
)

// AccessToggledEvent is published after the toggle engine appended Request on top of Previous.
type AccessToggledEvent struct {
	Previous entities.AccessRequest
	Request  entities.AccessRequest
}

func (e AccessToggledEvent) Name() string { return AccessToggled }

// AccessRequestCreatedEvent is published for administrative creations.
type AccessRequestCreatedEvent struct {
	Request entities.AccessRequest
}

func (e AccessRequestCreatedEvent) Name() string { return AccessRequestCreated }

type EquipmentProvisionedEvent struct {
	Equipment entities.Equipment
	Created   bool
}

func (e EquipmentProvisionedEvent) Name() string { return EquipmentProvisioned }
