package entities

import "time"

const MaxPurposeLength = 100

// AccessRequest is one ENTRY or EXIT event of a person with a piece of equipment.
// RequestedAt is assigned by the store and never taken from the caller.
type AccessRequest struct {
	ID          int64       `json:"id"`
	EquipmentID int64       `json:"equipment_id"`
	PersonID    int64       `json:"person_id"`
	Purpose     string      `json:"purpose"`
	Type        RequestType `json:"type"`
	RequestedAt time.Time   `json:"requested_at"`
}

// NextFrom builds the unsaved successor of prior for the entry/exit toggle.
func NextFrom(prior AccessRequest) AccessRequest {
	return AccessRequest{
		EquipmentID: prior.EquipmentID,
		PersonID:    prior.PersonID,
		Purpose:     prior.Purpose,
		Type:        prior.Type.Opposite(),
	}
}
