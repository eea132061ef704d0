package entities

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleWatchman    Role = "WATCHMAN"
	RoleAdmin       Role = "ADMIN"
	RoleDoctor      Role = "DOCTOR"
	RoleNurse       Role = "NURSE"
	RoleSecretary   Role = "SECRETARY"
	RoleBoss        Role = "BOSS"
	RoleMaintenance Role = "MAINTENANCE"
)

var Roles = []Role{RoleWatchman, RoleAdmin, RoleDoctor, RoleNurse, RoleSecretary, RoleBoss, RoleMaintenance}

func (r Role) Valid() bool { return contains(Roles, r) }

func ParseRole(s string) (Role, error) { return parse(Roles, s, "role") }

type EquipmentStatus string

const (
	StatusNew               EquipmentStatus = "NEW"
	StatusInUse             EquipmentStatus = "IN_USE"
	StatusUnderMaintenance  EquipmentStatus = "UNDER_MAINTENANCE"
	StatusDamaged           EquipmentStatus = "DAMAGED"
	StatusLost              EquipmentStatus = "LOST"
	StatusDecommissioned    EquipmentStatus = "DECOMMISSIONED"
	StatusInStorage         EquipmentStatus = "IN_STORAGE"
	StatusReserved          EquipmentStatus = "RESERVED"
	StatusPendingInspection EquipmentStatus = "PENDING_INSPECTION"
	StatusReplacementNeeded EquipmentStatus = "REPLACEMENT_NEEDED"
	StatusRecovered         EquipmentStatus = "RECOVERED"
	StatusDonated           EquipmentStatus = "DONATED"
	StatusDisposed          EquipmentStatus = "DISPOSED"
)

var EquipmentStatuses = []EquipmentStatus{
	StatusNew, StatusInUse, StatusUnderMaintenance, StatusDamaged, StatusLost,
	StatusDecommissioned, StatusInStorage, StatusReserved, StatusPendingInspection,
	StatusReplacementNeeded, StatusRecovered, StatusDonated, StatusDisposed,
}

func (s EquipmentStatus) Valid() bool { return contains(EquipmentStatuses, s) }

func ParseEquipmentStatus(s string) (EquipmentStatus, error) {
	return parse(EquipmentStatuses, s, "equipment status")
}

// EquipmentKind is the discriminator of the equipment variant.
type EquipmentKind string

const (
	KindTech       EquipmentKind = "TECH"
	KindBiomedical EquipmentKind = "BIOMEDICAL"
)

var EquipmentKinds = []EquipmentKind{KindTech, KindBiomedical}

func (k EquipmentKind) Valid() bool { return contains(EquipmentKinds, k) }

func ParseEquipmentKind(s string) (EquipmentKind, error) { return parse(EquipmentKinds, s, "equipment kind") }

// MaintenanceFrequency is how often the equipment is due for maintenance.
type MaintenanceFrequency string

const (
	FrequencyDaily      MaintenanceFrequency = "DAILY"
	FrequencyWeekly     MaintenanceFrequency = "WEEKLY"
	FrequencyMonthly    MaintenanceFrequency = "MONTHLY"
	FrequencyQuarterly  MaintenanceFrequency = "QUARTERLY"
	FrequencySemiannual MaintenanceFrequency = "SEMIANNUAL"
	FrequencyAnnual     MaintenanceFrequency = "ANNUAL"
)

var MaintenanceFrequencies = []MaintenanceFrequency{
	FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual,
}

func (f MaintenanceFrequency) Valid() bool { return contains(MaintenanceFrequencies, f) }

func ParseMaintenanceFrequency(s string) (MaintenanceFrequency, error) {
	return parse(MaintenanceFrequencies, s, "maintenance frequency")
}

type RequestType string

const (
	RequestEntry RequestType = "ENTRY"
	RequestExit  RequestType = "EXIT"
)

var RequestTypes = []RequestType{RequestEntry, RequestExit}

func (t RequestType) Valid() bool { return contains(RequestTypes, t) }

// Opposite returns the next state of the entry/exit toggle.
func (t RequestType) Opposite() RequestType {
	if t == RequestEntry {
		return RequestExit
	}
	return RequestEntry
}

func ParseRequestType(s string) (RequestType, error) { return parse(RequestTypes, s, "request type") }

func contains[E ~string](values []E, v E) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func parse[E ~string](values []E, s, what string) (E, error) {
	v := E(strings.ToUpper(strings.TrimSpace(s)))
	if !contains(values, v) {
		return "", fmt.Errorf("unknown %s %q", what, s)
	}
	return v, nil
}
