package entities

import (
	"fmt"

	"github.com/aarondl/null/v8"

	"equipment-access/pkg/types"
)

// TechSpec is the payload of TECH equipment.
type TechSpec struct {
	OS    string `json:"os"`
	RAMGB int    `json:"ram_gb"`
}

// BiomedicalSpec is the payload of BIOMEDICAL equipment.
type BiomedicalSpec struct {
	RiskClass       string `json:"risk_class"`
	CalibrationCert string `json:"calibration_cert"`
}

// Equipment is a tagged variant: Kind selects which of Tech or Biomedical is set.
type Equipment struct {
	ID         int64                `json:"id"`
	Serial     string               `json:"serial"`
	Brand      string               `json:"brand"`
	Model      string               `json:"model"`
	Status     EquipmentStatus      `json:"status"`
	Frequency  MaintenanceFrequency `json:"maintenance_frequency"`
	ImageURL   null.String          `json:"image_url"`
	ProviderID int64                `json:"provider_id"`
	Kind       EquipmentKind        `json:"kind"`

	Tech       *TechSpec       `json:"tech,omitempty"`
	Biomedical *BiomedicalSpec `json:"biomedical,omitempty"`

	types.BaseEntity
}

func NewTechEquipment(base Equipment, spec TechSpec) Equipment {
	base.Kind = KindTech
	base.Tech = &spec
	base.Biomedical = nil
	return base
}

func NewBiomedicalEquipment(base Equipment, spec BiomedicalSpec) Equipment {
	base.Kind = KindBiomedical
	base.Biomedical = &spec
	base.Tech = nil
	return base
}

// CheckVariant reports whether exactly the payload named by Kind is populated.
func (e Equipment) CheckVariant() error {
	switch e.Kind {
	case KindTech:
		if e.Tech == nil || e.Biomedical != nil {
			return fmt.Errorf("equipment %q: TECH requires tech fields only", e.Serial)
		}
		if e.Tech.RAMGB < 0 {
			return fmt.Errorf("equipment %q: negative ram", e.Serial)
		}
	case KindBiomedical:
		if e.Biomedical == nil || e.Tech != nil {
			return fmt.Errorf("equipment %q: BIOMEDICAL requires biomedical fields only", e.Serial)
		}
	default:
		return fmt.Errorf("equipment %q: unknown kind %q", e.Serial, e.Kind)
	}
	return nil
}

// Clone returns a copy that shares no pointers with e.
func (e Equipment) Clone() Equipment {
	c := e
	if e.Tech != nil {
		t := *e.Tech
		c.Tech = &t
	}
	if e.Biomedical != nil {
		b := *e.Biomedical
		c.Biomedical = &b
	}
	return c
}
