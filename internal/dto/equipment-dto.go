package dto

import "github.com/aarondl/null/v8"

// EquipmentDTO carries the common fields plus the fields of both variants;
// Kind decides which variant fields are required and which are ignored.
type EquipmentDTO struct {
	Kind       string      `json:"kind"                  validate:"required,equipment_kind"`
	Serial     string      `json:"serial"                validate:"required,notblank,max=100"`
	Brand      string      `json:"brand"                 validate:"required,notblank,max=100"`
	Model      string      `json:"model"                 validate:"required,notblank,max=100"`
	Status     string      `json:"status"                validate:"required,equipment_status"`
	Frequency  string      `json:"maintenance_frequency" validate:"required,maintenance_frequency"`
	ProviderID int64       `json:"provider_id"           validate:"required,gt=0"`
	ImageURL   null.String `json:"image_url"             validate:"omitempty,max=500"`

	// TECH
	OS    string `json:"os,omitempty"     validate:"omitempty,max=100"`
	RAMGB *int   `json:"ram_gb,omitempty" validate:"omitempty,gte=0,lte=2147483647"`

	// BIOMEDICAL
	RiskClass       string `json:"risk_class,omitempty"       validate:"omitempty,max=50"`
	CalibrationCert string `json:"calibration_cert,omitempty" validate:"omitempty,max=100"`
}

type CreateEquipmentDTO = EquipmentDTO

// UpdateEquipmentDTO is validated exactly like creation; Kind must match the stored kind.
type UpdateEquipmentDTO = EquipmentDTO
