package dto

type CreateAccessRequestDTO struct {
	PersonID    int64  `json:"person_id"    validate:"required,gt=0"`
	EquipmentID int64  `json:"equipment_id" validate:"required,gt=0"`
	Purpose     string `json:"purpose"      validate:"required,notblank,max=100"`
	Type        string `json:"type"         validate:"required,request_type"`
}

// UpdateAccessRequestDTO is a partial patch: nil fields and a blank purpose or type are left untouched.
type UpdateAccessRequestDTO struct {
	PersonID    *int64  `json:"person_id,omitempty"    validate:"omitempty,gt=0"`
	EquipmentID *int64  `json:"equipment_id,omitempty" validate:"omitempty,gt=0"`
	Purpose     *string `json:"purpose,omitempty"      validate:"omitempty,max=100"`
	Type        *string `json:"type,omitempty"         validate:"omitempty,request_type"`
}

type ToggleDTO struct {
	Token string `json:"token" validate:"required"`
}

type TokenDTO struct {
	Token       string `json:"token"`
	PersonID    int64  `json:"person_id"`
	EquipmentID int64  `json:"equipment_id"`
}
