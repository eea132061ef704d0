package dto

type CreateProviderDTO struct {
	Name         string `json:"name"          validate:"required,notblank,max=150"`
	TaxID        string `json:"tax_id"        validate:"required,notblank,max=50"`
	ContactEmail string `json:"contact_email" validate:"required,custom_email"`
	Address      string `json:"address"       validate:"required,notblank,max=255"`
}

type UpdateProviderDTO = CreateProviderDTO
