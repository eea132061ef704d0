package entities

import "equipment-access/pkg/types"

type Provider struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address"`

	types.BaseEntity

	// Loaded on demand, not a column. The provider does not own these rows.
	Equipments []Equipment `json:"equipments,omitempty" db:"-"`
}
