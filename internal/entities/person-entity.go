package entities

import "equipment-access/pkg/types"

type Person struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Document string `json:"document"`
	Role     Role   `json:"role"`

	types.BaseEntity
}
