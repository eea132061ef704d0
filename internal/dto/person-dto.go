package dto

type CreatePersonDTO struct {
	FullName string `json:"full_name" validate:"required,notblank,max=150"`
	Document string `json:"document"  validate:"required,notblank,max=50"`
	Role     string `json:"role"      validate:"required,person_role"`
}

// UpdatePersonDTO replaces every field of an existing person.
type UpdatePersonDTO = CreatePersonDTO
