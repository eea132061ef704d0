package services

import (
	"context"

	"equipment-access/internal/dto"
	"equipment-access/internal/repositories"
	"equipment-access/pkg/qr"
	"equipment-access/pkg/token"
)

type TokenServiceInterface interface {
	Issue(ctx context.Context, personID, equipmentID int64) (*dto.TokenDTO, error)
	IssuePNG(ctx context.Context, personID, equipmentID int64) ([]byte, error)
}

// TokenService hands out tokens only for pairs that exist.
type TokenService struct {
	personRepository    repositories.PersonRepositoryInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	renderer            qr.Renderer
}

func NewTokenService(
	personRepository repositories.PersonRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	renderer qr.Renderer,
) *TokenService {
	return &TokenService{
		personRepository:    personRepository,
		equipmentRepository: equipmentRepository,
		renderer:            renderer,
	}
}

func (s *TokenService) Issue(ctx context.Context, personID, equipmentID int64) (*dto.TokenDTO, error) {
	if _, err := requireExisting(ctx, "person", personID, s.personRepository.FindByID); err != nil {
		return nil, err
	}
	if _, err := requireExisting(ctx, "equipment", equipmentID, s.equipmentRepository.FindByID); err != nil {
		return nil, err
	}

	encoded, err := token.Encode(personID, equipmentID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenDTO{Token: encoded, PersonID: personID, EquipmentID: equipmentID}, nil
}

func (s *TokenService) IssuePNG(ctx context.Context, personID, equipmentID int64) ([]byte, error) {
	issued, err := s.Issue(ctx, personID, equipmentID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(issued.Token)
}
