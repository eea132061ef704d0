package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"equipment-access/internal/dto"
	"equipment-access/internal/entities"
	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/validation"
)

type ProviderServiceInterface interface {
	CreateProvider(ctx context.Context, d dto.CreateProviderDTO) (*entities.Provider, error)
	UpdateProvider(ctx context.Context, id int64, d dto.UpdateProviderDTO) (*entities.Provider, error)
	// FindProvider loads the provider together with the equipment it supplies.
	FindProvider(ctx context.Context, id int64) (*entities.Provider, error)
	ListProviders(ctx context.Context) ([]entities.Provider, error)
	DeleteProvider(ctx context.Context, id int64) error
}

type ProviderService struct {
	providerRepository  repositories.ProviderRepositoryInterface
	equipmentRepository repositories.EquipmentRepositoryInterface
	validator           *validation.CustomValidator
	logger              *zap.Logger
}

func NewProviderService(
	providerRepository repositories.ProviderRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	validator *validation.CustomValidator,
	logger *zap.Logger,
) *ProviderService {
	return &ProviderService{
		providerRepository:  providerRepository,
		equipmentRepository: equipmentRepository,
		validator:           validator,
		logger:              logger,
	}
}

func (s *ProviderService) CreateProvider(ctx context.Context, d dto.CreateProviderDTO) (*entities.Provider, error) {
	if err := s.validator.Validate(d); err != nil {
		return nil, err
	}

	saved, err := s.providerRepository.Save(ctx, providerFromDTO(d))
	if err != nil {
		s.logger.Error("failed to create provider", zap.String("tax_id", d.TaxID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("provider created", zap.Int64("provider_id", saved.ID))
	return &saved, nil
}

func (s *ProviderService) UpdateProvider(ctx context.Context, id int64, d dto.UpdateProviderDTO) (*entities.Provider, error) {
	if err := s.validator.Validate(d); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, apperrors.RequiredField("id")
	}

	provider := providerFromDTO(d)
	provider.ID = id
	updated, err := s.providerRepository.Update(ctx, provider)
	if err != nil {
		s.logger.Error("failed to update provider", zap.Int64("provider_id", id), zap.Error(err))
		return nil, err
	}
	return &updated, nil
}

func (s *ProviderService) FindProvider(ctx context.Context, id int64) (*entities.Provider, error) {
	provider, err := s.providerRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	provider.Equipments, err = s.equipmentRepository.FindByProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (s *ProviderService) ListProviders(ctx context.Context) ([]entities.Provider, error) {
	return s.providerRepository.FindAll(ctx)
}

// DeleteProvider never cascades: it is rejected while equipment still references the provider.
func (s *ProviderService) DeleteProvider(ctx context.Context, id int64) error {
	if _, err := s.providerRepository.FindByID(ctx, id); err != nil {
		return err
	}
	supplied, err := s.equipmentRepository.CountByProvider(ctx, id)
	if err != nil {
		return err
	}
	if supplied > 0 {
		s.logger.Warn("provider still supplies equipment", zap.Int64("provider_id", id), zap.Int("equipment", supplied))
		return apperrors.NewConstraintError("equipments_provider_id_fkey",
			fmt.Errorf("provider %d still supplies %d equipment", id, supplied))
	}

	if _, err := s.providerRepository.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete provider", zap.Int64("provider_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("provider deleted", zap.Int64("provider_id", id))
	return nil
}

func providerFromDTO(d dto.CreateProviderDTO) entities.Provider {
	return entities.Provider{
		Name:         d.Name,
		TaxID:        d.TaxID,
		ContactEmail: d.ContactEmail,
		Address:      d.Address,
	}
}
