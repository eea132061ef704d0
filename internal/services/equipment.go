package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"equipment-access/internal/dto"
	"equipment-access/internal/entities"
	"equipment-access/internal/events"
	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/imagestore"
	"equipment-access/pkg/validation"
)

type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, d dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id int64, d dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	FindEquipment(ctx context.Context, id int64) (*entities.Equipment, error)
	ListEquipments(ctx context.Context) ([]entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error
	AttachImage(ctx context.Context, id int64, data []byte) (*entities.Equipment, error)
}

type EquipmentService struct {
	equipmentRepository     repositories.EquipmentRepositoryInterface
	providerRepository      repositories.ProviderRepositoryInterface
	accessRequestRepository repositories.AccessRequestRepositoryInterface
	images                  imagestore.Store
	validator               *validation.CustomValidator
	bus                     *eventbus.Bus
	logger                  *zap.Logger
}

func NewEquipmentService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	providerRepository repositories.ProviderRepositoryInterface,
	accessRequestRepository repositories.AccessRequestRepositoryInterface,
	images imagestore.Store,
	validator *validation.CustomValidator,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepository:     equipmentRepository,
		providerRepository:      providerRepository,
		accessRequestRepository: accessRequestRepository,
		images:                  images,
		validator:               validator,
		bus:                     bus,
		logger:                  logger,
	}
}

// CreateEquipment provisions a piece of equipment of either kind for an existing provider.
func (s *EquipmentService) CreateEquipment(ctx context.Context, d dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	equipment, err := s.buildEquipment(d)
	if err != nil {
		return nil, err
	}
	if _, err := requireExisting(ctx, "provider", equipment.ProviderID, s.providerRepository.FindByID); err != nil {
		return nil, err
	}

	saved, err := s.equipmentRepository.Save(ctx, equipment)
	if err != nil {
		s.logger.Error("failed to provision equipment", zap.String("serial", d.Serial), zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.EquipmentProvisionedEvent{Equipment: saved, Created: true})
	return &saved, nil
}

// UpdateEquipment replaces the equipment fields. The kind of stored equipment
// never changes and an absent image_url keeps the current image.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id int64, d dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	equipment, err := s.buildEquipment(d)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, apperrors.RequiredField("id")
	}

	current, err := s.equipmentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Kind != equipment.Kind {
		return nil, apperrors.NewValidationError("kind", "cannot change from %s to %s", current.Kind, equipment.Kind)
	}
	if equipment.ProviderID != current.ProviderID {
		if _, err := requireExisting(ctx, "provider", equipment.ProviderID, s.providerRepository.FindByID); err != nil {
			return nil, err
		}
	}
	if !equipment.ImageURL.Valid {
		equipment.ImageURL = current.ImageURL
	}
	equipment.ID = id

	updated, err := s.equipmentRepository.Update(ctx, equipment)
	if err != nil {
		s.logger.Error("failed to update equipment", zap.Int64("equipment_id", id), zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.EquipmentProvisionedEvent{Equipment: updated})
	return &updated, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id int64) (*entities.Equipment, error) {
	equipment, err := s.equipmentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &equipment, nil
}

func (s *EquipmentService) ListEquipments(ctx context.Context) ([]entities.Equipment, error) {
	return s.equipmentRepository.FindAll(ctx)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id int64) error {
	if _, err := s.equipmentRepository.FindByID(ctx, id); err != nil {
		return err
	}
	refs, err := s.accessRequestRepository.CountByEquipment(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.NewConstraintError("access_requests_equipment_id_fkey",
			fmt.Errorf("equipment %d is referenced by %d access requests", id, refs))
	}

	if _, err := s.equipmentRepository.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete equipment", zap.Int64("equipment_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("equipment deleted", zap.Int64("equipment_id", id))
	return nil
}

// AttachImage stores an uploaded photo and points the equipment at it.
func (s *EquipmentService) AttachImage(ctx context.Context, id int64, data []byte) (*entities.Equipment, error) {
	contentType, err := validation.ValidateImage(data)
	if err != nil {
		return nil, err
	}
	equipment, err := s.equipmentRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, data, contentType)
	if err != nil {
		s.logger.Error("failed to upload equipment image", zap.Int64("equipment_id", id), zap.Error(err))
		return nil, err
	}
	equipment.ImageURL = null.StringFrom(url)

	updated, err := s.equipmentRepository.Update(ctx, equipment)
	if err != nil {
		return nil, err
	}
	s.logger.Info("equipment image attached", zap.Int64("equipment_id", id), zap.String("url", url))
	return &updated, nil
}

func (s *EquipmentService) buildEquipment(d dto.EquipmentDTO) (entities.Equipment, error) {
	if err := s.validator.Validate(d); err != nil {
		return entities.Equipment{}, err
	}

	kind, err := entities.ParseEquipmentKind(d.Kind)
	if err != nil {
		return entities.Equipment{}, apperrors.NewValidationError("kind", "%v", err)
	}
	status, err := entities.ParseEquipmentStatus(d.Status)
	if err != nil {
		return entities.Equipment{}, apperrors.NewValidationError("status", "%v", err)
	}
	frequency, err := entities.ParseMaintenanceFrequency(d.Frequency)
	if err != nil {
		return entities.Equipment{}, apperrors.NewValidationError("maintenance_frequency", "%v", err)
	}

	base := entities.Equipment{
		Serial:     strings.TrimSpace(d.Serial),
		Brand:      d.Brand,
		Model:      d.Model,
		Status:     status,
		Frequency:  frequency,
		ProviderID: d.ProviderID,
		ImageURL:   d.ImageURL,
	}

	switch kind {
	case entities.KindTech:
		if strings.TrimSpace(d.OS) == "" {
			return entities.Equipment{}, apperrors.RequiredField("os")
		}
		if d.RAMGB == nil {
			return entities.Equipment{}, apperrors.RequiredField("ram_gb")
		}
		return entities.NewTechEquipment(base, entities.TechSpec{OS: d.OS, RAMGB: *d.RAMGB}), nil
	default:
		if strings.TrimSpace(d.RiskClass) == "" {
			return entities.Equipment{}, apperrors.RequiredField("risk_class")
		}
		if strings.TrimSpace(d.CalibrationCert) == "" {
			return entities.Equipment{}, apperrors.RequiredField("calibration_cert")
		}
		return entities.NewBiomedicalEquipment(base, entities.BiomedicalSpec{
			RiskClass:       d.RiskClass,
			CalibrationCert: d.CalibrationCert,
		}), nil
	}
}
