package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"equipment-access/internal/dto"
	"equipment-access/internal/entities"
	"equipment-access/internal/events"
	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/validation"
)

type AccessRequestServiceInterface interface {
	CreateEntryRequest(ctx context.Context, d dto.CreateAccessRequestDTO) (*entities.AccessRequest, error)
	UpdateEntryRequest(ctx context.Context, id int64, d dto.UpdateAccessRequestDTO) (*entities.AccessRequest, error)
	DeleteEntryRequest(ctx context.Context, id int64) error
	FindEntryRequest(ctx context.Context, id int64) (*entities.AccessRequest, error)
	ListEntryRequests(ctx context.Context) ([]entities.AccessRequest, error)
	// History lists the requests of one pair, oldest first.
	History(ctx context.Context, personID, equipmentID int64) ([]entities.AccessRequest, error)
}

type AccessRequestService struct {
	accessRequestRepository repositories.AccessRequestRepositoryInterface
	personRepository        repositories.PersonRepositoryInterface
	equipmentRepository     repositories.EquipmentRepositoryInterface
	validator               *validation.CustomValidator
	bus                     *eventbus.Bus
	logger                  *zap.Logger
}

func NewAccessRequestService(
	accessRequestRepository repositories.AccessRequestRepositoryInterface,
	personRepository repositories.PersonRepositoryInterface,
	equipmentRepository repositories.EquipmentRepositoryInterface,
	validator *validation.CustomValidator,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *AccessRequestService {
	return &AccessRequestService{
		accessRequestRepository: accessRequestRepository,
		personRepository:        personRepository,
		equipmentRepository:     equipmentRepository,
		validator:               validator,
		bus:                     bus,
		logger:                  logger,
	}
}

// CreateEntryRequest records an administrative access request. The timestamp is
// always assigned by the store.
func (s *AccessRequestService) CreateEntryRequest(ctx context.Context, d dto.CreateAccessRequestDTO) (*entities.AccessRequest, error) {
	if err := s.validator.Validate(d); err != nil {
		return nil, err
	}
	requestType, err := entities.ParseRequestType(d.Type)
	if err != nil {
		return nil, apperrors.NewValidationError("type", "%v", err)
	}
	if err := s.resolvePair(ctx, d.PersonID, d.EquipmentID); err != nil {
		return nil, err
	}

	saved, err := s.accessRequestRepository.Save(ctx, entities.AccessRequest{
		PersonID:    d.PersonID,
		EquipmentID: d.EquipmentID,
		Purpose:     d.Purpose,
		Type:        requestType,
	})
	if err != nil {
		s.logger.Error("failed to create access request",
			zap.Int64("person_id", d.PersonID), zap.Int64("equipment_id", d.EquipmentID), zap.Error(err))
		return nil, err
	}

	s.bus.Publish(ctx, events.AccessRequestCreatedEvent{Request: saved})
	return &saved, nil
}

// UpdateEntryRequest applies only the fields present in the patch. A patch
// without effective fields returns the stored request without writing.
func (s *AccessRequestService) UpdateEntryRequest(ctx context.Context, id int64, d dto.UpdateAccessRequestDTO) (*entities.AccessRequest, error) {
	if id <= 0 {
		return nil, apperrors.RequiredField("id")
	}
	if d.Type != nil && strings.TrimSpace(*d.Type) == "" {
		d.Type = nil
	}
	if err := s.validator.Validate(d); err != nil {
		return nil, err
	}

	current, err := s.accessRequestRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patched := current
	changed := false
	if d.PersonID != nil && *d.PersonID != current.PersonID {
		if _, err := requireExisting(ctx, "person", *d.PersonID, s.personRepository.FindByID); err != nil {
			return nil, err
		}
		patched.PersonID, changed = *d.PersonID, true
	}
	if d.EquipmentID != nil && *d.EquipmentID != current.EquipmentID {
		if _, err := requireExisting(ctx, "equipment", *d.EquipmentID, s.equipmentRepository.FindByID); err != nil {
			return nil, err
		}
		patched.EquipmentID, changed = *d.EquipmentID, true
	}
	if d.Purpose != nil && strings.TrimSpace(*d.Purpose) != "" {
		patched.Purpose, changed = *d.Purpose, true
	}
	if d.Type != nil {
		requestType, err := entities.ParseRequestType(*d.Type)
		if err != nil {
			return nil, apperrors.NewValidationError("type", "%v", err)
		}
		patched.Type, changed = requestType, true
	}

	if !changed {
		return &current, nil
	}

	updated, err := s.accessRequestRepository.Update(ctx, patched)
	if err != nil {
		s.logger.Error("failed to update access request", zap.Int64("request_id", id), zap.Error(err))
		return nil, err
	}
	return &updated, nil
}

func (s *AccessRequestService) DeleteEntryRequest(ctx context.Context, id int64) error {
	deleted, err := s.accessRequestRepository.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.logger.Info("access request deleted",
		zap.Int64("request_id", id),
		zap.Int64("person_id", deleted.PersonID),
		zap.Int64("equipment_id", deleted.EquipmentID))
	return nil
}

func (s *AccessRequestService) FindEntryRequest(ctx context.Context, id int64) (*entities.AccessRequest, error) {
	request, err := s.accessRequestRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *AccessRequestService) ListEntryRequests(ctx context.Context) ([]entities.AccessRequest, error) {
	return s.accessRequestRepository.FindAllOrdered(ctx)
}

func (s *AccessRequestService) History(ctx context.Context, personID, equipmentID int64) ([]entities.AccessRequest, error) {
	if err := s.resolvePair(ctx, personID, equipmentID); err != nil {
		return nil, err
	}
	return s.accessRequestRepository.FindByPair(ctx, personID, equipmentID)
}

func (s *AccessRequestService) resolvePair(ctx context.Context, personID, equipmentID int64) error {
	if _, err := requireExisting(ctx, "person", personID, s.personRepository.FindByID); err != nil {
		return err
	}
	_, err := requireExisting(ctx, "equipment", equipmentID, s.equipmentRepository.FindByID)
	return err
}
