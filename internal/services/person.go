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

type PersonServiceInterface interface {
	CreatePerson(ctx context.Context, d dto.CreatePersonDTO) (*entities.Person, error)
	UpdatePerson(ctx context.Context, id int64, d dto.UpdatePersonDTO) (*entities.Person, error)
	FindPerson(ctx context.Context, id int64) (*entities.Person, error)
	ListPersons(ctx context.Context) ([]entities.Person, error)
	DeletePerson(ctx context.Context, id int64) error
}

type PersonService struct {
	personRepository        repositories.PersonRepositoryInterface
	accessRequestRepository repositories.AccessRequestRepositoryInterface
	validator               *validation.CustomValidator
	logger                  *zap.Logger
}

func NewPersonService(
	personRepository repositories.PersonRepositoryInterface,
	accessRequestRepository repositories.AccessRequestRepositoryInterface,
	validator *validation.CustomValidator,
	logger *zap.Logger,
) *PersonService {
	return &PersonService{
		personRepository:        personRepository,
		accessRequestRepository: accessRequestRepository,
		validator:               validator,
		logger:                  logger,
	}
}

func (s *PersonService) CreatePerson(ctx context.Context, d dto.CreatePersonDTO) (*entities.Person, error) {
	person, err := s.buildPerson(d)
	if err != nil {
		return nil, err
	}

	saved, err := s.personRepository.Save(ctx, person)
	if err != nil {
		s.logger.Error("failed to create person", zap.String("document", d.Document), zap.Error(err))
		return nil, err
	}
	s.logger.Info("person created", zap.Int64("person_id", saved.ID), zap.String("role", string(saved.Role)))
	return &saved, nil
}

func (s *PersonService) UpdatePerson(ctx context.Context, id int64, d dto.UpdatePersonDTO) (*entities.Person, error) {
	person, err := s.buildPerson(d)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, apperrors.RequiredField("id")
	}
	person.ID = id

	updated, err := s.personRepository.Update(ctx, person)
	if err != nil {
		s.logger.Error("failed to update person", zap.Int64("person_id", id), zap.Error(err))
		return nil, err
	}
	return &updated, nil
}

func (s *PersonService) FindPerson(ctx context.Context, id int64) (*entities.Person, error) {
	person, err := s.personRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *PersonService) ListPersons(ctx context.Context) ([]entities.Person, error) {
	return s.personRepository.FindAll(ctx)
}

// DeletePerson refuses while access requests still reference the person.
func (s *PersonService) DeletePerson(ctx context.Context, id int64) error {
	if _, err := s.personRepository.FindByID(ctx, id); err != nil {
		return err
	}
	refs, err := s.accessRequestRepository.CountByPerson(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.NewConstraintError("access_requests_person_id_fkey",
			fmt.Errorf("person %d is referenced by %d access requests", id, refs))
	}

	if _, err := s.personRepository.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete person", zap.Int64("person_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("person deleted", zap.Int64("person_id", id))
	return nil
}

func (s *PersonService) buildPerson(d dto.CreatePersonDTO) (entities.Person, error) {
	if err := s.validator.Validate(d); err != nil {
		return entities.Person{}, err
	}
	role, err := entities.ParseRole(d.Role)
	if err != nil {
		return entities.Person{}, apperrors.NewValidationError("role", "%v", err)
	}
	return entities.Person{FullName: d.FullName, Document: d.Document, Role: role}, nil
}
