package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"equipment-access/internal/entities"
	"equipment-access/internal/events"
	"equipment-access/internal/metrics"
	"equipment-access/internal/repositories"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/eventbus"
	"equipment-access/pkg/token"
)

type AccessToggleServiceInterface interface {
	Toggle(ctx context.Context, raw string) (*entities.AccessRequest, error)
}

// AccessToggleService flips the latest ENTRY/EXIT of a (person, equipment) pair.
type AccessToggleService struct {
	accessRequestRepository repositories.AccessRequestRepositoryInterface
	recorder                *metrics.Recorder
	bus                     *eventbus.Bus
	logger                  *zap.Logger
}

func NewAccessToggleService(
	accessRequestRepository repositories.AccessRequestRepositoryInterface,
	recorder *metrics.Recorder,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *AccessToggleService {
	return &AccessToggleService{
		accessRequestRepository: accessRequestRepository,
		recorder:                recorder,
		bus:                     bus,
		logger:                  logger,
	}
}

// Toggle decodes the token and appends the successor of the pair's latest
// request: the opposite type with the same purpose. A pair without history is
// rejected with ErrNoPriorRecord. Concurrent toggles of one pair are serialized.
func (s *AccessToggleService) Toggle(ctx context.Context, raw string) (*entities.AccessRequest, error) {
	defer s.recorder.Observe("toggle", time.Now())

	pair, err := token.Decode(raw)
	if err != nil {
		s.recorder.ToggleFailed("decode")
		return nil, err
	}

	var prior, next entities.AccessRequest
	err = s.accessRequestRepository.WithPairLock(ctx, pair.PersonID, pair.EquipmentID,
		func(repo repositories.AccessRequestRepositoryInterface) error {
			latest, err := repo.Latest(ctx, pair.PersonID, pair.EquipmentID)
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("pair %s: %w", pair, apperrors.ErrNoPriorRecord)
			}
			if err != nil {
				return err
			}
			prior = latest
			next, err = repo.Save(ctx, entities.NextFrom(latest))
			return err
		})
	if err != nil {
		s.recorder.ToggleFailed(failureReason(err))
		s.logger.Warn("toggle rejected", zap.String("token", raw), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("toggle applied",
		zap.Int64("person_id", next.PersonID),
		zap.Int64("equipment_id", next.EquipmentID),
		zap.String("type", string(next.Type)),
		zap.Int64("request_id", next.ID))
	s.bus.Publish(ctx, events.AccessToggledEvent{Previous: prior, Request: next})
	return &next, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoPriorRecord):
		return "no_prior_record"
	case errors.Is(err, apperrors.ErrConstraintViolation):
		return "constraint"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "store"
	}
}
