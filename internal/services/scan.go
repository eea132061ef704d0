package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"equipment-access/internal/entities"
	"equipment-access/internal/repositories"
	"equipment-access/pkg/config"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/qr"
)

const scanKeyPrefix = "scan:"

type ScanServiceInterface interface {
	ScanAndToggle(ctx context.Context, source qr.FrameSource) (*entities.AccessRequest, error)
}

// ScanService reads a token from camera frames and toggles the pair it names.
// A token seen again within the debounce window of an applied toggle is dropped.
type ScanService struct {
	toggle  AccessToggleServiceInterface
	decoder qr.Decoder
	cache   repositories.CacheRepositoryInterface
	cfg     config.ScanConfig
	logger  *zap.Logger
}

func NewScanService(
	toggle AccessToggleServiceInterface,
	decoder qr.Decoder,
	cache repositories.CacheRepositoryInterface,
	cfg config.ScanConfig,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{toggle: toggle, decoder: decoder, cache: cache, cfg: cfg, logger: logger}
}

func (s *ScanService) ScanAndToggle(ctx context.Context, source qr.FrameSource) (*entities.AccessRequest, error) {
	scanCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	raw, err := qr.Scan(scanCtx, source, s.decoder, s.cfg.FrameInterval)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = apperrors.ErrNoToken
	}
	if err != nil {
		s.logger.Debug("no token scanned", zap.Error(err))
		return nil, err
	}

	if s.cfg.Debounce <= 0 {
		return s.toggle.Toggle(ctx, raw)
	}

	key := scanKeyPrefix + raw
	fresh, err := s.cache.SetNX(ctx, key, time.Now().Unix(), s.cfg.Debounce)
	if err != nil {
		return nil, err
	}
	if !fresh {
		s.logger.Info("duplicate scan ignored", zap.String("token", raw))
		return nil, apperrors.ErrDuplicateScan
	}

	next, err := s.toggle.Toggle(ctx, raw)
	if err != nil {
		// only applied toggles hold the debounce window
		if delErr := s.cache.Del(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Warn("release scan debounce key", zap.String("token", raw), zap.Error(delErr))
		}
		return nil, err
	}
	return next, nil
}
