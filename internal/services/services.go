package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "equipment-access/pkg/errors"
)

// requireExisting resolves a foreign reference and names it in the NotFound error.
func requireExisting[T any](ctx context.Context, what string, id int64, find func(context.Context, int64) (T, error)) (T, error) {
	found, err := find(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return found, fmt.Errorf("%s %d: %w", what, id, apperrors.ErrNotFound)
	}
	return found, err
}
