package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-access/internal/dto"
	"equipment-access/internal/entities"
	apperrors "equipment-access/pkg/errors"
	"equipment-access/pkg/utils"
)

func TestAccessRequestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person, equipment := f.seedPair(t)

	created := f.entry(t, person.ID, equipment.ID, "Maintenance")
	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, entities.RequestEntry, created.Type)
	assert.False(t, created.RequestedAt.IsZero())

	_, err := f.requests.CreateEntryRequest(ctx, dto.CreateAccessRequestDTO{
		PersonID: 99, EquipmentID: equipment.ID, Purpose: "x", Type: "ENTRY",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.requests.CreateEntryRequest(ctx, dto.CreateAccessRequestDTO{
		PersonID: person.ID, EquipmentID: equipment.ID, Purpose: strings.Repeat("a", 101), Type: "ENTRY",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.requests.CreateEntryRequest(ctx, dto.CreateAccessRequestDTO{
		PersonID: person.ID, EquipmentID: equipment.ID, Purpose: "x", Type: "IN",
	})
	assert.True(t, apperrors.IsValidation(err))

	f.bus.Wait()
	assert.Len(t, f.logs.FilterMessage("access request created").All(), 1)
}

func TestAccessRequestService_PurposeAtLimit(t *testing.T) {
	f := newFixture(t)
	person, equipment := f.seedPair(t)

	created := f.entry(t, person.ID, equipment.ID, strings.Repeat("é", entities.MaxPurposeLength))
	assert.Len(t, []rune(created.Purpose), entities.MaxPurposeLength)
}

func TestAccessRequestService_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person, equipment := f.seedPair(t)
	created := f.entry(t, person.ID, equipment.ID, "Maintenance")

	unchanged, err := f.requests.UpdateEntryRequest(ctx, created.ID, dto.UpdateAccessRequestDTO{})
	require.NoError(t, err)
	assert.Equal(t, *created, *unchanged)

	blank, err := f.requests.UpdateEntryRequest(ctx, created.ID, dto.UpdateAccessRequestDTO{Purpose: utils.ToPtr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "Maintenance", blank.Purpose)

	for _, raw := range []string{"", "  "} {
		blankType, err := f.requests.UpdateEntryRequest(ctx, created.ID, dto.UpdateAccessRequestDTO{Type: utils.ToPtr(raw)})
		require.NoError(t, err)
		assert.Equal(t, *created, *blankType)
	}

	_, err = f.requests.UpdateEntryRequest(ctx, 12345, dto.UpdateAccessRequestDTO{Type: utils.ToPtr("SIDEWAYS")})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)

	updated, err := f.requests.UpdateEntryRequest(ctx, created.ID, dto.UpdateAccessRequestDTO{
		Purpose: utils.ToPtr("Calibration"),
		Type:    utils.ToPtr("exit"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Calibration", updated.Purpose)
	assert.Equal(t, entities.RequestExit, updated.Type)
	assert.Equal(t, created.PersonID, updated.PersonID)
	assert.True(t, created.RequestedAt.Equal(updated.RequestedAt))

	_, err = f.requests.UpdateEntryRequest(ctx, created.ID, dto.UpdateAccessRequestDTO{PersonID: utils.ToPtr(int64(77))})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.requests.UpdateEntryRequest(ctx, 12345, dto.UpdateAccessRequestDTO{Purpose: utils.ToPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.requests.UpdateEntryRequest(ctx, 0, dto.UpdateAccessRequestDTO{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAccessRequestService_DeleteAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	person, equipment := f.seedPair(t)
	first := f.entry(t, person.ID, equipment.ID, "a")
	second := f.entry(t, person.ID, equipment.ID, "b")

	history, err := f.requests.History(ctx, person.ID, equipment.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)

	require.NoError(t, f.requests.DeleteEntryRequest(ctx, first.ID))
	_, err = f.requests.FindEntryRequest(ctx, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, f.requests.DeleteEntryRequest(ctx, first.ID), apperrors.ErrNotFound)

	all, err := f.requests.ListEntryRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.requests.History(ctx, person.ID, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
