package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintError(t *testing.T) {
	cause := errors.New("duplicate key")
	err := fmt.Errorf("save: %w", NewConstraintError("persons_document_key", cause))

	assert.ErrorIs(t, err, ErrConstraintViolation)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "persons_document_key")

	var cerr *ConstraintError
	assert.True(t, errors.As(err, &cerr))
	assert.Equal(t, "persons_document_key", cerr.Constraint)
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{NewValidationError("purpose", "too long"), http.StatusBadRequest},
		{&DecodeError{Token: "x", Reason: "bad"}, http.StatusBadRequest},
		{&EncodeError{Reason: "negative"}, http.StatusBadRequest},
		{fmt.Errorf("person 1: %w", ErrNotFound), http.StatusNotFound},
		{ErrNoToken, http.StatusNotFound},
		{NewConstraintError("equipments_serial_key", nil), http.StatusConflict},
		{fmt.Errorf("pair 1,5: %w", ErrNoPriorRecord), http.StatusConflict},
		{ErrAlreadyPersisted, http.StatusConflict},
		{ErrDuplicateScan, http.StatusTooManyRequests},
		{NewHttpError(http.StatusTeapot, "tea", nil, nil), http.StatusTeapot},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, StatusCode(tc.err), tc.err.Error())
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsValidation(RequiredField("serial")))
	assert.False(t, IsValidation(ErrNotFound))
	assert.True(t, IsDecode(fmt.Errorf("wrap: %w", &DecodeError{Token: "a", Reason: "b"})))
}
