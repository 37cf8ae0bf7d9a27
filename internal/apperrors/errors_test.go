package apperrors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestDomainErrorsWrapGenericSentinels(t *testing.T) {
	assert.ErrorIs(t, apperrors.ErrGroupNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, apperrors.ErrDuplicateIdentity, apperrors.ErrDuplicate)
	assert.ErrorIs(t, apperrors.ErrConcurrentAwardRace, apperrors.ErrDuplicate)
	assert.ErrorIs(t, apperrors.ErrInvalidCredential, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, apperrors.ErrInvalidInput, apperrors.ErrValidation)
	assert.NotErrorIs(t, apperrors.ErrGroupNotFound, apperrors.ErrDuplicate)
}

func TestAppErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("saving: %w", apperrors.NewConflictError("email taken"))

	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "email taken")

	appErr := apperrors.NewBadRequestError("bad")
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.ErrorIs(t, appErr, apperrors.ErrValidation)

	internal := apperrors.NewInternalServerError("boom")
	assert.Equal(t, "boom", internal.Error())
}
