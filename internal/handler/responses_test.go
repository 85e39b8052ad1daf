package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/npcbot/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
		{"character missing", domain.ErrCharacterNotFound, http.StatusNotFound, ErrMsgCharacterNotFoundError},
		{"wrapped item missing", fmt.Errorf("lookup: %w", domain.ErrItemNotFound), http.StatusNotFound, ErrMsgItemNotFoundError},
		{"bare not found", domain.ErrNotFound, http.StatusNotFound, ErrMsgResourceNotFoundErr},
		{"not owner", domain.ErrNotOwner, http.StatusForbidden, ErrMsgNotOwnerError},
		{"not allowed", domain.ErrNotAllowed, http.StatusForbidden, ErrMsgNotAllowedError},
		{"duplicate name", domain.ErrDuplicateName, http.StatusConflict, ErrMsgDuplicateNameError},
		{"duplicate item", domain.ErrDuplicateItem, http.StatusConflict, ErrMsgDuplicateItemError},
		{"pending confirmation", domain.ErrConfirmationPending, http.StatusConflict, ErrMsgConfirmationPendingErr},
		{"invalid input", fmt.Errorf("%w: name too long", domain.ErrInvalidInput), http.StatusBadRequest, ErrMsgInvalidRequestError},
		{"purchase failed on stock", fmt.Errorf("%w: %w", domain.ErrPurchaseFailed, domain.ErrInsufficientStock), http.StatusConflict, ErrMsgStockChangedError},
		{"unknown error stays generic", errors.New("dial tcp 10.0.0.1:5432: refused"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestRespondJSON_UnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrMsgGenericServerError)
}
