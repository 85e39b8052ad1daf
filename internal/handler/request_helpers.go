package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/npcbot/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON request body and validates it.
//
// If this function returns an error, the HTTP response has already been written and the handler should return.
//
// Example usage:
//
//	var req CreateCharacterRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Create character"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req any, actionName string) error {
	log := logger.FromContext(r.Context())

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(req); err != nil {
		log.Warn(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}

	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetPathParam returns the decoded chi URL parameter. A missing or empty
// parameter writes a 400 and returns false.
func GetPathParam(r *http.Request, w http.ResponseWriter, key string) (string, bool) {
	value := chi.URLParam(r, key)
	// chi matches on RawPath when the request carried escapes
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(value); err == nil {
			value = unescaped
		}
	}
	if value == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, key))
		return "", false
	}
	return value, true
}

// GetActor returns the caller's user id from the X-Actor-ID header.
// Mutating endpoints need it; a missing header writes a 400.
func GetActor(r *http.Request, w http.ResponseWriter) (string, bool) {
	actor := r.Header.Get(HeaderActorID)
	if actor == "" {
		logger.FromContext(r.Context()).Warn(LogMsgMissingActor, "path", r.URL.Path)
		respondError(w, http.StatusBadRequest, ErrMsgMissingActor)
		return "", false
	}
	return actor, true
}

// characterParams pulls the tenant and character name every character route carries
func characterParams(r *http.Request, w http.ResponseWriter) (tenantID, name string, ok bool) {
	if tenantID, ok = GetPathParam(r, w, ParamTenant); !ok {
		return "", "", false
	}
	if name, ok = GetPathParam(r, w, ParamCharacter); !ok {
		return "", "", false
	}
	return tenantID, name, true
}

// itemParams extends characterParams with the item name
func itemParams(r *http.Request, w http.ResponseWriter) (tenantID, name, item string, ok bool) {
	if tenantID, name, ok = characterParams(r, w); !ok {
		return "", "", "", false
	}
	if item, ok = GetPathParam(r, w, ParamItem); !ok {
		return "", "", "", false
	}
	return tenantID, name, item, true
}
