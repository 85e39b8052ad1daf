package handler

import (
	"net/http"

	"github.com/osse101/npcbot/internal/character"
	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/permission"
	"github.com/osse101/npcbot/internal/prompt"
)

type CreateCharacterRequest struct {
	Name       string `json:"name" validate:"required,entityname,max=50"`
	ImageURL   string `json:"image_url" validate:"omitempty,url,max=255"`
	Background string `json:"background" validate:"max=1000"`
}

type EditCharacterRequest struct {
	NewName    *string `json:"new_name" validate:"omitempty,entityname,max=50"`
	ImageURL   *string `json:"image_url" validate:"omitempty,max=255"`
	Background *string `json:"background" validate:"omitempty,max=1000"`
}

type GrantAccessRequest struct {
	UserID string `json:"user_id" validate:"required,max=50"`
}

type DeleteAllRequest struct {
	Confirm bool `json:"confirm"`
}

// HandleListCharacters lists every character of the tenant
// @Summary List characters
// @Tags character
// @Produce json
// @Param tenant path string true "Guild ID"
// @Success 200 {array} domain.Character
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters [get]
// @Security ApiKeyAuth
func HandleListCharacters(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := GetPathParam(r, w, ParamTenant)
		if !ok {
			return
		}

		characters, err := svc.ListAll(r.Context(), tenantID)
		if err != nil {
			respondServiceError(w, r, "List characters", err)
			return
		}
		if characters == nil {
			characters = []domain.Character{}
		}

		respondJSON(w, http.StatusOK, characters)
	}
}

// HandleCreateCharacter creates a character owned by the actor
// @Summary Create character
// @Description Creates a character owned by the caller, who is its first allowed user
// @Tags character
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body CreateCharacterRequest true "Character details"
// @Success 201 {object} domain.Character
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters [post]
// @Security ApiKeyAuth
func HandleCreateCharacter(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := GetPathParam(r, w, ParamTenant)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req CreateCharacterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create character"); err != nil {
			return
		}

		c, err := svc.Create(r.Context(), tenantID, req.Name, req.ImageURL, req.Background, actor)
		if err != nil {
			respondServiceError(w, r, "Create character", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCharacterCreated, "tenant_id", tenantID, "character", c.Name, "owner", actor)
		respondJSON(w, http.StatusCreated, c)
	}
}

// HandleGetCharacter returns the full character to one of its allowed users
// @Summary Get character
// @Tags character
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Success 200 {object} domain.Character
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name} [get]
// @Security ApiKeyAuth
func HandleGetCharacter(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, ok := characterParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		c, err := svc.Get(r.Context(), tenantID, name)
		if err == nil {
			err = permission.RequireAllowed(c, actor)
		}
		if err != nil {
			respondServiceError(w, r, "Get character", err)
			return
		}

		respondJSON(w, http.StatusOK, c)
	}
}

// HandleEditCharacter applies a partial update. Absent fields are left unchanged
// and an empty string clears the field.
// @Summary Edit character
// @Description Applies a partial update; a rename must not collide with another character
// @Tags character
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body EditCharacterRequest true "Fields to change"
// @Success 200 {object} domain.Character
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name} [patch]
// @Security ApiKeyAuth
func HandleEditCharacter(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, ok := characterParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req EditCharacterRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Edit character"); err != nil {
			return
		}

		patch := domain.CharacterPatch{NewName: req.NewName, ImageURL: req.ImageURL, Background: req.Background}
		if patch.IsEmpty() {
			respondError(w, http.StatusBadRequest, ErrMsgEmptyPatch)
			return
		}

		c, err := svc.Edit(r.Context(), tenantID, name, patch, actor)
		if err != nil {
			respondServiceError(w, r, "Edit character", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCharacterUpdated, "tenant_id", tenantID, "character", c.Name, "actor", actor)
		respondJSON(w, http.StatusOK, c)
	}
}

// HandleGrantAccess lets the owner share the character with another user
// @Summary Grant character access
// @Tags character
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body GrantAccessRequest true "User to allow"
// @Success 200 {object} domain.Character
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/access [post]
// @Security ApiKeyAuth
func HandleGrantAccess(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, ok := characterParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req GrantAccessRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Grant access"); err != nil {
			return
		}

		c, err := svc.GrantAccess(r.Context(), tenantID, name, actor, req.UserID)
		if err != nil {
			respondServiceError(w, r, "Grant access", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgAccessGranted, "tenant_id", tenantID, "character", name, "grantee", req.UserID)
		respondJSON(w, http.StatusOK, c)
	}
}

// HandleDeleteCharacter deletes a character and its inventory
// @Summary Delete character
// @Tags character
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name} [delete]
// @Security ApiKeyAuth
func HandleDeleteCharacter(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, ok := characterParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), tenantID, name, actor); err != nil {
			respondServiceError(w, r, "Delete character", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCharacterDeleted, "tenant_id", tenantID, "character", name, "actor", actor)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgCharacterDeleted})
	}
}

// HandleDeleteAllCharacters runs the two-step delete with the answer taken
// from the request body. Anything but confirm=true cancels.
// @Summary Delete all characters
// @Description Deletes every character and item of the guild when confirm is true
// @Tags character
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body DeleteAllRequest true "Confirmation"
// @Success 200 {object} DataResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters:delete-all [post]
// @Security ApiKeyAuth
func HandleDeleteAllCharacters(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := GetPathParam(r, w, ParamTenant)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req DeleteAllRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Delete all characters"); err != nil {
			return
		}

		choice := domain.ChoiceDeclined
		if req.Confirm {
			choice = domain.ChoiceAccepted
		}

		result, err := svc.DeleteAll(r.Context(), tenantID, actor, prompt.Fixed(choice))
		if err != nil {
			respondServiceError(w, r, "Delete all characters", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgDeleteAllFinished, "tenant_id", tenantID, "outcome", result.Outcome, "deleted", result.Deleted)

		message := MsgDeleteAllCancelled
		if result.Outcome == character.DeleteAllConfirmed {
			message = MsgAllCharactersDeleted
		}
		respondJSON(w, http.StatusOK, DataResponse{Message: message, Data: result})
	}
}
