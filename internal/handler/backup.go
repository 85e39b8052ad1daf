package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/osse101/npcbot/internal/backup"
	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
)

// BackupService exports and imports a tenant's characters as a JSON document
type BackupService interface {
	Export(ctx context.Context, tenantID string) ([]byte, error)
	Import(ctx context.Context, tenantID string, data []byte) (int, error)
}

type ImportResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

// HandleExportCharacters downloads the tenant's characters as characters.json
// @Summary Export characters
// @Description Downloads every character of the guild as a backup document
// @Tags backup
// @Produce json
// @Param tenant path string true "Guild ID"
// @Success 200 {object} backup.Document
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/export [get]
// @Security ApiKeyAuth
func HandleExportCharacters(svc BackupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := GetPathParam(r, w, ParamTenant)
		if !ok {
			return
		}

		data, err := svc.Export(r.Context(), tenantID)
		if errors.Is(err, backup.ErrNoCharacters) {
			respondError(w, http.StatusNotFound, ErrMsgNoCharacters)
			return
		}
		if err != nil {
			respondServiceError(w, r, "Export characters", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCharactersExported, "tenant_id", tenantID, "bytes", len(data))

		w.Header().Set(HeaderContentType, ContentTypeJSON)
		w.Header().Set(HeaderDisposition, fmt.Sprintf("attachment; filename=%q", backup.FileName))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// HandleImportCharacters loads a backup document from the request body.
// Names that already exist in the tenant are skipped.
// @Summary Import characters
// @Tags backup
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param request body backup.Document true "Backup document"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/import [post]
// @Security ApiKeyAuth
func HandleImportCharacters(svc BackupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := GetPathParam(r, w, ParamTenant)
		if !ok {
			return
		}

		data, err := io.ReadAll(r.Body)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		imported, err := svc.Import(r.Context(), tenantID, data)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				logger.FromContext(r.Context()).Warn("Import characters rejected", "error", err)
				respondError(w, http.StatusBadRequest, ErrMsgInvalidBackup)
				return
			}
			respondServiceError(w, r, "Import characters", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgCharactersImported, "tenant_id", tenantID, "imported", imported)
		respondJSON(w, http.StatusOK, ImportResponse{Message: MsgCharactersImported, Imported: imported})
	}
}
