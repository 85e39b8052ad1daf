package handler

import (
	"net/http"

	"github.com/osse101/npcbot/internal/character"
)

// HandleGetCacheStats reports hit and miss counts for the character cache
// @Summary Get character cache stats
// @Description Returns cache hit, miss and stale counts for monitoring (admin only)
// @Tags admin
// @Produce json
// @Success 200 {object} character.CacheStats
// @Router /api/v1/admin/cache/stats [get]
// @Security ApiKeyAuth
func HandleGetCacheStats(svc character.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, svc.GetCacheStats())
	}
}
