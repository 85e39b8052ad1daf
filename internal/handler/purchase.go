package handler

import (
	"net/http"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/logger"
	"github.com/osse101/npcbot/internal/prompt"
	"github.com/osse101/npcbot/internal/purchase"
)

// BuyItemRequest carries the barter answer up front since HTTP cannot hold
// the buyer in a prompt. An absent barter field means decline.
type BuyItemRequest struct {
	Quantity int    `json:"quantity" validate:"min=1,max=10000"`
	Barter   string `json:"barter" validate:"omitempty,oneof=attempt decline"`
}

// HandleBuyItem buys units of an item from a character
// @Summary Buy item
// @Description Buys units of an item. With barter=attempt a d20 is rolled once against the item's threshold.
// @Tags purchase
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param item path string true "Item name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param X-Actor-Name header string false "Display name for the receipt"
// @Param request body BuyItemRequest true "Purchase details"
// @Success 200 {object} domain.PurchaseResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/inventory/{item}/buy [post]
// @Security ApiKeyAuth
func HandleBuyItem(engine purchase.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, itemName, ok := itemParams(r, w)
		if !ok {
			return
		}
		buyer, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req BuyItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Buy item"); err != nil {
			return
		}

		choice := domain.ChoiceDeclined
		if req.Barter == BarterAttempt {
			choice = domain.ChoiceAccepted
		}

		result, err := engine.Buy(r.Context(), purchase.Request{
			TenantID:      tenantID,
			CharacterName: name,
			ItemName:      itemName,
			Quantity:      req.Quantity,
			BuyerID:       buyer,
			BuyerName:     r.Header.Get(HeaderActorName),
		}, prompt.Fixed(choice))
		if err != nil {
			respondServiceError(w, r, "Buy item", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgPurchaseCompleted,
			"tenant_id", tenantID,
			"character", name,
			"item", itemName,
			"quantity", req.Quantity,
			"total", result.TotalPrice,
			"discount", result.GotDiscount)
		respondJSON(w, http.StatusOK, result)
	}
}
