package handler

import (
	"net/http"

	"github.com/osse101/npcbot/internal/domain"
	"github.com/osse101/npcbot/internal/inventory"
	"github.com/osse101/npcbot/internal/logger"
)

type AddItemRequest struct {
	Name              string `json:"name" validate:"required,entityname,max=100"`
	Quantity          int    `json:"quantity" validate:"min=0"`
	Info              string `json:"info" validate:"max=255"`
	Price             *int   `json:"price" validate:"omitempty,min=0"`
	DiscountPercent   int    `json:"discount_percent" validate:"min=0,max=100"`
	DiscountThreshold int    `json:"discount_threshold" validate:"min=0,max=20"`
}

// EditItemRequest uses pointers so an explicit zero is distinguishable from an absent field
type EditItemRequest struct {
	NewName           *string `json:"new_name" validate:"omitempty,entityname,max=100"`
	Quantity          *int    `json:"quantity" validate:"omitempty,min=0"`
	Info              *string `json:"info" validate:"omitempty,max=255"`
	Price             *int    `json:"price" validate:"omitempty,min=0"`
	DiscountPercent   *int    `json:"discount_percent" validate:"omitempty,min=0,max=100"`
	DiscountThreshold *int    `json:"discount_threshold" validate:"omitempty,min=0,max=20"`
}

// AddStockRequest takes a signed delta; a pointer so zero is accepted but absence is not
type AddStockRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// HandleListItems lists a character's inventory. Pricing is only included
// when the X-Actor-ID header names an allowed user.
// @Summary List inventory
// @Description Pricing and discounts are only shown to the character's allowed users
// @Tags inventory
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param X-Actor-ID header string false "Discord user ID of the viewer"
// @Success 200 {object} inventory.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/inventory [get]
// @Security ApiKeyAuth
func HandleListItems(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, ok := characterParams(r, w)
		if !ok {
			return
		}

		view, err := svc.ListItems(r.Context(), tenantID, name, r.Header.Get(HeaderActorID))
		if err != nil {
			respondServiceError(w, r, "List items", err)
			return
		}
		if view.Items == nil {
			view.Items = []domain.ItemView{}
		}

		respondJSON(w, http.StatusOK, view)
	}
}

// HandleAddItem stocks a new item on the character's shelf
// @Summary Add item
// @Tags inventory
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body AddItemRequest true "Item details"
// @Success 201 {object} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/inventory [post]
// @Security ApiKeyAuth
func HandleAddItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, ok := characterParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req AddItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add item"); err != nil {
			return
		}

		item, err := svc.AddItem(r.Context(), tenantID, name, inventory.NewItem{
			Name:              req.Name,
			Quantity:          req.Quantity,
			Info:              req.Info,
			Price:             req.Price,
			DiscountPercent:   req.DiscountPercent,
			DiscountThreshold: req.DiscountThreshold,
		}, actor)
		if err != nil {
			respondServiceError(w, r, "Add item", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgItemAdded, "tenant_id", tenantID, "character", name, "item", item.Name, "quantity", item.Quantity)
		respondJSON(w, http.StatusCreated, item)
	}
}

// HandleEditItem applies a partial update to an item
// @Summary Edit item
// @Tags inventory
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param item path string true "Item name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body EditItemRequest true "Fields to change"
// @Success 200 {object} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/inventory/{item} [patch]
// @Security ApiKeyAuth
func HandleEditItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, itemName, ok := itemParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req EditItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Edit item"); err != nil {
			return
		}

		patch := domain.ItemPatch{
			NewName:           req.NewName,
			Quantity:          req.Quantity,
			Info:              req.Info,
			Price:             req.Price,
			DiscountPercent:   req.DiscountPercent,
			DiscountThreshold: req.DiscountThreshold,
		}
		if patch.IsEmpty() {
			respondError(w, http.StatusBadRequest, ErrMsgEmptyPatch)
			return
		}

		item, err := svc.EditItem(r.Context(), tenantID, name, itemName, patch, actor)
		if err != nil {
			respondServiceError(w, r, "Edit item", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgItemUpdated, "tenant_id", tenantID, "character", name, "item", item.Name)
		respondJSON(w, http.StatusOK, item)
	}
}

// HandleRemoveItem deletes an item from the inventory
// @Summary Remove item
// @Tags inventory
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param item path string true "Item name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/inventory/{item} [delete]
// @Security ApiKeyAuth
func HandleRemoveItem(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, itemName, ok := itemParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		if err := svc.RemoveItem(r.Context(), tenantID, name, itemName, actor); err != nil {
			respondServiceError(w, r, "Remove item", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgItemRemoved, "tenant_id", tenantID, "character", name, "item", itemName)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgItemRemoved})
	}
}

// HandleAddStock adjusts the quantity by a signed delta
// @Summary Adjust stock
// @Description Adds a signed delta to the quantity; stock never goes below zero
// @Tags inventory
// @Accept json
// @Produce json
// @Param tenant path string true "Guild ID"
// @Param name path string true "Character name"
// @Param item path string true "Item name"
// @Param X-Actor-ID header string true "Discord user ID of the caller"
// @Param request body AddStockRequest true "Quantity change"
// @Success 200 {object} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/tenants/{tenant}/characters/{name}/inventory/{item}/stock [post]
// @Security ApiKeyAuth
func HandleAddStock(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, name, itemName, ok := itemParams(r, w)
		if !ok {
			return
		}
		actor, ok := GetActor(r, w)
		if !ok {
			return
		}

		var req AddStockRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add stock"); err != nil {
			return
		}

		item, err := svc.AddStock(r.Context(), tenantID, name, itemName, *req.Delta, actor)
		if err != nil {
			respondServiceError(w, r, "Add stock", err)
			return
		}

		logger.FromContext(r.Context()).Info(LogMsgStockAdjusted, "tenant_id", tenantID, "character", name, "item", itemName, "delta", *req.Delta, "quantity", item.Quantity)
		respondJSON(w, http.StatusOK, item)
	}
}
