package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "smallcase/internal/errors"
	"smallcase/internal/models"
	"smallcase/internal/pagination"
	"smallcase/internal/services"
)

// BasketHandler handles basket-related requests.
type BasketHandler struct {
	basketService services.BasketServicer
	auditService  services.AuditServicer
}

// NewBasketHandler creates a new BasketHandler.
func NewBasketHandler(basketService services.BasketServicer, auditService services.AuditServicer) *BasketHandler {
	return &BasketHandler{basketService: basketService, auditService: auditService}
}

// CreateBasketRequest represents the request payload for creating a basket.
type CreateBasketRequest struct {
	Name             string      `json:"name" binding:"required,min=1,max=100"`
	Description      string      `json:"description" binding:"max=500"`
	Currency         string      `json:"currency" binding:"omitempty,iso4217"`
	InvestmentAmount json.Number `json:"investment_amount" binding:"required,decimal" swaggertype:"string" example:"10000"`
	Symbols          []string    `json:"symbols" binding:"required,max=50,dive,required"`
}

// PreviewBasketRequest represents the request payload for an allocation preview.
type PreviewBasketRequest struct {
	Currency         string      `json:"currency" binding:"omitempty,iso4217"`
	InvestmentAmount json.Number `json:"investment_amount" binding:"required,decimal" swaggertype:"string" example:"10000"`
	Symbols          []string    `json:"symbols" binding:"required,max=50,dive,required"`
}

// UpdateItemRequest represents a weight or quantity edit of one basket item.
type UpdateItemRequest struct {
	UpdateType string      `json:"update_type" binding:"required,update_type" enums:"weight,quantity"`
	Weight     json.Number `json:"weight" binding:"omitempty,decimal" swaggertype:"string" example:"25.5"`
	Quantity   *int64      `json:"quantity"`
}

// UpdateInvestmentRequest represents the request payload for changing a basket's investment amount.
type UpdateInvestmentRequest struct {
	InvestmentAmount json.Number `json:"investment_amount" binding:"required,decimal" swaggertype:"string" example:"25000"`
}

// PreviewBasket handles computing an allocation without saving it.
// @Summary     Preview allocation
// @Description Compute the equal-weight whole-share allocation a new basket would get at stored prices
// @Tags        baskets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PreviewBasketRequest true "Symbols and amount"
// @Success     200 {object} services.AllocationPreview "Allocation preview"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Instrument not found"
// @Router      /baskets/preview [post]
func (h *BasketHandler) PreviewBasket(c *gin.Context) {
	var req PreviewBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseDecimal("investment_amount", req.InvestmentAmount.String())
	if err != nil {
		respondWithError(c, err)
		return
	}

	preview, err := h.basketService.PreviewBasket(req.Symbols, amount, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// CreateBasket handles creating a new basket.
// @Summary     Create basket
// @Description Create a basket that splits the investment equally across the instruments in whole shares. Instruments without a price are skipped.
// @Tags        baskets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBasketRequest true "Basket details"
// @Success     201 {object} map[string]services.BasketView "Basket created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Instrument not found"
// @Failure     409 {object} ErrorResponse "Duplicate instrument"
// @Router      /baskets [post]
func (h *BasketHandler) CreateBasket(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseDecimal("investment_amount", req.InvestmentAmount.String())
	if err != nil {
		respondWithError(c, err)
		return
	}

	basket, err := h.basketService.CreateBasket(userID, services.CreateBasketInput{
		Name:             req.Name,
		Description:      req.Description,
		Currency:         req.Currency,
		InvestmentAmount: amount,
		Symbols:          req.Symbols,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(newAuditEntry(c, userID, models.AuditActionCreateBasket, models.AuditResourceBasket, basket.ID,
		map[string]interface{}{
			"name":              basket.Name,
			"investment_amount": basket.InvestmentAmount.String(),
			"skipped_symbols":   basket.SkippedSymbols,
		}))

	c.JSON(http.StatusCreated, gin.H{"basket": basket})
}

// ListBaskets handles listing the user's baskets.
// @Summary     List baskets
// @Description Get a paginated list of the user's baskets, valued at stored prices
// @Tags        baskets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.BasketView] "Paginated baskets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /baskets [get]
func (h *BasketHandler) ListBaskets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.basketService.ListBaskets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBasket handles retrieving a basket with its valuation.
// @Summary     Get basket
// @Description Get a basket valued at current prices. Stale prices are refreshed first.
// @Tags        baskets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Basket ID"
// @Success     200 {object} map[string]services.BasketView "Basket details"
// @Failure     400 {object} ErrorResponse "Invalid basket ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Basket not found"
// @Router      /baskets/{id} [get]
func (h *BasketHandler) GetBasket(c *gin.Context) {
	userID, basketID, ok := h.basketParams(c)
	if !ok {
		return
	}

	basket, err := h.basketService.GetBasket(c.Request.Context(), userID, basketID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"basket": basket})
}

// UpdateItem handles a weight or quantity edit of one item.
// @Summary     Update basket item
// @Description With update_type "weight" the item is pinned to the weight and the remainder is spread over the other items by their current weights. With update_type "quantity" the item's quantity is set and all weights are recomputed.
// @Tags        baskets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Basket ID"
// @Param       itemId  path string            true "Basket item ID"
// @Param       request body UpdateItemRequest true "Edit"
// @Success     200 {object} map[string]services.BasketView "Rebalanced basket"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Basket or item not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Router      /baskets/{id}/items/{itemId} [patch]
func (h *BasketHandler) UpdateItem(c *gin.Context) {
	userID, basketID, ok := h.basketParams(c)
	if !ok {
		return
	}
	itemID, err := parseUUIDParam(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var basket *services.BasketView
	var action string
	var changes map[string]interface{}
	switch req.UpdateType {
	case "weight":
		if req.Weight == "" {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "weight is required"))
			return
		}
		weight, perr := parseDecimal("weight", req.Weight.String())
		if perr != nil {
			respondWithError(c, perr)
			return
		}
		basket, err = h.basketService.UpdateItemWeight(userID, basketID, itemID, weight)
		action = models.AuditActionUpdateWeight
		changes = map[string]interface{}{"item_id": itemID, "weight": weight.String()}
	default:
		if req.Quantity == nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity is required"))
			return
		}
		basket, err = h.basketService.UpdateItemQuantity(userID, basketID, itemID, *req.Quantity)
		action = models.AuditActionUpdateQuantity
		changes = map[string]interface{}{"item_id": itemID, "quantity": *req.Quantity}
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes["investment_amount"] = basket.InvestmentAmount.String()
	h.auditService.Log(newAuditEntry(c, userID, action, models.AuditResourceBasket, basketID, changes))

	c.JSON(http.StatusOK, gin.H{"basket": basket})
}

// UpdateInvestment handles changing a basket's investment amount.
// @Summary     Update investment amount
// @Description Rescale the basket to a new investment amount keeping item weights. The stored amount becomes the whole-share total.
// @Tags        baskets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Basket ID"
// @Param       request body UpdateInvestmentRequest true "New amount"
// @Success     200 {object} map[string]services.BasketView "Rebalanced basket"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Basket not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Router      /baskets/{id}/investment [put]
func (h *BasketHandler) UpdateInvestment(c *gin.Context) {
	userID, basketID, ok := h.basketParams(c)
	if !ok {
		return
	}

	var req UpdateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseDecimal("investment_amount", req.InvestmentAmount.String())
	if err != nil {
		respondWithError(c, err)
		return
	}

	basket, err := h.basketService.UpdateInvestmentAmount(userID, basketID, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(newAuditEntry(c, userID, models.AuditActionUpdateInvestment, models.AuditResourceBasket, basketID,
		map[string]interface{}{
			"requested_amount":  amount.String(),
			"investment_amount": basket.InvestmentAmount.String(),
		}))

	c.JSON(http.StatusOK, gin.H{"basket": basket})
}

// RemoveItem handles removing an instrument from a basket.
// @Summary     Remove basket item
// @Description Remove an item. The other items keep their quantities and the investment amount shrinks by the removed amount.
// @Tags        baskets
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Basket ID"
// @Param       itemId path string true "Basket item ID"
// @Success     200 {object} services.RemovalResult "Item removed"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Basket or item not found"
// @Failure     409 {object} ErrorResponse "Concurrent modification"
// @Router      /baskets/{id}/items/{itemId} [delete]
func (h *BasketHandler) RemoveItem(c *gin.Context) {
	userID, basketID, ok := h.basketParams(c)
	if !ok {
		return
	}
	itemID, err := parseUUIDParam(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.basketService.RemoveItem(userID, basketID, itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(newAuditEntry(c, userID, models.AuditActionRemoveItem, models.AuditResourceBasket, basketID,
		map[string]interface{}{
			"item_id":          itemID,
			"symbol":           result.Removed.Symbol,
			"allocated_amount": result.Removed.AllocatedAmount.String(),
		}))

	c.JSON(http.StatusOK, result)
}

// DuplicateBasket handles copying a basket.
// @Summary     Duplicate basket
// @Description Create "<name> (Copy)" with the same instruments and investment amount, allocated at current prices
// @Tags        baskets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Basket ID"
// @Success     201 {object} map[string]services.BasketView "Basket created"
// @Failure     400 {object} ErrorResponse "Invalid basket ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Basket not found"
// @Router      /baskets/{id}/duplicate [post]
func (h *BasketHandler) DuplicateBasket(c *gin.Context) {
	userID, basketID, ok := h.basketParams(c)
	if !ok {
		return
	}

	basket, err := h.basketService.DuplicateBasket(userID, basketID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(newAuditEntry(c, userID, models.AuditActionDuplicateBasket, models.AuditResourceBasket, basket.ID,
		map[string]interface{}{"source_id": basketID}))

	c.JSON(http.StatusCreated, gin.H{"basket": basket})
}

// DeleteBasket handles deleting a basket.
// @Summary     Delete basket
// @Description Delete a basket and its items
// @Tags        baskets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Basket ID"
// @Success     200 {object} map[string]string "Basket deleted"
// @Failure     400 {object} ErrorResponse "Invalid basket ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Basket not found"
// @Router      /baskets/{id} [delete]
func (h *BasketHandler) DeleteBasket(c *gin.Context) {
	userID, basketID, ok := h.basketParams(c)
	if !ok {
		return
	}

	if err := h.basketService.DeleteBasket(userID, basketID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(newAuditEntry(c, userID, models.AuditActionDeleteBasket, models.AuditResourceBasket, basketID, nil))

	c.JSON(http.StatusOK, gin.H{"message": "Basket deleted successfully"})
}

// basketParams reads the user and basket id, writing the error response if
// either is missing.
func (h *BasketHandler) basketParams(c *gin.Context) (string, string, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	basketID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	return userID, basketID, true
}
