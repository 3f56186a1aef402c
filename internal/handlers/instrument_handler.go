package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "smallcase/internal/errors"
	"smallcase/internal/models"
	"smallcase/internal/pagination"
	"smallcase/internal/services"
)

// InstrumentHandler handles instrument and price requests.
type InstrumentHandler struct {
	instrumentService services.InstrumentServicer
	auditService      services.AuditServicer
}

// NewInstrumentHandler creates a new InstrumentHandler.
func NewInstrumentHandler(instrumentService services.InstrumentServicer, auditService services.AuditServicer) *InstrumentHandler {
	return &InstrumentHandler{instrumentService: instrumentService, auditService: auditService}
}

// CreateInstrumentsRequest represents the request payload for registering instruments.
type CreateInstrumentsRequest struct {
	Instruments []CreateInstrumentEntry `json:"instruments" binding:"required,min=1,max=500,dive"`
}

// CreateInstrumentEntry represents a single instrument in a bulk request.
type CreateInstrumentEntry struct {
	Symbol string `json:"symbol" binding:"required,symbol" example:"RELIANCE.NS"`
	Name   string `json:"name" binding:"required,min=1,max=200" example:"Reliance Industries"`
}

// RecordPricesRequest represents the request payload for bulk price recording.
type RecordPricesRequest struct {
	Prices []RecordPriceEntry `json:"prices" binding:"required,min=1,dive"`
}

// RecordPriceEntry represents a single price entry in a bulk request.
type RecordPriceEntry struct {
	Symbol     string      `json:"symbol" binding:"required,symbol"`
	Price      json.Number `json:"price" binding:"required,decimal_positive" swaggertype:"string" example:"2456.75"`
	RecordedAt *time.Time  `json:"recorded_at,omitempty"`
}

// RefreshPricesRequest lists the symbols to refresh. Empty refreshes all.
type RefreshPricesRequest struct {
	Symbols []string `json:"symbols" binding:"max=500"`
}

// CreateInstruments handles registering instruments.
// @Summary     Create instruments
// @Description Register instruments, renaming any symbol that already exists (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateInstrumentsRequest true "Instruments"
// @Success     201 {object} map[string][]models.Instrument "Instruments stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/instruments [post]
func (h *InstrumentHandler) CreateInstruments(c *gin.Context) {
	var req CreateInstrumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.InstrumentInput, len(req.Instruments))
	for i, in := range req.Instruments {
		inputs[i] = services.InstrumentInput{Symbol: in.Symbol, Name: in.Name}
	}

	instruments, err := h.instrumentService.CreateInstruments(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"instruments": instruments})
}

// RecordPrices handles bulk price recording.
// @Summary     Record prices
// @Description Store prices for instruments. Older prices and unknown symbols are ignored (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body RecordPricesRequest true "Price entries"
// @Success     200 {object} map[string]int "Prices recorded count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/instruments/prices [post]
func (h *InstrumentHandler) RecordPrices(c *gin.Context) {
	var req RecordPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	inputs := make([]services.PriceInput, len(req.Prices))
	for i, p := range req.Prices {
		price, err := parseDecimal("price", p.Price.String())
		if err != nil {
			respondWithError(c, err)
			return
		}
		inputs[i] = services.PriceInput{Symbol: p.Symbol, Price: price}
		if p.RecordedAt != nil {
			inputs[i].RecordedAt = *p.RecordedAt
		}
	}

	count, err := h.instrumentService.RecordPrices(inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices_recorded": count})
}

// ListInstruments handles listing instruments.
// @Summary     List instruments
// @Description Get a paginated list of instruments, optionally filtered by search term
// @Tags        instruments
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Search by symbol or name (case-insensitive)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Instrument] "Paginated instruments"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /instruments [get]
func (h *InstrumentHandler) ListInstruments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.instrumentService.ListInstruments(c.Query("search"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInstrument handles retrieving one instrument by symbol.
// @Summary     Get instrument
// @Description Get an instrument and its latest stored price
// @Tags        instruments
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Symbol"
// @Success     200 {object} map[string]models.Instrument "Instrument details"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Instrument not found"
// @Router      /instruments/{symbol} [get]
func (h *InstrumentHandler) GetInstrument(c *gin.Context) {
	instrument, err := h.instrumentService.GetInstrumentBySymbol(c.Param("symbol"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"instrument": instrument})
}

// RefreshPrices handles an on-demand price refresh.
// @Summary     Refresh prices
// @Description Fetch current prices from the price source for the given symbols, or for every instrument when none are given
// @Tags        instruments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RefreshPricesRequest false "Symbols"
// @Success     200 {object} services.RefreshResult "Refresh summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Prices unavailable"
// @Router      /instruments/refresh [post]
func (h *InstrumentHandler) RefreshPrices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RefreshPricesRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.instrumentService.RefreshPrices(c.Request.Context(), req.Symbols)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(newAuditEntry(c, userID, models.AuditActionRefreshPrices, models.AuditResourceInstrument, "",
		map[string]interface{}{
			"source":    result.Source,
			"requested": result.Requested,
			"updated":   result.Updated,
			"failed":    result.Failed,
		}))

	c.JSON(http.StatusOK, result)
}
