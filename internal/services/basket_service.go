package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smallcase/internal/allocation"
	apperrors "smallcase/internal/errors"
	"smallcase/internal/logger"
	"smallcase/internal/models"
	"smallcase/internal/pagination"
	"smallcase/internal/valuation"
)

// BasketConfig holds the basket service settings.
type BasketConfig struct {
	// DefaultCurrency is used when a basket is created without one.
	DefaultCurrency string
	// PriceStaleAfter is how old a price may get before viewing a basket
	// refreshes it. Zero disables refresh on view.
	PriceStaleAfter time.Duration
}

// basketService handles basket creation, valuation and rebalancing.
type basketService struct {
	db          *gorm.DB
	instruments InstrumentServicer
	cfg         BasketConfig
	now         func() time.Time
}

// NewBasketService creates a new BasketServicer. instruments may be nil, in
// which case stale prices are never refreshed.
func NewBasketService(db *gorm.DB, instruments InstrumentServicer, cfg BasketConfig) BasketServicer {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "INR"
	}
	return &basketService{db: db, instruments: instruments, cfg: cfg, now: time.Now}
}

// PreviewBasket computes the allocation a new basket would get.
func (s *basketService) PreviewBasket(symbols []string, amount decimal.Decimal, currency string) (*AllocationPreview, error) {
	instruments, alloc, err := s.allocate(symbols, amount)
	if err != nil {
		return nil, err
	}

	preview := &AllocationPreview{
		Currency:         s.currency(currency),
		RequestedAmount:  amount,
		InvestmentAmount: alloc.InvestmentAmount,
		Uninvested:       amount.Sub(alloc.InvestmentAmount),
		Items:            make([]PreviewItem, 0, len(alloc.Items)),
		SkippedSymbols:   alloc.Skipped,
	}
	for _, it := range alloc.Items {
		preview.Items = append(preview.Items, PreviewItem{
			Symbol:          it.Symbol,
			Name:            instruments[it.Symbol].Name,
			Price:           it.PurchasePrice,
			Quantity:        it.Quantity,
			AllocatedAmount: it.AllocatedAmount,
			WeightPercent:   it.WeightPercent,
		})
	}
	return preview, nil
}

// CreateBasket allocates the investment equally across the symbols at their
// stored prices and saves the basket. Unpriced instruments are left out and
// reported in SkippedSymbols.
func (s *basketService) CreateBasket(userID string, input CreateBasketInput) (*BasketView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	instruments, alloc, err := s.allocate(input.Symbols, input.InvestmentAmount)
	if err != nil {
		return nil, err
	}
	if err := checkAllocation(alloc.Basket); err != nil {
		return nil, err
	}

	basket := &models.Basket{
		UserID:           userID,
		Name:             name,
		Description:      strings.TrimSpace(input.Description),
		Currency:         s.currency(input.Currency),
		InvestmentAmount: alloc.InvestmentAmount,
		Version:          1,
	}
	purchaseDate := s.now().UTC()
	for _, it := range alloc.Items {
		basket.Items = append(basket.Items, models.BasketItem{
			InstrumentID:    instruments[it.Symbol].ID,
			WeightPercent:   it.WeightPercent,
			Quantity:        it.Quantity,
			AllocatedAmount: it.AllocatedAmount,
			PurchasePrice:   it.PurchasePrice,
			PurchaseDate:    purchaseDate,
		})
	}

	if err := s.db.Create(basket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range basket.Items {
		basket.Items[i].Instrument = *instruments[alloc.Items[i].Symbol]
	}
	sortItems(basket.Items)

	if len(alloc.Skipped) > 0 {
		logger.Get().Infow("skipped unpriced instruments",
			"basket_id", basket.ID,
			"symbols", alloc.Skipped,
		)
	}

	view := newBasketView(basket)
	view.SkippedSymbols = alloc.Skipped
	return view, nil
}

// GetBasket returns a basket valued at current prices. Prices older than
// PriceStaleAfter are refreshed first; a failed refresh falls back to the
// stored prices.
func (s *basketService) GetBasket(ctx context.Context, userID, basketID string) (*BasketView, error) {
	basket, err := s.loadBasket(s.db, userID, basketID, false)
	if err != nil {
		return nil, err
	}

	if s.refreshStale(ctx, basket) {
		if basket, err = s.loadBasket(s.db, userID, basketID, false); err != nil {
			return nil, err
		}
	}

	return newBasketView(basket), nil
}

// ListBaskets returns the user's baskets, newest first.
func (s *basketService) ListBaskets(userID string, page pagination.PageRequest) (*pagination.PageResponse[BasketView], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Basket{}).Scopes(models.OwnedBy(userID)).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var baskets []models.Basket
	if err := s.db.Scopes(models.OwnedBy(userID)).
		Preload("Items.Instrument").
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&baskets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]BasketView, 0, len(baskets))
	for i := range baskets {
		sortItems(baskets[i].Items)
		views = append(views, *newBasketView(&baskets[i]))
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateItemWeight pins one item to weight and redistributes the remainder
// over the other items in proportion to their current weights.
func (s *basketService) UpdateItemWeight(userID, basketID, itemID string, weight decimal.Decimal) (*BasketView, error) {
	basket, err := s.rebalance(userID, basketID, func(b allocation.Basket) (allocation.Basket, error) {
		return allocation.RebalanceByWeight(b, itemID, weight)
	})
	if err != nil {
		return nil, err
	}
	return newBasketView(basket), nil
}

// UpdateItemQuantity sets one item's quantity; the other quantities are kept
// and all weights are recomputed against the new total.
func (s *basketService) UpdateItemQuantity(userID, basketID, itemID string, quantity int64) (*BasketView, error) {
	basket, err := s.rebalance(userID, basketID, func(b allocation.Basket) (allocation.Basket, error) {
		return allocation.RebalanceByQuantity(b, itemID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return newBasketView(basket), nil
}

// UpdateInvestmentAmount rescales the basket to amount, keeping weights.
func (s *basketService) UpdateInvestmentAmount(userID, basketID string, amount decimal.Decimal) (*BasketView, error) {
	basket, err := s.rebalance(userID, basketID, func(b allocation.Basket) (allocation.Basket, error) {
		return allocation.RebalanceByInvestment(b, amount)
	})
	if err != nil {
		return nil, err
	}
	return newBasketView(basket), nil
}

// RemoveItem deletes one item. The others keep their quantities and the
// investment amount shrinks by the removed item's amount.
func (s *basketService) RemoveItem(userID, basketID, itemID string) (*RemovalResult, error) {
	var removed allocation.Item
	var removedItem models.BasketItem

	basket, err := s.rebalance(userID, basketID, func(b allocation.Basket) (allocation.Basket, error) {
		out, item, err := allocation.RemoveItem(b, itemID)
		removed = item
		return out, err
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Unscoped().Preload("Instrument").Where("id = ?", removed.ID).First(&removedItem).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &RemovalResult{
		Basket:  newBasketView(basket),
		Removed: newItemView(removedItem, toPosition(removedItem)),
		Message: fmt.Sprintf("%s removed from basket. Investment amount reduced by %s",
			removedItem.Instrument.Symbol, formatMoney(removed.AllocatedAmount, basket.Currency)),
	}, nil
}

// DuplicateBasket creates "<name> (Copy)" with the same instruments and
// investment amount, allocated afresh at current prices.
func (s *basketService) DuplicateBasket(userID, basketID string) (*BasketView, error) {
	basket, err := s.loadBasket(s.db, userID, basketID, false)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(basket.Items))
	for _, item := range basket.Items {
		symbols = append(symbols, item.Instrument.Symbol)
	}

	return s.CreateBasket(userID, CreateBasketInput{
		Name:             basket.Name + " (Copy)",
		Description:      basket.Description,
		Currency:         basket.Currency,
		InvestmentAmount: basket.InvestmentAmount,
		Symbols:          symbols,
	})
}

// DeleteBasket soft-deletes a basket and its items.
func (s *basketService) DeleteBasket(userID, basketID string) error {
	return asAppError(s.db.Transaction(func(tx *gorm.DB) error {
		basket, err := s.loadBasket(tx, userID, basketID, true)
		if err != nil {
			return err
		}
		if err := tx.Where("basket_id = ?", basket.ID).Delete(&models.BasketItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Basket{}, "id = ?", basket.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}))
}

// rebalance runs op on the basket inside one transaction. The basket row is
// locked for the duration and the write only succeeds if the version read is
// still current, so concurrent edits to the same basket are serialized.
func (s *basketService) rebalance(userID, basketID string, op func(allocation.Basket) (allocation.Basket, error)) (*models.Basket, error) {
	var result *models.Basket

	err := s.db.Transaction(func(tx *gorm.DB) error {
		basket, err := s.loadBasket(tx, userID, basketID, true)
		if err != nil {
			return err
		}

		after, err := op(toEngineBasket(basket))
		if err != nil {
			return engineError(err)
		}
		if err := checkAllocation(after); err != nil {
			return err
		}

		if err := s.persist(tx, basket, after); err != nil {
			return err
		}
		result = basket
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return result, nil
}

// persist writes the engine result back and bumps the basket version.
// Items missing from after are deleted.
func (s *basketService) persist(tx *gorm.DB, basket *models.Basket, after allocation.Basket) error {
	next := make(map[string]allocation.Item, len(after.Items))
	for _, it := range after.Items {
		next[it.ID] = it
	}

	items := make([]models.BasketItem, 0, len(after.Items))
	for _, item := range basket.Items {
		it, ok := next[item.ID]
		if !ok {
			if err := tx.Delete(&models.BasketItem{}, "id = ?", item.ID).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			continue
		}

		if it.Quantity != item.Quantity ||
			!it.WeightPercent.Equal(item.WeightPercent) ||
			!it.AllocatedAmount.Equal(item.AllocatedAmount) {
			if err := tx.Model(&models.BasketItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
				"weight_percent":   it.WeightPercent,
				"quantity":         it.Quantity,
				"allocated_amount": it.AllocatedAmount,
			}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			item.WeightPercent = it.WeightPercent
			item.Quantity = it.Quantity
			item.AllocatedAmount = it.AllocatedAmount
		}
		items = append(items, item)
	}

	res := tx.Model(&models.Basket{}).
		Where("id = ? AND version = ?", basket.ID, basket.Version).
		Updates(map[string]interface{}{
			"investment_amount": after.InvestmentAmount,
			"version":           basket.Version + 1,
		})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrentModification
	}

	basket.Items = items
	basket.InvestmentAmount = after.InvestmentAmount
	basket.Version++
	basket.UpdatedAt = s.now()
	return nil
}

// loadBasket loads a user's basket with its items and their instruments.
func (s *basketService) loadBasket(db *gorm.DB, userID, basketID string, forUpdate bool) (*models.Basket, error) {
	q := db
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var basket models.Basket
	if err := q.Scopes(models.OwnedBy(userID)).Where("id = ?", basketID).First(&basket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBasketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := db.Preload("Instrument").Where("basket_id = ?", basket.ID).Find(&basket.Items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sortItems(basket.Items)
	return &basket, nil
}

// allocate resolves symbols to instruments and runs the initial allocation.
func (s *basketService) allocate(symbols []string, amount decimal.Decimal) (map[string]*models.Instrument, *allocation.Allocation, error) {
	if len(symbols) < allocation.MinInstruments {
		return nil, nil, apperrors.ErrInsufficientInstruments
	}

	normalized := make([]string, len(symbols))
	for i, sym := range symbols {
		normalized[i] = normalizeSymbol(sym)
	}

	found, err := findInstruments(s.db, normalized)
	if err != nil {
		return nil, nil, err
	}
	bySymbol := make(map[string]*models.Instrument, len(found))
	for i := range found {
		bySymbol[found[i].Symbol] = &found[i]
	}

	quotes := make([]allocation.Quote, len(normalized))
	for i, sym := range normalized {
		inst, ok := bySymbol[sym]
		if !ok {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInstrumentNotFound, fmt.Sprintf("Instrument %s not found", sym))
		}
		quotes[i] = allocation.Quote{Symbol: sym, Price: inst.CurrentPrice}
	}

	alloc, err := allocation.Allocate(quotes, amount)
	if err != nil {
		return nil, nil, engineError(err)
	}
	return bySymbol, alloc, nil
}

// refreshStale refreshes the prices of the basket's stale instruments and
// reports whether any price changed.
func (s *basketService) refreshStale(ctx context.Context, basket *models.Basket) bool {
	if s.instruments == nil || s.cfg.PriceStaleAfter <= 0 {
		return false
	}

	now := s.now()
	var stale []string
	for _, item := range basket.Items {
		if item.Instrument.IsStale(now, s.cfg.PriceStaleAfter) {
			stale = append(stale, item.Instrument.Symbol)
		}
	}
	if len(stale) == 0 {
		return false
	}

	result, err := s.instruments.RefreshPrices(ctx, stale)
	if err != nil {
		logger.Get().Warnw("stale price refresh failed, using stored prices",
			"basket_id", basket.ID,
			"symbols", stale,
			"error", err,
		)
	}
	return result != nil && result.Updated > 0
}

func (s *basketService) currency(code string) string {
	if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
		return code
	}
	return s.cfg.DefaultCurrency
}

// checkAllocation verifies b before it is written. A failure is a bug in the
// engine, never a client error.
func checkAllocation(b allocation.Basket) error {
	if err := allocation.Verify(b); err != nil {
		logger.Get().Errorw("allocation failed verification", "error", err)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// engineError maps allocation errors to application errors.
func engineError(err error) error {
	switch {
	case errors.Is(err, allocation.ErrInsufficientInstruments):
		return apperrors.Wrap(apperrors.ErrInsufficientInstruments, err)
	case errors.Is(err, allocation.ErrInvalidAmount):
		return apperrors.Wrap(apperrors.ErrInvalidAmount, err)
	case errors.Is(err, allocation.ErrInvalidWeight):
		return apperrors.Wrap(apperrors.ErrInvalidWeight, err)
	case errors.Is(err, allocation.ErrInvalidQuantity):
		return apperrors.Wrap(apperrors.ErrInvalidQuantity, err)
	case errors.Is(err, allocation.ErrItemNotFound):
		return apperrors.Wrap(apperrors.ErrBasketItemNotFound, err)
	case errors.Is(err, allocation.ErrDuplicateInstrument):
		return apperrors.Wrap(apperrors.ErrDuplicateInstrument, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// asAppError wraps errors that are not already application errors.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func toPosition(item models.BasketItem) valuation.Position {
	return valuation.Position{
		Quantity:        item.Quantity,
		AllocatedAmount: item.AllocatedAmount,
		CurrentPrice:    item.Instrument.CurrentPrice,
	}
}
