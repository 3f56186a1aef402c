package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "smallcase/internal/errors"
	"smallcase/internal/logger"
	"smallcase/internal/models"
	"smallcase/internal/pagination"
	"smallcase/internal/pricing"
)

// instrumentService handles instruments and their prices.
type instrumentService struct {
	db     *gorm.DB
	source pricing.Source
	now    func() time.Time
}

// NewInstrumentService creates a new InstrumentServicer. source may be nil,
// in which case prices only arrive through RecordPrices.
func NewInstrumentService(db *gorm.DB, source pricing.Source) InstrumentServicer {
	return &instrumentService{db: db, source: source, now: time.Now}
}

// CreateInstruments registers instruments, updating the name of any symbol
// that already exists.
func (s *instrumentService) CreateInstruments(inputs []InstrumentInput) ([]models.Instrument, error) {
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Instruments array is empty")
	}

	out := make([]models.Instrument, 0, len(inputs))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			symbol := normalizeSymbol(in.Symbol)
			name := strings.TrimSpace(in.Name)
			if symbol == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
			}
			if name == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Name is required for %s", symbol))
			}

			var inst models.Instrument
			if err := tx.Where(models.Instrument{Symbol: symbol}).
				Assign(models.Instrument{Name: name}).
				FirstOrCreate(&inst).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			out = append(out, inst)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}
	return out, nil
}

// GetInstrumentBySymbol returns an instrument by symbol.
func (s *instrumentService) GetInstrumentBySymbol(symbol string) (*models.Instrument, error) {
	var inst models.Instrument
	if err := s.db.Where("symbol = ?", normalizeSymbol(symbol)).First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInstrumentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &inst, nil
}

// GetInstrumentsBySymbols returns the instruments that exist for symbols,
// ordered by symbol. Unknown symbols are left out.
func (s *instrumentService) GetInstrumentsBySymbols(symbols []string) ([]models.Instrument, error) {
	normalized := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		normalized = append(normalized, normalizeSymbol(sym))
	}
	return findInstruments(s.db, normalized)
}

// ListInstruments returns a paginated list of instruments ordered by symbol,
// optionally filtered by a symbol or name substring.
func (s *instrumentService) ListInstruments(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Instrument], error) {
	page.Defaults()

	search = strings.TrimSpace(search)
	filter := func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		like := "%" + strings.ToLower(search) + "%"
		return db.Where("LOWER(symbol) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}

	var totalItems int64
	if err := s.db.Model(&models.Instrument{}).Scopes(filter).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var instruments []models.Instrument
	if err := s.db.Scopes(filter).Order("symbol ASC").Scopes(pagination.Paginate(page)).Find(&instruments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(instruments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// RecordPrices stores prices pushed by the pipeline and returns how many
// instruments changed. A price older than the stored one is ignored, as is
// a price for an unknown symbol.
func (s *instrumentService) RecordPrices(prices []PriceInput) (int, error) {
	if len(prices) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Prices array is empty")
	}
	for _, p := range prices {
		if !p.Price.IsPositive() {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("Price for %s must be positive", normalizeSymbol(p.Symbol)))
		}
	}

	count := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range prices {
			recordedAt := p.RecordedAt
			if recordedAt.IsZero() {
				recordedAt = s.now()
			}
			n, err := updatePrice(tx, normalizeSymbol(p.Symbol), p.Price, recordedAt.UTC())
			if err != nil {
				return err
			}
			count += n
		}
		return nil
	})
	if err != nil {
		return 0, asAppError(err)
	}
	return count, nil
}

// RefreshPrices fetches prices for symbols from the configured source. An
// empty symbols list refreshes every instrument. Symbols the source could
// not price are listed in Failed; if none could be priced the call fails.
func (s *instrumentService) RefreshPrices(ctx context.Context, symbols []string) (*RefreshResult, error) {
	if s.source == nil {
		return nil, apperrors.WithMessage(apperrors.ErrPriceUnavailable, "No price source configured")
	}

	if len(symbols) == 0 {
		if err := s.db.Model(&models.Instrument{}).Order("symbol ASC").Pluck("symbol", &symbols).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	} else {
		normalized := make([]string, len(symbols))
		for i, sym := range symbols {
			normalized[i] = normalizeSymbol(sym)
		}
		symbols = normalized
	}

	result := &RefreshResult{Source: s.source.Name(), Requested: len(symbols)}
	if len(symbols) == 0 {
		return result, nil
	}

	quotes, failures := s.source.FetchPrices(ctx, symbols)
	for _, f := range failures {
		result.Failed = append(result.Failed, f.Symbol)
		logger.Get().Warnw("price fetch failed",
			"source", result.Source,
			"symbol", f.Symbol,
			"error", f.Err,
		)
	}

	for _, q := range quotes {
		recordedAt := q.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = s.now()
		}
		n, err := updatePrice(s.db, q.Symbol, q.Price, recordedAt.UTC())
		if err != nil {
			return result, err
		}
		result.Updated += n
	}

	if len(quotes) == 0 {
		return result, apperrors.WithMessage(apperrors.ErrPriceUnavailable,
			fmt.Sprintf("No prices available from %s", result.Source))
	}

	logger.Get().Infow("prices refreshed",
		"source", result.Source,
		"requested", result.Requested,
		"updated", result.Updated,
		"failed", len(result.Failed),
	)
	return result, nil
}

// updatePrice sets an instrument's price unless the stored one is newer.
func updatePrice(db *gorm.DB, symbol string, price decimal.Decimal, recordedAt time.Time) (int, error) {
	res := db.Model(&models.Instrument{}).
		Where("symbol = ? AND (last_updated IS NULL OR last_updated <= ?)", symbol, recordedAt).
		Updates(map[string]interface{}{
			"current_price": price.Round(2),
			"last_updated":  recordedAt,
		})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return int(res.RowsAffected), nil
}

// findInstruments loads the instruments for already normalized symbols.
func findInstruments(db *gorm.DB, symbols []string) ([]models.Instrument, error) {
	var instruments []models.Instrument
	if len(symbols) == 0 {
		return instruments, nil
	}
	if err := db.Where("symbol IN ?", symbols).Order("symbol ASC").Find(&instruments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return instruments, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
