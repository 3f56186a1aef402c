package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "smallcase/internal/errors"
	"smallcase/internal/models"
	"smallcase/internal/pagination"
	"smallcase/internal/services"
)

// --- mock instrument service ---

type mockInstrumentService struct {
	createFn       func(inputs []services.InstrumentInput) ([]models.Instrument, error)
	getBySymbolFn  func(symbol string) (*models.Instrument, error)
	listFn         func(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Instrument], error)
	recordPricesFn func(prices []services.PriceInput) (int, error)
	refreshFn      func(symbols []string) (*services.RefreshResult, error)
}

var _ services.InstrumentServicer = (*mockInstrumentService)(nil)

func (m *mockInstrumentService) CreateInstruments(inputs []services.InstrumentInput) ([]models.Instrument, error) {
	if m.createFn != nil {
		return m.createFn(inputs)
	}
	return nil, nil
}

func (m *mockInstrumentService) GetInstrumentBySymbol(symbol string) (*models.Instrument, error) {
	if m.getBySymbolFn != nil {
		return m.getBySymbolFn(symbol)
	}
	return &models.Instrument{}, nil
}

func (m *mockInstrumentService) GetInstrumentsBySymbols([]string) ([]models.Instrument, error) {
	return nil, nil
}

func (m *mockInstrumentService) ListInstruments(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Instrument], error) {
	if m.listFn != nil {
		return m.listFn(search, page)
	}
	resp := pagination.NewPageResponse([]models.Instrument{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockInstrumentService) RecordPrices(prices []services.PriceInput) (int, error) {
	if m.recordPricesFn != nil {
		return m.recordPricesFn(prices)
	}
	return 0, nil
}

func (m *mockInstrumentService) RefreshPrices(_ context.Context, symbols []string) (*services.RefreshResult, error) {
	if m.refreshFn != nil {
		return m.refreshFn(symbols)
	}
	return &services.RefreshResult{}, nil
}

// --- router setup ---

func setupInstrumentRouter(handler *InstrumentHandler) *gin.Engine {
	r := gin.New()
	// Pipeline routes (no auth needed for handler tests)
	r.POST("/pipeline/instruments", handler.CreateInstruments)
	r.POST("/pipeline/instruments/prices", handler.RecordPrices)
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/instruments", handler.ListInstruments)
	auth.GET("/instruments/:symbol", handler.GetInstrument)
	auth.POST("/instruments/refresh", handler.RefreshPrices)
	return r
}

// --- tests ---

func TestInstrumentHandler_CreateInstruments(t *testing.T) {
	t.Run("returns_201_on_success", func(t *testing.T) {
		svc := &mockInstrumentService{
			createFn: func(inputs []services.InstrumentInput) ([]models.Instrument, error) {
				out := make([]models.Instrument, len(inputs))
				for i, in := range inputs {
					out[i] = models.Instrument{Base: models.Base{ID: "id-" + in.Symbol}, Symbol: in.Symbol, Name: in.Name}
				}
				return out, nil
			},
		}
		r := setupInstrumentRouter(NewInstrumentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/pipeline/instruments",
			`{"instruments":[{"symbol":"RELIANCE.NS","name":"Reliance"},{"symbol":"M&M.NS","name":"Mahindra"}]}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		list := parseJSON(t, rec)["instruments"].([]interface{})
		if len(list) != 2 || list[1].(map[string]interface{})["symbol"] != "M&M.NS" {
			t.Errorf("unexpected instruments %v", list)
		}
	})

	t.Run("returns_400_on_invalid_symbol", func(t *testing.T) {
		r := setupInstrumentRouter(NewInstrumentHandler(&mockInstrumentService{}, &mockAuditService{}))

		for _, body := range []string{
			`{"instruments":[]}`,
			`{"instruments":[{"symbol":"bad symbol","name":"x"}]}`,
			`{"instruments":[{"symbol":"OK"}]}`,
		} {
			rec := doRequest(r, "POST", "/pipeline/instruments", body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", body, rec.Code)
			}
		}
	})
}

func TestInstrumentHandler_RecordPrices(t *testing.T) {
	t.Run("returns_200_with_count", func(t *testing.T) {
		var got []services.PriceInput
		svc := &mockInstrumentService{
			recordPricesFn: func(prices []services.PriceInput) (int, error) {
				got = prices
				return len(prices), nil
			},
		}
		r := setupInstrumentRouter(NewInstrumentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/pipeline/instruments/prices",
			`{"prices":[{"symbol":"TCS.NS","price":"3456.70","recorded_at":"2024-06-03T10:00:00Z"},{"symbol":"INFY.NS","price":1520}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["prices_recorded"] != float64(2) {
			t.Error("expected prices_recorded=2")
		}
		if !got[0].Price.Equal(decimal.RequireFromString("3456.7")) || got[0].RecordedAt.IsZero() {
			t.Errorf("unexpected first price %+v", got[0])
		}
		if !got[1].RecordedAt.IsZero() {
			t.Errorf("missing recorded_at must stay zero, got %v", got[1].RecordedAt)
		}
	})

	t.Run("returns_400_on_non_positive_price", func(t *testing.T) {
		r := setupInstrumentRouter(NewInstrumentHandler(&mockInstrumentService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/pipeline/instruments/prices", `{"prices":[{"symbol":"TCS.NS","price":0}]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestInstrumentHandler_ListAndGet(t *testing.T) {
	var gotSearch string
	svc := &mockInstrumentService{
		listFn: func(search string, page pagination.PageRequest) (*pagination.PageResponse[models.Instrument], error) {
			gotSearch = search
			resp := pagination.NewPageResponse([]models.Instrument{{Symbol: "TCS.NS"}}, 1, 20, 1)
			return &resp, nil
		},
		getBySymbolFn: func(symbol string) (*models.Instrument, error) {
			if symbol == "TCS.NS" {
				return &models.Instrument{
					Symbol:       symbol,
					CurrentPrice: decimal.NewNullDecimal(decimal.RequireFromString("3456.7")),
				}, nil
			}
			return nil, apperrors.ErrInstrumentNotFound
		},
	}
	r := setupInstrumentRouter(NewInstrumentHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/instruments?search=tcs", "")
	if rec.Code != http.StatusOK || gotSearch != "tcs" {
		t.Fatalf("expected 200 with search=tcs, got %d %q", rec.Code, gotSearch)
	}

	rec = doRequest(r, "GET", "/instruments/TCS.NS", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	inst := parseJSON(t, rec)["instrument"].(map[string]interface{})
	if inst["current_price"] != "3456.7" {
		t.Errorf("expected price string, got %v", inst["current_price"])
	}

	rec = doRequest(r, "GET", "/instruments/NOPE", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "INSTRUMENT_NOT_FOUND")
}

func TestInstrumentHandler_RefreshPrices(t *testing.T) {
	t.Run("all_instruments_without_body", func(t *testing.T) {
		var gotSymbols []string
		svc := &mockInstrumentService{
			refreshFn: func(symbols []string) (*services.RefreshResult, error) {
				gotSymbols = symbols
				return &services.RefreshResult{Source: "yahoo", Requested: 3, Updated: 3}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupInstrumentRouter(NewInstrumentHandler(svc, audit))

		rec := doRequest(r, "POST", "/instruments/refresh", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSymbols != nil {
			t.Errorf("expected no symbols, got %v", gotSymbols)
		}
		if parseJSON(t, rec)["updated"] != float64(3) {
			t.Error("expected updated=3")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "REFRESH_PRICES" || audit.entries[0].userID != testUserID {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("selected_symbols", func(t *testing.T) {
		var gotSymbols []string
		svc := &mockInstrumentService{
			refreshFn: func(symbols []string) (*services.RefreshResult, error) {
				gotSymbols = symbols
				return &services.RefreshResult{Source: "yahoo", Requested: len(symbols)}, nil
			},
		}
		r := setupInstrumentRouter(NewInstrumentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/instruments/refresh", `{"symbols":["TCS.NS"]}`)
		if rec.Code != http.StatusOK || len(gotSymbols) != 1 {
			t.Fatalf("expected refresh of TCS.NS, got %d %v", rec.Code, gotSymbols)
		}
	})

	t.Run("returns_502_when_unavailable", func(t *testing.T) {
		svc := &mockInstrumentService{
			refreshFn: func([]string) (*services.RefreshResult, error) {
				return nil, apperrors.ErrPriceUnavailable
			},
		}
		r := setupInstrumentRouter(NewInstrumentHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/instruments/refresh", "")
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PRICE_UNAVAILABLE")
	})
}
