package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"smallcase/internal/models"
	"smallcase/internal/pagination"
	"smallcase/internal/testutil"
)

func TestCreateInstruments(t *testing.T) {
	t.Run("creates_and_updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInstrumentService(db, nil)

		created, err := svc.CreateInstruments([]InstrumentInput{
			{Symbol: "tcs", Name: "Tata Consultancy"},
			{Symbol: "INFY", Name: "Infosys"},
		})
		testutil.AssertNoError(t, err)
		if len(created) != 2 || created[0].Symbol != "TCS" || created[0].ID == "" {
			t.Fatalf("unexpected instruments: %+v", created)
		}

		updated, err := svc.CreateInstruments([]InstrumentInput{{Symbol: "TCS", Name: "Tata Consultancy Services"}})
		testutil.AssertNoError(t, err)
		if updated[0].ID != created[0].ID || updated[0].Name != "Tata Consultancy Services" {
			t.Errorf("expected rename of existing instrument, got %+v", updated[0])
		}

		var count int64
		db.Model(&models.Instrument{}).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 instruments, got %d", count)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInstrumentService(db, nil)

		_, err := svc.CreateInstruments(nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateInstruments([]InstrumentInput{{Symbol: "OK", Name: "Fine"}, {Symbol: "BAD"}})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		var count int64
		db.Model(&models.Instrument{}).Count(&count)
		if count != 0 {
			t.Errorf("a failed batch must not store anything, got %d", count)
		}
	})
}

func TestGetInstrumentBySymbol(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	testutil.CreateTestInstrument(t, db, "AAA", "10")
	svc := NewInstrumentService(db, nil)

	inst, err := svc.GetInstrumentBySymbol(" aaa ")
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "10", inst.CurrentPrice.Decimal)

	_, err = svc.GetInstrumentBySymbol("ZZZ")
	testutil.AssertAppError(t, err, "INSTRUMENT_NOT_FOUND")

	found, err := svc.GetInstrumentsBySymbols([]string{"aaa", "ZZZ"})
	testutil.AssertNoError(t, err)
	if len(found) != 1 || found[0].Symbol != "AAA" {
		t.Errorf("expected only AAA, got %+v", found)
	}
}

func TestListInstruments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	for _, sym := range []string{"HDFC", "INFY", "TCS"} {
		testutil.CreateTestInstrument(t, db, sym, "10")
	}
	svc := NewInstrumentService(db, nil)

	page, err := svc.ListInstruments("", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 || page.Data[0].Symbol != "HDFC" || page.PageSize != pagination.DefaultPageSize {
		t.Errorf("unexpected page: %+v", page)
	}

	page, err = svc.ListInstruments("inf", pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 1 || page.Data[0].Symbol != "INFY" {
		t.Errorf("expected INFY only, got %+v", page.Data)
	}
}

func TestRecordPrices(t *testing.T) {
	t.Run("updates_newer_prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestInstrument(t, db, "AAA", "10")
		testutil.CreateTestUnpricedInstrument(t, db, "BBB")
		svc := NewInstrumentService(db, nil)

		later := time.Now().UTC().Add(time.Minute)
		count, err := svc.RecordPrices([]PriceInput{
			{Symbol: "AAA", Price: decimal.RequireFromString("11.456"), RecordedAt: later},
			{Symbol: "bbb", Price: decimal.RequireFromString("20")},
			{Symbol: "ZZZ", Price: decimal.RequireFromString("5")},
		})
		testutil.AssertNoError(t, err)
		if count != 2 {
			t.Errorf("expected 2 updates, got %d", count)
		}

		aaa, _ := svc.GetInstrumentBySymbol("AAA")
		testutil.AssertDecimal(t, "11.46", aaa.CurrentPrice.Decimal)
		bbb, _ := svc.GetInstrumentBySymbol("BBB")
		if !bbb.CurrentPrice.Valid || bbb.LastUpdated == nil {
			t.Error("expected BBB to be priced")
		}
	})

	t.Run("ignores_older_prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestInstrument(t, db, "AAA", "10")
		svc := NewInstrumentService(db, nil)

		count, err := svc.RecordPrices([]PriceInput{
			{Symbol: "AAA", Price: decimal.RequireFromString("9"), RecordedAt: time.Now().UTC().Add(-time.Hour)},
		})
		testutil.AssertNoError(t, err)
		if count != 0 {
			t.Errorf("expected no updates, got %d", count)
		}
		aaa, _ := svc.GetInstrumentBySymbol("AAA")
		testutil.AssertDecimal(t, "10", aaa.CurrentPrice.Decimal)
	})

	t.Run("invalid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInstrumentService(db, nil)

		_, err := svc.RecordPrices(nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.RecordPrices([]PriceInput{{Symbol: "AAA", Price: decimal.Zero}})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestRefreshPrices(t *testing.T) {
	t.Run("all_instruments", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestInstrument(t, db, "AAA", "10")
		testutil.CreateTestUnpricedInstrument(t, db, "BBB")
		testutil.CreateTestUnpricedInstrument(t, db, "CCC")
		source := &fakeSource{prices: map[string]string{"AAA": "12", "BBB": "30"}}
		svc := NewInstrumentService(db, source)

		result, err := svc.RefreshPrices(context.Background(), nil)
		testutil.AssertNoError(t, err)

		if result.Source != "fake" || result.Requested != 3 || result.Updated != 2 {
			t.Errorf("unexpected result: %+v", result)
		}
		if len(result.Failed) != 1 || result.Failed[0] != "CCC" {
			t.Errorf("expected CCC to fail, got %v", result.Failed)
		}
		bbb, _ := svc.GetInstrumentBySymbol("BBB")
		testutil.AssertDecimal(t, "30", bbb.CurrentPrice.Decimal)
	})

	t.Run("nothing_priced", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		testutil.CreateTestInstrument(t, db, "AAA", "10")
		svc := NewInstrumentService(db, &fakeSource{prices: map[string]string{}})

		result, err := svc.RefreshPrices(context.Background(), []string{"aaa"})
		testutil.AssertAppError(t, err, "PRICE_UNAVAILABLE")
		if result == nil || len(result.Failed) != 1 {
			t.Errorf("expected failed symbols in result, got %+v", result)
		}
	})

	t.Run("no_source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		_, err := NewInstrumentService(db, nil).RefreshPrices(context.Background(), nil)
		testutil.AssertAppError(t, err, "PRICE_UNAVAILABLE")
	})
}

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)

	svc.Log(AuditEntry{
		UserID:       "user-1",
		Action:       models.AuditActionUpdateWeight,
		ResourceType: models.AuditResourceBasket,
		ResourceID:   "basket-1",
		IPAddress:    "127.0.0.1",
		RequestID:    "req-1",
		Changes:      map[string]any{"weight": "50"},
	})

	var entry models.AuditLog
	if err := db.First(&entry).Error; err != nil {
		t.Fatalf("expected audit entry: %v", err)
	}
	if entry.UserID != "user-1" || entry.Action != "UPDATE_ITEM_WEIGHT" || entry.Changes != `{"weight":"50"}` || entry.RequestID != "req-1" {
		t.Errorf("unexpected audit entry: %+v", entry)
	}
}
