package testutil_test

import (
	"testing"

	"smallcase/internal/errors"
	"smallcase/internal/models"
	"smallcase/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"instruments", "baskets", "basket_items", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestInstrument(t, a, "ONLYA", "10")

	var count int64
	if err := b.Model(&models.Instrument{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected databases to be isolated, found %d instruments", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	a := testutil.CreateTestInstrument(t, db, "AAA", "100")
	b := testutil.CreateTestInstrument(t, db, "BBB", "200")
	if a.ID == "" || !a.CurrentPrice.Valid {
		t.Fatal("instrument should have an id and a price")
	}

	unpriced := testutil.CreateTestUnpricedInstrument(t, db, "CCC")
	if unpriced.CurrentPrice.Valid {
		t.Error("expected unpriced instrument")
	}

	basket := testutil.CreateTestBasket(t, db, "user-1", "1000", a, b)
	if len(basket.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(basket.Items))
	}
	testutil.AssertDecimal(t, "900", basket.InvestmentAmount)

	var stored models.Basket
	if err := db.Preload("Items").First(&stored, "id = ?", basket.ID).Error; err != nil {
		t.Fatalf("reload basket: %v", err)
	}
	testutil.AssertDecimal(t, "900", stored.InvestmentAmount)
	if len(stored.Items) != 2 {
		t.Errorf("expected 2 stored items, got %d", len(stored.Items))
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrBasketNotFound, "BASKET_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInvalidWeight, nil), "INVALID_WEIGHT")
}
