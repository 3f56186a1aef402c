package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"smallcase/internal/logger"
	"smallcase/internal/middleware"
	"smallcase/internal/models"
	"smallcase/internal/services"
	"smallcase/internal/testutil"
	"smallcase/internal/validator"
)

const (
	testSecret = "flow-secret"
	testAPIKey = "flow-api-key"
)

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	instruments := services.NewInstrumentService(db, nil)
	router := NewRouter(Options{JWTSecret: testSecret, PipelineAPIKey: testAPIKey}, Services{
		Baskets:     services.NewBasketService(db, instruments, services.BasketConfig{DefaultCurrency: "INR"}),
		Instruments: instruments,
		Audit:       services.NewAuditService(db),
	})
	return &testApp{DB: db, Router: router}
}

func (a *testApp) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(testSecret, userID, userID+"@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (a *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) pipelineRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func itemIDs(t *testing.T, basket map[string]interface{}) map[string]string {
	t.Helper()
	ids := make(map[string]string)
	for _, raw := range basket["items"].([]interface{}) {
		item := raw.(map[string]interface{})
		ids[item["symbol"].(string)] = item["id"].(string)
	}
	return ids
}

func TestBasketFlow_FullLifecycle(t *testing.T) {
	app := setupApp(t)
	token := app.token(t, "flow-user")

	// Step 1: Register instruments and push prices through the pipeline
	rec := app.pipelineRequest("POST", "/api/v1/pipeline/instruments",
		`{"instruments":[{"symbol":"AAA","name":"Alpha"},{"symbol":"BBB","name":"Beta"},{"symbol":"CCC","name":"Gamma"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating instruments, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.pipelineRequest("POST", "/api/v1/pipeline/instruments/prices",
		`{"prices":[{"symbol":"AAA","price":"100"},{"symbol":"BBB","price":"200"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 recording prices, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["prices_recorded"].(float64) != 2 {
		t.Errorf("expected 2 prices recorded")
	}

	// Step 2: Create a basket; CCC has no price and is skipped
	rec = app.request("POST", "/api/v1/baskets",
		`{"name":"Core","investment_amount":"1000","symbols":["AAA","BBB","CCC"]}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating basket, got %d: %s", rec.Code, rec.Body.String())
	}
	basket := parseJSON(t, rec)["basket"].(map[string]interface{})
	basketID := basket["id"].(string)
	// N counts CCC too: 3 AAA at 100 and 1 BBB at 200
	if basket["investment_amount"] != "500" {
		t.Errorf("expected investment_amount 500, got %v", basket["investment_amount"])
	}
	if skipped := basket["skipped_symbols"].([]interface{}); len(skipped) != 1 || skipped[0] != "CCC" {
		t.Errorf("expected CCC skipped, got %v", skipped)
	}
	ids := itemIDs(t, basket)
	if len(ids) != 2 {
		t.Fatalf("expected 2 items, got %v", ids)
	}

	// Step 3: Quantity edit grows the investment
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/baskets/%s/items/%s", basketID, ids["AAA"]),
		`{"update_type":"quantity","quantity":8}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 editing quantity, got %d: %s", rec.Code, rec.Body.String())
	}
	basket = parseJSON(t, rec)["basket"].(map[string]interface{})
	if basket["investment_amount"] != "1000" || basket["version"].(float64) != 2 {
		t.Errorf("expected investment 1000 at version 2, got %v v%v", basket["investment_amount"], basket["version"])
	}

	// Step 4: Weight edit
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/baskets/%s/items/%s", basketID, ids["BBB"]),
		`{"update_type":"weight","weight":80}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 editing weight, got %d: %s", rec.Code, rec.Body.String())
	}
	basket = parseJSON(t, rec)["basket"].(map[string]interface{})
	for _, raw := range basket["items"].([]interface{}) {
		item := raw.(map[string]interface{})
		switch item["symbol"] {
		case "AAA":
			if item["quantity"].(float64) != 2 {
				t.Errorf("expected 2 AAA, got %v", item["quantity"])
			}
		case "BBB":
			if item["quantity"].(float64) != 4 || item["weight_percent"] != "80" {
				t.Errorf("expected 4 BBB at 80%%, got %v at %v", item["quantity"], item["weight_percent"])
			}
		}
	}

	// Step 5: Out of range weight is rejected and nothing changes
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/baskets/%s/items/%s", basketID, ids["BBB"]),
		`{"update_type":"weight","weight":120}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for weight 120, got %d", rec.Code)
	}

	// Step 6: Investment edit
	rec = app.request("PUT", fmt.Sprintf("/api/v1/baskets/%s/investment", basketID), `{"investment_amount":2000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 editing investment, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := parseJSON(t, rec)["basket"].(map[string]interface{})["investment_amount"]; got != "2000" {
		t.Errorf("expected investment 2000, got %v", got)
	}

	// Step 7: Other users cannot see the basket
	rec = app.request("GET", "/api/v1/baskets/"+basketID, "", app.token(t, "someone-else"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for other user, got %d", rec.Code)
	}

	// Step 8: Remove an item
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/baskets/%s/items/%s", basketID, ids["AAA"]), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 removing item, got %d: %s", rec.Code, rec.Body.String())
	}
	removal := parseJSON(t, rec)
	if !strings.HasPrefix(removal["message"].(string), "AAA removed from basket.") {
		t.Errorf("unexpected message %v", removal["message"])
	}
	basket = removal["basket"].(map[string]interface{})
	if basket["investment_amount"] != "1600" || len(basket["items"].([]interface{})) != 1 {
		t.Errorf("expected one item worth 1600, got %v", basket)
	}

	// Step 9: Duplicate, list and delete
	// A single remaining instrument cannot form a new basket.
	rec = app.request("POST", fmt.Sprintf("/api/v1/baskets/%s/duplicate", basketID), "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 duplicating a one-item basket, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/baskets", "", token)
	if rec.Code != http.StatusOK || parseJSON(t, rec)["total_items"].(float64) != 1 {
		t.Fatalf("expected one basket listed, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("DELETE", "/api/v1/baskets/"+basketID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting basket, got %d", rec.Code)
	}
	rec = app.request("GET", "/api/v1/baskets/"+basketID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}

	var audits int64
	app.DB.Model(&models.AuditLog{}).Where("user_id = ?", "flow-user").Count(&audits)
	if audits != 6 {
		t.Errorf("expected 6 audit entries, got %d", audits)
	}
}

func TestBasketFlow_Auth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/baskets", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest("POST", "/api/v1/pipeline/instruments", strings.NewReader(`{}`))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong API key, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 from health check, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/nowhere", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown route, got %d", rec.Code)
	}
	if code := parseJSON(t, rec)["error"].(map[string]interface{})["code"]; code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", code)
	}
}
