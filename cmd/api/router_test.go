package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/config"
	"budgetwise/internal/logger"
	"budgetwise/internal/repository/memory"
)

type testApp struct {
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupApp builds the full router over a fresh in-memory store.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{
		Env:                  "test",
		CORSOrigin:           "*",
		StorageDriver:        config.StorageMemory,
		JWTSecret:            "flow-secret",
		JWTExpirationDur:     time.Hour,
		RefreshExpirationDur: 24 * time.Hour,
		ResetTokenExpiration: time.Hour,
	}
	prev := config.Get()
	config.Set(cfg)
	t.Cleanup(func() { config.Set(prev) })

	return &testApp{Router: newRouter(cfg, memory.NewStore(), nil)}
}

func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// registerUser registers a user and returns the access and refresh tokens.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	expectStatus(t, rec, http.StatusCreated)
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	rec := app.request(http.MethodGet, "/api/health", "", "")
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["storage"] != config.StorageMemory {
		t.Errorf("expected memory storage in %s", rec.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	access, refresh := app.registerUser(t, "auth@test.com", "password123")

	rec := app.request(http.MethodGet, "/api/v1/profile", "", access)
	expectStatus(t, rec, http.StatusOK)
	user := parseJSON(t, rec)["user"].(map[string]any)
	if user["email"] != "auth@test.com" || user["default_currency"] != "USD" {
		t.Errorf("unexpected profile %v", user)
	}

	rec = app.request(http.MethodPost, "/api/v1/auth/login", `{"email":"AUTH@test.com","password":"password123"}`, "")
	expectStatus(t, rec, http.StatusOK)
	refresh = parseJSON(t, rec)["refresh_token"].(string)

	rec = app.request(http.MethodPost, "/api/v1/auth/refresh", fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
	expectStatus(t, rec, http.StatusOK)
	access = parseJSON(t, rec)["access_token"].(string)

	rec = app.request(http.MethodPost, "/api/v1/auth/logout", "", access)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodPost, "/api/v1/auth/login", `{"email":"auth@test.com","password":"wrong-password"}`, "")
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = app.request(http.MethodGet, "/api/v1/profile", "", "")
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestPasswordResetFlow(t *testing.T) {
	app := setupApp(t)
	app.registerUser(t, "reset@test.com", "password123")

	rec := app.request(http.MethodPost, "/api/v1/auth/password/forgot", `{"email":"reset@test.com"}`, "")
	expectStatus(t, rec, http.StatusOK)
	token, _ := parseJSON(t, rec)["reset_token"].(string)
	if token == "" {
		t.Fatalf("expected reset token outside production: %s", rec.Body.String())
	}

	body := fmt.Sprintf(`{"token":%q,"password":"newpassword1"}`, token)
	rec = app.request(http.MethodPost, "/api/v1/auth/password/reset", body, "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodPost, "/api/v1/auth/password/reset", body, "")
	if rec.Code == http.StatusOK {
		t.Fatal("expected reset token to be single-use")
	}

	rec = app.request(http.MethodPost, "/api/v1/auth/login", `{"email":"reset@test.com","password":"newpassword1"}`, "")
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodPost, "/api/v1/auth/password/forgot", `{"email":"nobody@test.com"}`, "")
	expectStatus(t, rec, http.StatusOK)
}

func TestBudgetFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budget@test.com", "password123")

	// Registration seeds the default categories.
	rec := app.request(http.MethodGet, "/api/v1/categories?active=true", "", token)
	expectStatus(t, rec, http.StatusOK)
	categories := parseJSON(t, rec)["categories"].([]any)
	if len(categories) == 0 {
		t.Fatal("expected seeded categories")
	}
	categoryID := categories[0].(map[string]any)["id"].(string)

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	rec = app.request(http.MethodPost, "/api/v1/budgets", fmt.Sprintf(
		`{"category_id":%q,"name":"Groceries","amount_cents":20000,"period":"MONTHLY","start_date":%q,"alert_threshold":50}`,
		categoryID, start.Format(time.RFC3339)), token)
	expectStatus(t, rec, http.StatusCreated)
	budgetID := parseJSON(t, rec)["budget"].(map[string]any)["id"].(string)

	rec = app.request(http.MethodGet, "/api/v1/budgets/"+budgetID+"/status", "", token)
	expectStatus(t, rec, http.StatusOK)
	status := parseJSON(t, rec)["status"].(map[string]any)
	if status["spent_cents"].(float64) != 0 || status["remaining_cents"].(float64) != 20000 {
		t.Errorf("unexpected initial status %v", status)
	}

	for _, amount := range []int64{-8000, -5000} {
		rec = app.request(http.MethodPost, "/api/v1/transactions", fmt.Sprintf(
			`{"budget_id":%q,"category_id":%q,"amount_cents":%d,"note":"Weekly groceries"}`,
			budgetID, categoryID, amount), token)
		expectStatus(t, rec, http.StatusCreated)
	}

	rec = app.request(http.MethodGet, "/api/v1/budgets/"+budgetID+"/status", "", token)
	expectStatus(t, rec, http.StatusOK)
	status = parseJSON(t, rec)["status"].(map[string]any)
	if status["spent_cents"].(float64) != 13000 {
		t.Errorf("expected 13000 spent, got %v", status["spent_cents"])
	}
	if status["should_alert"] != true || status["is_over_budget"] != false {
		t.Errorf("expected alert without overspend, got %v", status)
	}

	rec = app.request(http.MethodGet, "/api/v1/budgets/dashboard", "", token)
	expectStatus(t, rec, http.StatusOK)
	dashboard := parseJSON(t, rec)["dashboard"].(map[string]any)
	if dashboard["alert_count"].(float64) != 1 || dashboard["total_spent_cents"].(float64) != 13000 {
		t.Errorf("unexpected dashboard %v", dashboard)
	}

	// An active budget keeps its category from being archived.
	rec = app.request(http.MethodDelete, "/api/v1/categories/"+categoryID, "", token)
	expectStatus(t, rec, http.StatusConflict)

	// Other users see nothing.
	other, _ := app.registerUser(t, "other@test.com", "password123")
	rec = app.request(http.MethodGet, "/api/v1/budgets/"+budgetID, "", other)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCSVImportFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "csv@test.com", "password123")

	csv := "date,description,amount\n2026-03-01,Coffee Shop,-4.50\n2026-03-02,Salary,2500.00\nnot-a-date,Broken,1\n"

	upload := func(dryRun bool) map[string]any {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "march.csv")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write([]byte(csv))
		_ = mw.Close()

		path := "/api/v1/transactions/import/csv"
		if dryRun {
			path += "?dry_run=true"
		}
		req := httptest.NewRequest(http.MethodPost, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		expectStatus(t, rec, http.StatusOK)
		return parseJSON(t, rec)
	}

	preview := upload(true)
	if preview["imported"].(float64) != 0 || len(preview["parsed"].([]any)) != 2 {
		t.Errorf("unexpected dry run %v", preview)
	}
	if errs := preview["parse_errors"].([]any); len(errs) != 1 || errs[0].(map[string]any)["row"].(float64) != 4 {
		t.Errorf("expected one parse error on row 4, got %v", errs)
	}

	rec := app.request(http.MethodGet, "/api/v1/transactions", "", token)
	expectStatus(t, rec, http.StatusOK)
	if parseJSON(t, rec)["total_items"].(float64) != 0 {
		t.Fatal("dry run must not store transactions")
	}

	result := upload(false)
	if result["imported"].(float64) != 2 {
		t.Errorf("expected 2 imported, got %v", result)
	}

	rec = app.request(http.MethodGet, "/api/v1/transactions?page_size=1", "", token)
	expectStatus(t, rec, http.StatusOK)
	page := parseJSON(t, rec)
	if page["total_items"].(float64) != 2 || len(page["data"].([]any)) != 1 {
		t.Errorf("unexpected page %v", page)
	}
}

func TestLLMFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "llm@test.com", "password123")

	rec := app.request(http.MethodPost, "/api/v1/transactions/parse-invoice", `{"image_base64":"aGVsbG8="}`, token)
	expectStatus(t, rec, http.StatusServiceUnavailable)

	rec = app.request(http.MethodGet, "/api/v1/llm-usage", "", token)
	expectStatus(t, rec, http.StatusOK)
	report := parseJSON(t, rec)
	if report["usage"].(map[string]any)["total_calls"].(float64) != 0 || len(report["recent_calls"].([]any)) != 0 {
		t.Errorf("expected empty usage, got %v", report)
	}

	rec = app.request(http.MethodGet, "/api/v1/llm-usage?call_type=chat", "", token)
	expectStatus(t, rec, http.StatusBadRequest)
}
