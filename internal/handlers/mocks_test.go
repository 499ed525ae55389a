package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/domain"
	"budgetwise/internal/middleware"
	"budgetwise/internal/pagination"
	"budgetwise/internal/services"
	"budgetwise/internal/validator"
)

const (
	testUserID     = "0190b6a0-0000-7000-8000-000000000001"
	testCategoryID = "0190b6a0-0000-7000-8000-0000000000c1"
	testBudgetID   = "0190b6a0-0000-7000-8000-0000000000b1"
	testTxID       = "0190b6a0-0000-7000-8000-0000000000f1"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(email, password, name string, currency domain.Currency) (*domain.User, error)
	getUserByEmailFn        func(email string) (*domain.User, error)
	getUserByIDFn           func(id string) (*domain.User, error)
	attemptLoginFn          func(email, password string) (*domain.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
	updatePasswordFn        func(userID, password string) error
}

func (m *mockUserService) CreateUser(_ context.Context, email, password, name string, currency domain.Currency) (*domain.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, name, currency)
	}
	return &domain.User{}, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &domain.User{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &domain.User{}, nil
}

func (m *mockUserService) VerifyPassword(_ *domain.User, _ string) bool { return true }

func (m *mockUserService) AttemptLogin(_ context.Context, email, password string) (*domain.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &domain.User{}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(_ context.Context, userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(_ context.Context, userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) UpdatePassword(_ context.Context, userID, password string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(userID, password)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

type mockCategoryService struct {
	createCategoryFn    func(userID string, input services.CategoryInput) (*domain.Category, error)
	getUserCategoriesFn func(userID string, activeOnly bool) ([]domain.Category, error)
	getCategoryByIDFn   func(userID, categoryID string) (*domain.Category, error)
	updateCategoryFn    func(userID, categoryID string, input services.CategoryInput) (*domain.Category, error)
	deleteCategoryFn    func(userID, categoryID string) error
	seedDefaultsFn      func(userID string) ([]domain.Category, error)
}

func (m *mockCategoryService) CreateCategory(_ context.Context, userID string, input services.CategoryInput) (*domain.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, input)
	}
	return &domain.Category{}, nil
}

func (m *mockCategoryService) GetUserCategories(_ context.Context, userID string, activeOnly bool) ([]domain.Category, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID, activeOnly)
	}
	return []domain.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(_ context.Context, userID, categoryID string) (*domain.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(userID, categoryID)
	}
	return &domain.Category{}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, userID, categoryID string, input services.CategoryInput) (*domain.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, input)
	}
	return &domain.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, userID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

func (m *mockCategoryService) SeedDefaultCategories(_ context.Context, userID string) ([]domain.Category, error) {
	if m.seedDefaultsFn != nil {
		return m.seedDefaultsFn(userID)
	}
	return []domain.Category{}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

type mockBudgetService struct {
	createBudgetFn       func(userID string, input services.BudgetInput) (*domain.Budget, error)
	getUserBudgetsFn     func(userID string, activeOnly bool) ([]domain.Budget, error)
	getBudgetByIDFn      func(userID, budgetID string) (*domain.Budget, error)
	updateBudgetFn       func(userID, budgetID string, input services.BudgetInput) (*domain.Budget, error)
	deleteBudgetFn       func(userID, budgetID string) error
	getBudgetStatusFn    func(userID, budgetID string) (*services.BudgetStatus, error)
	getDashboardFn       func(userID string) (*services.BudgetDashboard, error)
	getSpendingSummaryFn func(userID string, from, to time.Time) (*services.SpendingSummary, error)
}

func (m *mockBudgetService) CreateBudget(_ context.Context, userID string, input services.BudgetInput) (*domain.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, input)
	}
	return &domain.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(_ context.Context, userID string, activeOnly bool) ([]domain.Budget, error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, activeOnly)
	}
	return []domain.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(_ context.Context, userID, budgetID string) (*domain.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &domain.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(_ context.Context, userID, budgetID string, input services.BudgetInput) (*domain.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, input)
	}
	return &domain.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(_ context.Context, userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetStatus(_ context.Context, userID, budgetID string) (*services.BudgetStatus, error) {
	if m.getBudgetStatusFn != nil {
		return m.getBudgetStatusFn(userID, budgetID)
	}
	return &services.BudgetStatus{}, nil
}

func (m *mockBudgetService) GetDashboard(_ context.Context, userID string) (*services.BudgetDashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(userID)
	}
	return &services.BudgetDashboard{Categories: []services.CategoryBudgetSummary{}}, nil
}

func (m *mockBudgetService) GetSpendingSummary(_ context.Context, userID string, from, to time.Time) (*services.SpendingSummary, error) {
	if m.getSpendingSummaryFn != nil {
		return m.getSpendingSummaryFn(userID, from, to)
	}
	return &services.SpendingSummary{From: from, To: to}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

type mockTransactionService struct {
	createTransactionFn     func(userID string, input services.NewTransactionInput) (*domain.Transaction, error)
	getUserTransactionsFn   func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[domain.Transaction], error)
	getTransactionByIDFn    func(userID, transactionID string) (*domain.Transaction, error)
	updateTransactionFn     func(userID, transactionID string, changes domain.TransactionChanges) (*domain.Transaction, error)
	deleteTransactionFn     func(userID, transactionID string) error
	categorizeTransactionFn func(userID, transactionID string) (*services.CategorizationResult, error)
	bulkImportFn            func(userID string, inputs []services.NewTransactionInput) (*services.BulkImportResult, error)
	importCSVFn             func(userID, raw string, dryRun bool) (*services.CSVImportResult, error)
	parseInvoiceFn          func(userID, imageBase64 string) (*domain.ParsedInvoice, error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, userID string, input services.NewTransactionInput) (*domain.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, input)
	}
	return &domain.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(_ context.Context, userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[domain.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]domain.Transaction{}, pagination.PageRequest{Page: 1, PageSize: 20}, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(_ context.Context, userID, transactionID string) (*domain.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &domain.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, userID, transactionID string, changes domain.TransactionChanges) (*domain.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, changes)
	}
	return &domain.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) CategorizeTransaction(_ context.Context, userID, transactionID string) (*services.CategorizationResult, error) {
	if m.categorizeTransactionFn != nil {
		return m.categorizeTransactionFn(userID, transactionID)
	}
	return nil, nil
}

func (m *mockTransactionService) BulkImport(_ context.Context, userID string, inputs []services.NewTransactionInput) (*services.BulkImportResult, error) {
	if m.bulkImportFn != nil {
		return m.bulkImportFn(userID, inputs)
	}
	return &services.BulkImportResult{}, nil
}

func (m *mockTransactionService) ImportCSV(_ context.Context, userID, raw string, dryRun bool) (*services.CSVImportResult, error) {
	if m.importCSVFn != nil {
		return m.importCSVFn(userID, raw, dryRun)
	}
	return &services.CSVImportResult{DryRun: dryRun}, nil
}

func (m *mockTransactionService) ParseInvoice(_ context.Context, userID, imageBase64 string) (*domain.ParsedInvoice, error) {
	if m.parseInvoiceFn != nil {
		return m.parseInvoiceFn(userID, imageBase64)
	}
	return &domain.ParsedInvoice{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

type mockLLMUsageService struct {
	getUsageFn func(userID string, filter services.LLMUsageFilter) (*services.LLMUsageReport, error)
}

func (m *mockLLMUsageService) RecordLLMCall(context.Context, domain.LLMCall) error { return nil }

func (m *mockLLMUsageService) GetUsage(_ context.Context, userID string, filter services.LLMUsageFilter) (*services.LLMUsageReport, error) {
	if m.getUsageFn != nil {
		return m.getUsageFn(userID, filter)
	}
	return &services.LLMUsageReport{RecentCalls: []domain.LLMCall{}}, nil
}

var _ services.LLMUsageServicer = (*mockLLMUsageService)(nil)

// mockAuditService records the actions it was asked to log.
type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_ context.Context, _, action, _, _, _ string, _ map[string]any) {
	m.actions = append(m.actions, action)
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
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

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func strPtr(s string) *string { return &s }
