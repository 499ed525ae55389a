package services

import (
	"context"
	"time"

	"budgetwise/internal/csvimport"
	"budgetwise/internal/domain"
	"budgetwise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, name string, currency domain.Currency) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	VerifyPassword(user *domain.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*domain.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
	UpdatePassword(ctx context.Context, userID, password string) error
}

// CategoryInput carries the writable fields of a category. Nil fields are
// left unchanged on update.
type CategoryInput struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	IsActive    *bool
	SortOrder   *int
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID string, input CategoryInput) (*domain.Category, error)
	GetUserCategories(ctx context.Context, userID string, activeOnly bool) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, input CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	SeedDefaultCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// BudgetInput carries the writable fields of a budget. On update, nil
// fields keep their current value.
type BudgetInput struct {
	CategoryID     *string
	Name           *string
	AmountCents    *int64
	Currency       *domain.Currency
	Period         *domain.BudgetPeriod
	StartDate      *time.Time
	EndDate        *time.Time
	AlertThreshold *int
	IsActive       *bool
}

// BudgetStatus is a budget's spending in its current period.
type BudgetStatus struct {
	Budget           domain.Budget `json:"budget"`
	PeriodStart      time.Time     `json:"period_start"`
	PeriodEnd        time.Time     `json:"period_end"`
	SpentCents       int64         `json:"spent_cents"`
	RemainingCents   int64         `json:"remaining_cents"`
	PercentageUsed   float64       `json:"percentage_used"`
	IsOverBudget     bool          `json:"is_over_budget"`
	ShouldAlert      bool          `json:"should_alert"`
	TransactionCount int           `json:"transaction_count"`
}

// CategoryBudgetSummary groups the budget statuses of one category.
type CategoryBudgetSummary struct {
	CategoryID            string         `json:"category_id"`
	CategoryName          string         `json:"category_name"`
	CategoryIcon          string         `json:"category_icon,omitempty"`
	CategoryColor         string         `json:"category_color,omitempty"`
	Budgets               []BudgetStatus `json:"budgets"`
	TotalBudgetCents      int64          `json:"total_budget_cents"`
	TotalSpentCents       int64          `json:"total_spent_cents"`
	TotalRemainingCents   int64          `json:"total_remaining_cents"`
	OverallPercentageUsed float64        `json:"overall_percentage_used"`
	HasOverBudget         bool           `json:"has_over_budget"`
}

// BudgetDashboard aggregates every active budget of a user by category.
type BudgetDashboard struct {
	Categories       []CategoryBudgetSummary `json:"categories"`
	TotalBudgetCents int64                   `json:"total_budget_cents"`
	TotalSpentCents  int64                   `json:"total_spent_cents"`
	OverBudgetCount  int                     `json:"over_budget_count"`
	AlertCount       int                     `json:"alert_count"`
}

// SpendingBucket is the total of the transactions sharing a category or
// budget. An empty ID collects the transactions without one.
type SpendingBucket struct {
	ID               string `json:"id"`
	TotalCents       int64  `json:"total_cents"`
	TransactionCount int    `json:"transaction_count"`
}

// SpendingSummary totals a user's transactions between From and To.
type SpendingSummary struct {
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	TotalCents int64            `json:"total_cents"`
	ByCategory []SpendingBucket `json:"by_category"`
	ByBudget   []SpendingBucket `json:"by_budget"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID string, input BudgetInput) (*domain.Budget, error)
	GetUserBudgets(ctx context.Context, userID string, activeOnly bool) ([]domain.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, input BudgetInput) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	GetBudgetStatus(ctx context.Context, userID, budgetID string) (*BudgetStatus, error)
	GetDashboard(ctx context.Context, userID string) (*BudgetDashboard, error)
	GetSpendingSummary(ctx context.Context, userID string, from, to time.Time) (*SpendingSummary, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *string
	BudgetID   *string
}

// NewTransactionInput is a transaction to create.
type NewTransactionInput struct {
	BudgetID    *string   `json:"budget_id,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ImportError describes one transaction a bulk import could not store.
type ImportError struct {
	Index int                 `json:"index"`
	Error string              `json:"error"`
	Data  NewTransactionInput `json:"data"`
}

// BulkImportResult reports the outcome of a bulk import.
type BulkImportResult struct {
	Imported int                  `json:"imported"`
	Failed   int                  `json:"failed"`
	Total    int                  `json:"total"`
	Success  []domain.Transaction `json:"success"`
	Errors   []ImportError        `json:"errors"`
}

// CSVImportResult adds the parser's findings to a bulk import result. On a
// dry run nothing is stored and only the parse fields are filled.
type CSVImportResult struct {
	BulkImportResult
	DryRun      bool                         `json:"dry_run"`
	Parsed      []csvimport.TransactionInput `json:"parsed,omitempty"`
	ParseErrors []csvimport.RowError         `json:"parse_errors"`
	RawRows     []csvimport.RawRow           `json:"raw_rows"`
}

// CategorizationResult is the category chosen for a transaction.
type CategorizationResult struct {
	Transaction domain.Transaction `json:"transaction"`
	CategoryID  string             `json:"category_id"`
	Reasoning   string             `json:"reasoning,omitempty"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, input NewTransactionInput) (*domain.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[domain.Transaction], error)
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, changes domain.TransactionChanges) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	CategorizeTransaction(ctx context.Context, userID, transactionID string) (*CategorizationResult, error)
	BulkImport(ctx context.Context, userID string, inputs []NewTransactionInput) (*BulkImportResult, error)
	ImportCSV(ctx context.Context, userID, raw string, dryRun bool) (*CSVImportResult, error)
	ParseInvoice(ctx context.Context, userID, imageBase64 string) (*domain.ParsedInvoice, error)
}

// LLMUsageFilter narrows a usage report. Zero values mean "no filter".
type LLMUsageFilter struct {
	From     *time.Time
	To       *time.Time
	CallType domain.LLMCallType
}

// LLMUsageReport summarizes a user's LLM calls.
type LLMUsageReport struct {
	Usage       domain.LLMUsage  `json:"usage"`
	RecentCalls []domain.LLMCall `json:"recent_calls"`
}

// LLMUsageServicer records LLM calls and reports usage.
type LLMUsageServicer interface {
	RecordLLMCall(ctx context.Context, call domain.LLMCall) error
	GetUsage(ctx context.Context, userID string, filter LLMUsageFilter) (*LLMUsageReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}

// Categorizer picks a category for a transaction note. An empty categoryID
// means no category fits.
type Categorizer interface {
	Categorize(ctx context.Context, userID, note string, amountCents int64, categories []domain.Category) (categoryID, reasoning string, err error)
}

// InvoiceParser reads a receipt image into a draft transaction.
type InvoiceParser interface {
	ParseInvoice(ctx context.Context, userID, imageBase64 string, categories []domain.Category) (*domain.ParsedInvoice, error)
}

// CategorizationQueue defers categorization to a background worker.
type CategorizationQueue interface {
	Enqueue(ctx context.Context, userID, transactionID string) error
}
