package sqlstore

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"budgetwise/internal/domain"
	"budgetwise/internal/models"
	"budgetwise/internal/repository"
)

// UserRepository persists users.
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userToDomain(row), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&row).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userToDomain(row), nil
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return domain.User{}, translate(err)
	}
	if count > 0 {
		return domain.User{}, repository.ErrDuplicate
	}
	row := userFromDomain(u)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userToDomain(row), nil
}

func (r *UserRepository) Update(ctx context.Context, u domain.User) (domain.User, error) {
	var existing models.User
	if err := r.db.WithContext(ctx).Where("id = ?", u.ID).First(&existing).Error; err != nil {
		return domain.User{}, translate(err)
	}
	row := userFromDomain(u)
	row.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userToDomain(row), nil
}

// CategoryRepository persists categories.
type CategoryRepository struct {
	db *gorm.DB
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (domain.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.Category{}, translate(err)
	}
	return categoryToDomain(row), nil
}

func (r *CategoryRepository) list(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	var rows []models.Category
	if err := r.db.WithContext(ctx).Where(query, args...).Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return mapAll(rows, categoryToDomain), nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *CategoryRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	return r.list(ctx, "user_id = ? AND is_active = ?", userID, true)
}

func (r *CategoryRepository) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	row := categoryFromDomain(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Category{}, translate(err)
	}
	return categoryToDomain(row), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) (domain.Category, error) {
	var existing models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", c.ID).First(&existing).Error; err != nil {
		return domain.Category{}, translate(err)
	}
	row := categoryFromDomain(c)
	row.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.Category{}, translate(err)
	}
	return categoryToDomain(row), nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Category{}, id)
}

// BudgetRepository persists budgets.
type BudgetRepository struct {
	db *gorm.DB
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (domain.Budget, error) {
	var row models.Budget
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.Budget{}, translate(err)
	}
	return budgetToDomain(row), nil
}

func (r *BudgetRepository) list(ctx context.Context, query string, args ...any) ([]domain.Budget, error) {
	var rows []models.Budget
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return mapAll(rows, budgetToDomain), nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *BudgetRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	return r.list(ctx, "user_id = ? AND is_active = ?", userID, true)
}

func (r *BudgetRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Budget, error) {
	return r.list(ctx, "category_id = ?", categoryID)
}

func (r *BudgetRepository) Create(ctx context.Context, b domain.Budget) (domain.Budget, error) {
	row := budgetFromDomain(b)
	if err := r.db.WithContext(ctx).Omit("Category").Create(&row).Error; err != nil {
		return domain.Budget{}, translate(err)
	}
	return budgetToDomain(row), nil
}

func (r *BudgetRepository) Update(ctx context.Context, b domain.Budget) (domain.Budget, error) {
	var existing models.Budget
	if err := r.db.WithContext(ctx).Where("id = ?", b.ID).First(&existing).Error; err != nil {
		return domain.Budget{}, translate(err)
	}
	row := budgetFromDomain(b)
	row.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Omit("Category").Save(&row).Error; err != nil {
		return domain.Budget{}, translate(err)
	}
	return budgetToDomain(row), nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Budget{}, id)
}

// TransactionRepository persists transactions.
type TransactionRepository struct {
	db *gorm.DB
}

const newestFirst = "occurred_at DESC, created_at DESC, id DESC"

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	var row models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.Transaction{}, translate(err)
	}
	return transactionToDomain(row), nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, f repository.TransactionFilter) ([]domain.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if f.From != nil {
		query = query.Where("occurred_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		query = query.Where("occurred_at <= ?", f.To.UTC())
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.BudgetID != nil {
		query = query.Where("budget_id = ?", *f.BudgetID)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var rows []models.Transaction
	page := withLimit(query.Order(newestFirst), f.Limit)
	if f.Offset > 0 {
		page = page.Offset(f.Offset)
	}
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	return mapAll(rows, transactionToDomain), total, nil
}

func (r *TransactionRepository) ListByUserInPeriod(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	var rows []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ? AND occurred_at <= ?", userID, from.UTC(), to.UTC()).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return mapAll(rows, transactionToDomain), nil
}

func (r *TransactionRepository) ListByBudget(ctx context.Context, budgetID string, limit int) ([]domain.Transaction, error) {
	var rows []models.Transaction
	q := withLimit(r.db.WithContext(ctx).Where("budget_id = ?", budgetID).Order(newestFirst), limit)
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return mapAll(rows, transactionToDomain), nil
}

func (r *TransactionRepository) ListByCategory(ctx context.Context, categoryID string, limit int) ([]domain.Transaction, error) {
	var rows []models.Transaction
	q := withLimit(r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order(newestFirst), limit)
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return mapAll(rows, transactionToDomain), nil
}

func (r *TransactionRepository) Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	row := transactionFromDomain(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Transaction{}, translate(err)
	}
	return transactionToDomain(row), nil
}

func (r *TransactionRepository) Update(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	var existing models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", t.ID).First(&existing).Error; err != nil {
		return domain.Transaction{}, translate(err)
	}
	row := transactionFromDomain(t)
	row.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return domain.Transaction{}, translate(err)
	}
	return transactionToDomain(row), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &models.Transaction{}, id)
}

// AuditLogRepository persists audit entries.
type AuditLogRepository struct {
	db *gorm.DB
}

func (r *AuditLogRepository) Create(ctx context.Context, e domain.AuditEntry) error {
	row := models.AuditLog{
		Base:         models.Base{ID: e.ID},
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		IPAddress:    e.IPAddress,
		Changes:      e.Changes,
	}
	return translate(r.db.WithContext(ctx).Create(&row).Error)
}

// LLMCallRepository persists LLM call records.
type LLMCallRepository struct {
	db *gorm.DB
}

func (r *LLMCallRepository) Create(ctx context.Context, c domain.LLMCall) (domain.LLMCall, error) {
	row := llmCallFromDomain(c)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.LLMCall{}, translate(err)
	}
	return llmCallToDomain(row), nil
}

func (r *LLMCallRepository) GetByID(ctx context.Context, id string) (domain.LLMCall, error) {
	var row models.LLMCall
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return domain.LLMCall{}, translate(err)
	}
	return llmCallToDomain(row), nil
}

func (r *LLMCallRepository) ListByUser(ctx context.Context, userID string, f repository.LLMCallFilter) ([]domain.LLMCall, error) {
	var rows []models.LLMCall
	q := withLimit(r.filtered(ctx, userID, f).Order("created_at DESC, id DESC"), f.Limit)
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return mapAll(rows, llmCallToDomain), nil
}

func (r *LLMCallRepository) UserStats(ctx context.Context, userID string, f repository.LLMCallFilter) (domain.LLMUsage, error) {
	var usage domain.LLMUsage
	err := r.filtered(ctx, userID, f).
		Select(`COUNT(*) AS total_calls,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS successful_calls,
			COALESCE(SUM(CASE WHEN status = ? THEN 0 ELSE 1 END), 0) AS failed_calls,
			COALESCE(SUM(total_tokens), 0) AS total_tokens,
			COALESCE(SUM(estimated_cost_cents), 0) AS total_cost_cents`,
			string(domain.LLMCallSuccess), string(domain.LLMCallSuccess)).
		Scan(&usage).Error
	if err != nil {
		return domain.LLMUsage{}, translate(err)
	}
	return usage, nil
}

func (r *LLMCallRepository) filtered(ctx context.Context, userID string, f repository.LLMCallFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.LLMCall{}).Where("user_id = ?", userID)
	if f.CallType != "" {
		q = q.Where("call_type = ?", string(f.CallType))
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", f.To.UTC())
	}
	return q
}
