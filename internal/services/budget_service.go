package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/repository"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	budgets      repository.BudgetRepository
	categories   repository.CategoryRepository
	transactions repository.TransactionRepository
	now          Clock
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(store repository.Store) BudgetServicer {
	return NewBudgetServiceWithClock(store, utcNow)
}

// NewBudgetServiceWithClock creates a BudgetServicer that reads the time
// from now.
func NewBudgetServiceWithClock(store repository.Store, now Clock) BudgetServicer {
	return &budgetService{
		budgets:      store.Budgets,
		categories:   store.Categories,
		transactions: store.Transactions,
		now:          now,
	}
}

// CreateBudget creates a new active budget for one of the user's categories.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, input BudgetInput) (*domain.Budget, error) {
	if input.CategoryID == nil || *input.CategoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category_id is required")
	}
	if err := s.checkCategory(ctx, userID, *input.CategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	budget := domain.Budget{
		UserID:    userID,
		StartDate: now,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyBudgetInput(&budget, input)

	budget, err := domain.NewBudget(budget)
	if err != nil {
		return nil, validationError(err)
	}

	created, err := s.budgets.Create(ctx, budget)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &created, nil
}

// GetUserBudgets lists a user's budgets, optionally only the active ones.
func (s *budgetService) GetUserBudgets(ctx context.Context, userID string, activeOnly bool) ([]domain.Budget, error) {
	list := s.budgets.ListByUser
	if activeOnly {
		list = s.budgets.ListActiveByUser
	}
	budgets, err := list(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID retrieves a single budget belonging to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgets.GetByID(ctx, budgetID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}
	if budget.UserID != userID {
		return nil, apperrors.ErrBudgetNotFound
	}
	return &budget, nil
}

// UpdateBudget merges input into an existing budget and revalidates it.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, input BudgetInput) (*domain.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != budget.CategoryID {
		if err := s.checkCategory(ctx, userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	applyBudgetInput(budget, input)
	budget.UpdatedAt = s.now()

	validated, err := domain.NewBudget(*budget)
	if err != nil {
		return nil, validationError(err)
	}

	updated, err := s.budgets.Update(ctx, validated)
	if err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}
	return &updated, nil
}

// DeleteBudget removes a budget. Transactions linked to it keep the ID.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if _, err := s.GetBudgetByID(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.budgets.Delete(ctx, budgetID); err != nil {
		return storeError(err, apperrors.ErrBudgetNotFound)
	}
	return nil
}

// GetBudgetStatus calculates spending for the budget's current period. Only
// transactions linked to the budget count, by absolute amount.
func (s *budgetService) GetBudgetStatus(ctx context.Context, userID, budgetID string) (*BudgetStatus, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.status(ctx, *budget)
}

func (s *budgetService) status(ctx context.Context, budget domain.Budget) (*BudgetStatus, error) {
	start, end := budget.PeriodWindow(s.now())

	txs, err := s.transactions.ListByUserInPeriod(ctx, budget.UserID, start, end)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var spent int64
	count := 0
	for _, tx := range txs {
		if !tx.InBudget(budget.ID) {
			continue
		}
		spent += absCents(tx.AmountCents)
		count++
	}

	return &BudgetStatus{
		Budget:           budget,
		PeriodStart:      start,
		PeriodEnd:        end,
		SpentCents:       spent,
		RemainingCents:   budget.AmountCents - spent,
		PercentageUsed:   percentage(spent, budget.AmountCents),
		IsOverBudget:     spent > budget.AmountCents,
		ShouldAlert:      budget.ShouldAlert(spent),
		TransactionCount: count,
	}, nil
}

// GetDashboard groups the statuses of all active budgets under their active
// categories. Categories without active budgets are left out.
func (s *budgetService) GetDashboard(ctx context.Context, userID string) (*BudgetDashboard, error) {
	categories, err := s.categories.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budgets, err := s.budgets.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byCategory := make(map[string][]domain.Budget)
	for _, b := range budgets {
		byCategory[b.CategoryID] = append(byCategory[b.CategoryID], b)
	}

	dashboard := &BudgetDashboard{Categories: []CategoryBudgetSummary{}}
	for _, category := range categories {
		categoryBudgets := byCategory[category.ID]
		if len(categoryBudgets) == 0 {
			continue
		}

		summary := CategoryBudgetSummary{
			CategoryID:    category.ID,
			CategoryName:  category.Name,
			CategoryIcon:  category.Icon,
			CategoryColor: category.Color,
		}
		for _, b := range categoryBudgets {
			status, err := s.status(ctx, b)
			if err != nil {
				return nil, err
			}
			summary.Budgets = append(summary.Budgets, *status)
			summary.TotalBudgetCents += b.AmountCents
			summary.TotalSpentCents += status.SpentCents
			if status.IsOverBudget {
				summary.HasOverBudget = true
				dashboard.OverBudgetCount++
			}
			if status.ShouldAlert {
				dashboard.AlertCount++
			}
		}
		summary.TotalRemainingCents = summary.TotalBudgetCents - summary.TotalSpentCents
		summary.OverallPercentageUsed = percentage(summary.TotalSpentCents, summary.TotalBudgetCents)

		dashboard.TotalBudgetCents += summary.TotalBudgetCents
		dashboard.TotalSpentCents += summary.TotalSpentCents
		dashboard.Categories = append(dashboard.Categories, summary)
	}

	return dashboard, nil
}

// GetSpendingSummary totals the user's transactions in [from, to] by
// category and by budget. Amounts keep their sign so refunds net out.
func (s *budgetService) GetSpendingSummary(ctx context.Context, userID string, from, to time.Time) (*SpendingSummary, error) {
	if to.Before(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}

	txs, err := s.transactions.ListByUserInPeriod(ctx, userID, from, to)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &SpendingSummary{From: from, To: to}
	categories := make(map[string]*SpendingBucket)
	budgets := make(map[string]*SpendingBucket)
	for _, tx := range txs {
		summary.TotalCents += tx.AmountCents
		addToBucket(categories, deref(tx.CategoryID), tx.AmountCents)
		addToBucket(budgets, deref(tx.BudgetID), tx.AmountCents)
	}
	summary.ByCategory = sortedBuckets(categories)
	summary.ByBudget = sortedBuckets(budgets)
	return summary, nil
}

func (s *budgetService) checkCategory(ctx context.Context, userID, categoryID string) error {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return storeError(err, apperrors.ErrCategoryNotFound)
	}
	if category.UserID != userID {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func applyBudgetInput(b *domain.Budget, input BudgetInput) {
	if input.CategoryID != nil {
		b.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		b.Name = strings.TrimSpace(*input.Name)
	}
	if input.AmountCents != nil {
		b.AmountCents = *input.AmountCents
	}
	if input.Currency != nil {
		b.Currency = *input.Currency
	}
	if input.Period != nil {
		b.Period = *input.Period
	}
	if input.StartDate != nil {
		b.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		end := input.EndDate.UTC()
		b.EndDate = &end
	}
	if input.AlertThreshold != nil {
		threshold := *input.AlertThreshold
		b.AlertThreshold = &threshold
	}
	if input.IsActive != nil {
		b.IsActive = *input.IsActive
	}
}

// percentage returns part/whole*100 rounded to two decimals, or 0 when whole
// is 0.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}

func absCents(c int64) int64 {
	if c < 0 {
		return -c
	}
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func addToBucket(buckets map[string]*SpendingBucket, id string, cents int64) {
	b, ok := buckets[id]
	if !ok {
		b = &SpendingBucket{ID: id}
		buckets[id] = b
	}
	b.TotalCents += cents
	b.TransactionCount++
}

func sortedBuckets(buckets map[string]*SpendingBucket) []SpendingBucket {
	out := make([]SpendingBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
