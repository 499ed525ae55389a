package services

import (
	"context"
	"errors"
	"strings"

	"budgetwise/internal/csvimport"
	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/pagination"
	"budgetwise/internal/repository"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	budgets      repository.BudgetRepository
	categorizer  Categorizer
	invoices     InvoiceParser
	queue        CategorizationQueue
	now          Clock
}

// TransactionOption configures a transaction service.
type TransactionOption func(*transactionService)

// WithCategorizer enables automatic categorization with c.
func WithCategorizer(c Categorizer) TransactionOption {
	return func(s *transactionService) { s.categorizer = c }
}

// WithInvoiceParser enables receipt parsing with p.
func WithInvoiceParser(p InvoiceParser) TransactionOption {
	return func(s *transactionService) { s.invoices = p }
}

// WithCategorizationQueue makes imports enqueue categorization jobs instead
// of categorizing inline.
func WithCategorizationQueue(q CategorizationQueue) TransactionOption {
	return func(s *transactionService) { s.queue = q }
}

// WithClock overrides the service clock.
func WithClock(now Clock) TransactionOption {
	return func(s *transactionService) { s.now = now }
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(store repository.Store, opts ...TransactionOption) TransactionServicer {
	s := &transactionService{
		transactions: store.Transactions,
		categories:   store.Categories,
		budgets:      store.Budgets,
		now:          utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTransaction records a single transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, input NewTransactionInput) (*domain.Transaction, error) {
	tx, err := s.create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *transactionService) create(ctx context.Context, userID string, input NewTransactionInput) (domain.Transaction, error) {
	if err := s.checkReferences(ctx, userID, input.BudgetID, input.CategoryID); err != nil {
		return domain.Transaction{}, err
	}

	now := s.now()
	tx, err := domain.NewTransaction(domain.Transaction{
		UserID:      userID,
		BudgetID:    nonEmpty(input.BudgetID),
		CategoryID:  nonEmpty(input.CategoryID),
		AmountCents: input.AmountCents,
		Note:        input.Note,
		OccurredAt:  input.OccurredAt.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return domain.Transaction{}, validationError(err)
	}

	created, err := s.transactions.Create(ctx, tx)
	if err != nil {
		return domain.Transaction{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return created, nil
}

// GetUserTransactions retrieves a paginated, newest-first list of the user's
// transactions.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[domain.Transaction], error) {
	page = page.Normalize()

	txs, total, err := s.transactions.ListByUser(ctx, userID, repository.TransactionFilter{
		From:       filter.FromDate,
		To:         filter.ToDate,
		CategoryID: filter.CategoryID,
		BudgetID:   filter.BudgetID,
		Limit:      page.PageSize,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txs, page, total)
	return &result, nil
}

// GetTransactionByID retrieves a transaction belonging to the user.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	if tx.UserID != userID {
		return nil, apperrors.ErrTransactionNotFound
	}
	return &tx, nil
}

// UpdateTransaction merges changes into an existing transaction.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID string, changes domain.TransactionChanges) (*domain.Transaction, error) {
	existing, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, changes.BudgetID, changes.CategoryID); err != nil {
		return nil, err
	}
	if changes.OccurredAt != nil {
		at := changes.OccurredAt.UTC()
		changes.OccurredAt = &at
	}

	next, err := existing.Apply(changes, s.now())
	if err != nil {
		return nil, validationError(err)
	}

	updated, err := s.transactions.Update(ctx, next)
	if err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction belonging to the user.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	if _, err := s.GetTransactionByID(ctx, userID, transactionID); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, transactionID); err != nil {
		return storeError(err, apperrors.ErrTransactionNotFound)
	}
	return nil
}

// CategorizeTransaction asks the categorizer for a category and stores it.
// It returns nil without error when the transaction is already categorized,
// has no note, the user has no active categories, or no category fits.
func (s *transactionService) CategorizeTransaction(ctx context.Context, userID, transactionID string) (*CategorizationResult, error) {
	if s.categorizer == nil {
		return nil, apperrors.ErrCategorizationUnavailable
	}

	tx, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.IsCategorized() || tx.Note == "" {
		return nil, nil
	}

	categories, err := s.categories.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(categories) == 0 {
		return nil, nil
	}

	categoryID, reasoning, err := s.categorizer.Categorize(ctx, userID, tx.Note, tx.AmountCents, categories)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCategorizationUnavailable, err)
	}
	if categoryID == "" {
		return nil, nil
	}
	if !containsCategory(categories, categoryID) {
		logger.Get().Warnw("categorizer returned unknown category",
			"transaction_id", tx.ID,
			"category_id", categoryID,
		)
		return nil, nil
	}

	updated, err := tx.Apply(domain.TransactionChanges{CategoryID: &categoryID}, s.now())
	if err != nil {
		return nil, validationError(err)
	}
	updated, err = s.transactions.Update(ctx, updated)
	if err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}

	logger.Get().Infow("categorized transaction",
		"transaction_id", tx.ID,
		"category_id", categoryID,
		"reasoning", reasoning,
	)
	return &CategorizationResult{Transaction: updated, CategoryID: categoryID, Reasoning: reasoning}, nil
}

// BulkImport stores each input independently. A failing row is reported in
// Errors and does not stop the import. If ctx is cancelled the rows stored so
// far are returned along with the context error. Uncategorized rows with a note are
// categorized when a categorizer or queue is configured.
func (s *transactionService) BulkImport(ctx context.Context, userID string, inputs []NewTransactionInput) (*BulkImportResult, error) {
	result := &BulkImportResult{
		Total:   len(inputs),
		Success: []domain.Transaction{},
		Errors:  []ImportError{},
	}

	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			result.Imported = len(result.Success)
			result.Failed = len(result.Errors)
			logger.Get().Warnw("bulk import interrupted",
				"user_id", userID,
				"imported", result.Imported,
				"remaining", len(inputs)-i,
				"error", err,
			)
			return result, err
		}

		tx, err := s.create(ctx, userID, input)
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Index: i, Error: importErrorMessage(err), Data: input})
			continue
		}
		if !tx.IsCategorized() && tx.Note != "" {
			tx = s.autoCategorize(ctx, tx)
		}
		result.Success = append(result.Success, tx)
	}

	result.Imported = len(result.Success)
	result.Failed = len(result.Errors)

	logger.Get().Infow("bulk import finished",
		"user_id", userID,
		"imported", result.Imported,
		"failed", result.Failed,
	)
	return result, nil
}

// ImportCSV parses raw CSV text and bulk imports the valid rows. With dryRun
// set nothing is stored.
func (s *transactionService) ImportCSV(ctx context.Context, userID, raw string, dryRun bool) (*CSVImportResult, error) {
	parsed, err := csvimport.Parse(raw)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidCSV, err.Error())
	}

	inputs := make([]NewTransactionInput, 0, len(parsed.Transactions))
	for _, t := range parsed.Transactions {
		inputs = append(inputs, NewTransactionInput{
			BudgetID:    t.BudgetID,
			AmountCents: t.AmountCents,
			Note:        t.Note,
			OccurredAt:  t.OccurredAt,
		})
	}

	result := &CSVImportResult{
		DryRun:      dryRun,
		ParseErrors: parsed.Errors,
		RawRows:     parsed.RawRows,
	}
	if dryRun {
		result.Parsed = parsed.Transactions
		result.Total = len(inputs)
		result.Success = []domain.Transaction{}
		result.Errors = []ImportError{}
		return result, nil
	}

	imported, err := s.BulkImport(ctx, userID, inputs)
	if imported != nil {
		result.BulkImportResult = *imported
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// ParseInvoice reads a receipt image into a draft transaction, suggesting
// one of the user's active categories. Nothing is stored.
func (s *transactionService) ParseInvoice(ctx context.Context, userID, imageBase64 string) (*domain.ParsedInvoice, error) {
	if s.invoices == nil {
		return nil, apperrors.ErrInvoiceParsingUnavailable
	}
	if strings.TrimSpace(imageBase64) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing image data")
	}

	categories, err := s.categories.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	invoice, err := s.invoices.ParseInvoice(ctx, userID, imageBase64, categories)
	switch {
	case errors.Is(err, domain.ErrInvalidInvoiceImage):
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Image data must be base64 encoded")
	case errors.Is(err, domain.ErrUnreadableInvoice):
		return nil, apperrors.Wrap(apperrors.ErrInvoiceUnreadable, err)
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInvoiceParsingUnavailable, err)
	}

	logger.Get().Infow("parsed invoice",
		"user_id", userID,
		"merchant", invoice.Merchant,
		"total_cents", invoice.TotalCents,
		"confidence", invoice.Confidence,
	)
	return invoice, nil
}

// autoCategorize categorizes tx or queues it. Failures are logged and the
// original transaction is returned.
func (s *transactionService) autoCategorize(ctx context.Context, tx domain.Transaction) domain.Transaction {
	switch {
	case s.queue != nil:
		if err := s.queue.Enqueue(ctx, tx.UserID, tx.ID); err != nil {
			logger.Get().Warnw("failed to enqueue categorization", "transaction_id", tx.ID, "error", err)
		}
	case s.categorizer != nil:
		result, err := s.CategorizeTransaction(ctx, tx.UserID, tx.ID)
		if err != nil {
			logger.Get().Warnw("auto-categorization failed", "transaction_id", tx.ID, "error", err)
			return tx
		}
		if result != nil {
			return result.Transaction
		}
	}
	return tx
}

func (s *transactionService) checkReferences(ctx context.Context, userID string, budgetID, categoryID *string) error {
	if budgetID != nil && *budgetID != "" {
		budget, err := s.budgets.GetByID(ctx, *budgetID)
		if err != nil {
			return storeError(err, apperrors.ErrBudgetNotFound)
		}
		if budget.UserID != userID {
			return apperrors.ErrBudgetNotFound
		}
	}
	if categoryID != nil && *categoryID != "" {
		category, err := s.categories.GetByID(ctx, *categoryID)
		if err != nil {
			return storeError(err, apperrors.ErrCategoryNotFound)
		}
		if category.UserID != userID {
			return apperrors.ErrCategoryNotFound
		}
	}
	return nil
}

func containsCategory(categories []domain.Category, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func importErrorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
