package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/pagination"
	"budgetwise/internal/services"
)

// DefaultMaxImportBytes bounds CSV uploads when no limit is configured.
const DefaultMaxImportBytes int64 = 5 << 20

// maxInvoiceBodyBytes bounds parse-invoice requests; base64 adds a third to
// the image size.
const maxInvoiceBodyBytes int64 = 14 << 20

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
	maxImportBytes     int64
}

// NewTransactionHandler creates a new TransactionHandler. CSV uploads larger
// than maxImportBytes are rejected; zero selects DefaultMaxImportBytes.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer, maxImportBytes int64) *TransactionHandler {
	if maxImportBytes <= 0 {
		maxImportBytes = DefaultMaxImportBytes
	}
	return &TransactionHandler{
		transactionService: transactionService,
		auditService:       auditService,
		maxImportBytes:     maxImportBytes,
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	BudgetID    *string `json:"budget_id" binding:"omitempty,uuid"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	AmountCents int64   `json:"amount_cents" binding:"required"`
	Note        string  `json:"note" binding:"max=500"`
	OccurredAt  *string `json:"occurred_at"`
}

// UpdateTransactionRequest represents the request payload for updating a
// transaction. An empty budget_id or category_id unlinks it.
type UpdateTransactionRequest struct {
	BudgetID    *string `json:"budget_id" binding:"omitempty,uuid|eq="`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid|eq="`
	AmountCents *int64  `json:"amount_cents"`
	Note        *string `json:"note" binding:"omitempty,max=500"`
	OccurredAt  *string `json:"occurred_at"`
}

// BulkTransactionItem is one entry of a bulk import.
type BulkTransactionItem struct {
	BudgetID    *string `json:"budget_id"`
	CategoryID  *string `json:"category_id"`
	AmountCents int64   `json:"amount_cents"`
	Note        string  `json:"note"`
	OccurredAt  string  `json:"occurred_at"`
}

// BulkImportRequest carries transactions to import in one call. Items are
// validated one by one; invalid items are reported, not rejected as a whole.
type BulkImportRequest struct {
	Transactions []BulkTransactionItem `json:"transactions" binding:"required,min=1,max=1000,dive"`
}

// ParseInvoiceRequest carries a receipt image, optionally as a data URI.
type ParseInvoiceRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// ParseInvoiceResponse wraps the draft read from a receipt.
type ParseInvoiceResponse struct {
	Invoice *domain.ParsedInvoice `json:"invoice"`
}

func (r CreateTransactionRequest) toInput(now time.Time) (services.NewTransactionInput, error) {
	occurredAt := now
	if r.OccurredAt != nil && *r.OccurredAt != "" {
		parsed, err := parseFlexibleTime(*r.OccurredAt)
		if err != nil {
			return services.NewTransactionInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "occurred_at: "+err.Error())
		}
		occurredAt = parsed
	}
	return services.NewTransactionInput{
		BudgetID:    r.BudgetID,
		CategoryID:  r.CategoryID,
		AmountCents: r.AmountCents,
		Note:        r.Note,
		OccurredAt:  occurredAt,
	}, nil
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a transaction. Negative amounts are refunds or income.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} domain.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.toInput(time.Now().UTC())
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"amount_cents": transaction.AmountCents, "budget_id": transaction.BudgetID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions returns a page of the user's transactions
// @Summary     List transactions
// @Description Get a paginated list of transactions, newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       from_date   query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       category_id query string false "Filter by category ID"
// @Param       budget_id   query string false "Filter by budget ID"
// @Success     200 {object} pagination.PageResponse[domain.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if filter.FromDate, err = optionalTimeQuery(c, "from_date"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ToDate, err = optionalTimeQuery(c, "to_date"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.CategoryID, err = optionalIDQuery(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.BudgetID, err = optionalIDQuery(c, "budget_id"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionByID returns one transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} domain.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction changes a transaction
// @Summary     Update transaction
// @Description Update a transaction. Omitted fields are left unchanged; an empty budget_id or category_id unlinks it.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Changes"
// @Success     200 {object} domain.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction, budget or category not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	changes := domain.TransactionChanges{
		BudgetID:    req.BudgetID,
		CategoryID:  req.CategoryID,
		AmountCents: req.AmountCents,
		Note:        req.Note,
	}
	if req.OccurredAt != nil {
		at, err := parseFlexibleTime(*req.OccurredAt)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "occurred_at: "+err.Error()))
			return
		}
		changes.OccurredAt = &at
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, transactionID, changes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}

// CategorizeTransaction asks the categorizer for a category
// @Summary     Categorize transaction
// @Description Pick a category for an uncategorized transaction from its note. category_id is empty when none fits.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} services.CategorizationResult "Categorization"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     503 {object} ErrorResponse "Categorization unavailable"
// @Router      /transactions/{id}/categorize [post]
func (h *TransactionHandler) CategorizeTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := h.transactionService.CategorizeTransaction(ctx, userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if result == nil {
		// nothing to do: report the transaction as it is
		transaction, err := h.transactionService.GetTransactionByID(ctx, userID, transactionID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		result = &services.CategorizationResult{Transaction: *transaction}
		if transaction.CategoryID != nil {
			result.CategoryID = *transaction.CategoryID
		}
	} else {
		h.auditService.Log(ctx, userID, "CATEGORIZE_TRANSACTION", "transaction", transactionID, c.ClientIP(),
			map[string]any{"category_id": result.CategoryID})
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// BulkImport creates many transactions in one call
// @Summary     Bulk import transactions
// @Description Create up to 1000 transactions. Each item succeeds or fails on its own.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkImportRequest true "Transactions"
// @Success     200 {object} services.BulkImportResult "Import result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/bulk [post]
func (h *TransactionHandler) BulkImport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkImportRequest
	if !bindJSON(c, &req) {
		return
	}

	inputs := make([]services.NewTransactionInput, 0, len(req.Transactions))
	for i, item := range req.Transactions {
		occurredAt, err := parseFlexibleTime(item.OccurredAt)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"transactions["+strconv.Itoa(i)+"].occurred_at: "+err.Error()))
			return
		}
		inputs = append(inputs, services.NewTransactionInput{
			BudgetID:    item.BudgetID,
			CategoryID:  item.CategoryID,
			AmountCents: item.AmountCents,
			Note:        item.Note,
			OccurredAt:  occurredAt,
		})
	}

	result, err := h.transactionService.BulkImport(c.Request.Context(), userID, inputs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "BULK_IMPORT", "transaction", "", c.ClientIP(),
		map[string]any{"imported": result.Imported, "failed": result.Failed})

	c.JSON(http.StatusOK, result)
}

// ImportCSV parses an uploaded CSV file and imports its rows
// @Summary     Import transactions from CSV
// @Description Upload a CSV as multipart field "file" or as a text/csv body. With dry_run=true only the parse preview is returned.
// @Tags        transactions
// @Accept      multipart/form-data
// @Accept      text/csv
// @Produce     json
// @Security    BearerAuth
// @Param       file    formData file false "CSV file"
// @Param       dry_run query    bool false "Parse only, store nothing"
// @Success     200 {object} services.CSVImportResult "Import result"
// @Failure     400 {object} ErrorResponse "Invalid CSV"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     413 {object} ErrorResponse "File too large"
// @Router      /transactions/import/csv [post]
func (h *TransactionHandler) ImportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dryRun, err := boolQuery(c, "dry_run")
	if err != nil {
		respondWithError(c, err)
		return
	}

	raw, err := h.readCSV(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ImportCSV(c.Request.Context(), userID, raw, dryRun)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !dryRun {
		h.auditService.Log(c.Request.Context(), userID, "IMPORT_CSV", "transaction", "", c.ClientIP(),
			map[string]any{"imported": result.Imported, "failed": result.Failed, "parse_errors": len(result.ParseErrors)})
	}

	c.JSON(http.StatusOK, result)
}

// ParseInvoice reads a receipt image into a draft transaction
// @Summary     Parse an invoice image
// @Description Extract merchant, date, totals and line items from a receipt photo. Nothing is stored.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ParseInvoiceRequest true "Base64 image"
// @Success     200 {object} ParseInvoiceResponse "Parsed invoice"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     413 {object} ErrorResponse "Image too large"
// @Failure     422 {object} ErrorResponse "Invoice unreadable"
// @Failure     503 {object} ErrorResponse "Invoice parsing not available"
// @Router      /transactions/parse-invoice [post]
func (h *TransactionHandler) ParseInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxInvoiceBodyBytes)
	var req ParseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isTooLarge(err) {
			respondWithError(c, apperrors.ErrPayloadTooLarge)
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Missing image data"))
		return
	}

	invoice, err := h.transactionService.ParseInvoice(c.Request.Context(), userID, req.ImageBase64)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "PARSE_INVOICE", "transaction", "", c.ClientIP(),
		map[string]any{"merchant": invoice.Merchant, "total_cents": invoice.TotalCents})

	c.JSON(http.StatusOK, ParseInvoiceResponse{Invoice: invoice})
}

// readCSV returns the upload as a string, from the multipart "file" field
// or the raw body, rejecting anything over maxImportBytes.
func (h *TransactionHandler) readCSV(c *gin.Context) (string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImportBytes+64<<10)

	var src io.Reader = c.Request.Body
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				return "", apperrors.ErrPayloadTooLarge
			}
			return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "multipart field \"file\" is required")
		}
		if fileHeader.Size > h.maxImportBytes {
			return "", apperrors.ErrPayloadTooLarge
		}
		file, err := fileHeader.Open()
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		defer func() { _ = file.Close() }()
		src = file
	}

	data, err := io.ReadAll(io.LimitReader(src, h.maxImportBytes+1))
	if err != nil {
		if isTooLarge(err) {
			return "", apperrors.ErrPayloadTooLarge
		}
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "failed to read upload")
	}
	if int64(len(data)) > h.maxImportBytes {
		return "", apperrors.ErrPayloadTooLarge
	}
	return string(data), nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
