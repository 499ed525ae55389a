package categorization

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"budgetwise/internal/domain"
	"budgetwise/internal/logger"
)

const (
	// DefaultBaseURL is the OpenRouter chat completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	// DefaultModel is a fast, inexpensive model that follows JSON
	// instructions well.
	DefaultModel = "mistralai/mistral-small"
	// DefaultInvoiceModel is a vision model used to read receipts.
	DefaultInvoiceModel = "google/gemini-2.0-flash-lite-001"

	provider           = "openrouter"
	noneCategory       = "NONE"
	invoiceTemperature = 0.1
	invoiceMaxTokens   = 800
)

// ErrMissingAPIKey is returned by NewOpenRouter without an API key.
var ErrMissingAPIKey = errors.New("openrouter API key is required")

// CallRecorder stores a record of every model call. Recording failures
// never fail the call itself.
type CallRecorder interface {
	RecordLLMCall(ctx context.Context, call domain.LLMCall) error
}

// Config configures the OpenRouter client.
type Config struct {
	APIKey       string
	Model        string
	InvoiceModel string
	BaseURL      string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	Recorder     CallRecorder
}

// OpenRouter categorizes transactions and reads invoices through the
// OpenRouter API.
type OpenRouter struct {
	httpClient   *http.Client
	apiKey       string
	model        string
	invoiceModel string
	baseURL      string
	temperature  float64
	maxTokens    int
	recorder     CallRecorder
	now          func() time.Time
}

// NewOpenRouter creates an OpenRouter client, filling in defaults for unset
// fields.
func NewOpenRouter(cfg Config) (*OpenRouter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.InvoiceModel == "" {
		cfg.InvoiceModel = DefaultInvoiceModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 200
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &OpenRouter{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		invoiceModel: cfg.InvoiceModel,
		baseURL:      cfg.BaseURL,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		recorder:     cfg.Recorder,
		now:          time.Now,
	}, nil
}

// chatMessage content is a string, or a list of contentParts for images.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage,omitempty"`
}

type categoryAnswer struct {
	CategoryID string `json:"categoryId"`
	Reasoning  string `json:"reasoning"`
}

// Categorize asks the model to choose one of categories for the note. It
// returns an empty category ID when the model answers NONE or names a
// category that is not in the list. The call is recorded against userID.
func (c *OpenRouter) Categorize(ctx context.Context, userID, note string, amountCents int64, categories []domain.Category) (string, string, error) {
	if strings.TrimSpace(note) == "" || len(categories) == 0 {
		return "", "", nil
	}

	call := c.startCall(userID, c.model, domain.LLMCallAutoCategorize, map[string]any{
		"note":         note,
		"amount_cents": amountCents,
		"categories":   len(categories),
	})
	content, usage, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(categories)},
			{Role: "user", Content: userPrompt(note, amountCents)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.finishCall(ctx, call, nil, usage, err)
		return "", "", err
	}

	answer, err := parseAnswer(content)
	if err != nil {
		c.finishCall(ctx, call, nil, usage, err)
		return "", "", err
	}

	categoryID := ""
	if !strings.EqualFold(answer.CategoryID, noneCategory) {
		for _, cat := range categories {
			if cat.ID == answer.CategoryID {
				categoryID = cat.ID
				break
			}
		}
	}
	c.finishCall(ctx, call, map[string]any{"category_id": categoryID, "reasoning": answer.Reasoning}, usage, nil)
	return categoryID, answer.Reasoning, nil
}

// invoiceAnswer is the JSON shape the model is asked for. Amounts are in
// cents but models sometimes send them as floats.
type invoiceAnswer struct {
	Merchant      string   `json:"merchant"`
	Date          string   `json:"date"`
	Total         float64  `json:"total"`
	Tax           *float64 `json:"tax"`
	Subtotal      *float64 `json:"subtotal"`
	InvoiceNumber string   `json:"invoiceNumber"`
	Items         []struct {
		Description string   `json:"description"`
		Quantity    *float64 `json:"quantity"`
		Price       *float64 `json:"price"`
		CategoryID  string   `json:"categoryId"`
	} `json:"items"`
	PaymentMethod     string  `json:"paymentMethod"`
	SuggestedCategory string  `json:"suggestedCategory"`
	Description       string  `json:"description"`
	Confidence        float64 `json:"confidence"`
}

var dataURIPrefix = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)

// ParseInvoice reads a receipt image. imageBase64 may carry a data URI
// prefix. Category suggestions are limited to categories. It returns
// domain.ErrInvalidInvoiceImage for data that is not base64 and
// domain.ErrUnreadableInvoice when the model cannot find the merchant,
// date and total.
func (c *OpenRouter) ParseInvoice(ctx context.Context, userID, imageBase64 string, categories []domain.Category) (*domain.ParsedInvoice, error) {
	mimeType := "image/jpeg"
	data := strings.TrimSpace(imageBase64)
	if m := dataURIPrefix.FindStringSubmatch(data); m != nil {
		mimeType = m[1]
		data = data[len(m[0]):]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(decoded) == 0 {
		return nil, domain.ErrInvalidInvoiceImage
	}

	call := c.startCall(userID, c.invoiceModel, domain.LLMCallAutoInvoice, map[string]any{
		"image_type":  mimeType,
		"image_bytes": len(decoded),
		"categories":  len(categories),
	})
	content, usage, err := c.complete(ctx, chatRequest{
		Model: c.invoiceModel,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: invoicePrompt(categories)},
				{Type: "image_url", ImageURL: &imageURL{URL: "data:" + mimeType + ";base64," + data}},
			},
		}},
		Temperature: invoiceTemperature,
		MaxTokens:   invoiceMaxTokens,
	})
	if err != nil {
		c.finishCall(ctx, call, nil, usage, err)
		return nil, err
	}

	var answer invoiceAnswer
	if err := decodeJSON(content, &answer); err != nil {
		c.finishCall(ctx, call, nil, usage, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableInvoice, err)
	}
	if strings.TrimSpace(answer.Merchant) == "" || strings.TrimSpace(answer.Date) == "" || answer.Total == 0 {
		err := fmt.Errorf("%w: merchant, date and total are required", domain.ErrUnreadableInvoice)
		c.finishCall(ctx, call, nil, usage, err)
		return nil, err
	}

	invoice := answer.toDomain(categories)
	c.finishCall(ctx, call, invoice, usage, nil)
	return invoice, nil
}

func (a invoiceAnswer) toDomain(categories []domain.Category) *domain.ParsedInvoice {
	known := make(map[string]bool, len(categories))
	for _, cat := range categories {
		known[cat.ID] = true
	}

	inv := &domain.ParsedInvoice{
		Merchant:          strings.TrimSpace(a.Merchant),
		Date:              strings.TrimSpace(a.Date),
		TotalCents:        roundCents(a.Total),
		TaxCents:          optionalCents(a.Tax),
		SubtotalCents:     optionalCents(a.Subtotal),
		InvoiceNumber:     a.InvoiceNumber,
		PaymentMethod:     a.PaymentMethod,
		SuggestedCategory: a.SuggestedCategory,
		Description:       a.Description,
		Confidence:        math.Max(0, math.Min(1, a.Confidence)),
	}
	if inv.Description == "" {
		inv.Description = inv.Merchant
	}
	for _, cat := range categories {
		if a.SuggestedCategory != "" && (strings.EqualFold(cat.Name, a.SuggestedCategory) || cat.ID == a.SuggestedCategory) {
			inv.SuggestedCategoryID = cat.ID
			inv.SuggestedCategory = cat.Name
			break
		}
	}
	for _, item := range a.Items {
		line := domain.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			PriceCents:  optionalCents(item.Price),
		}
		if known[item.CategoryID] {
			line.CategoryID = item.CategoryID
		}
		inv.Items = append(inv.Items, line)
	}
	return inv
}

func roundCents(v float64) int64 { return int64(math.Round(v)) }

func optionalCents(v *float64) *int64 {
	if v == nil {
		return nil
	}
	cents := roundCents(*v)
	return &cents
}

// complete sends one chat request and returns the first choice's content.
// Usage is returned whenever the API reported it.
func (c *OpenRouter) complete(ctx context.Context, chat chatRequest) (string, *chatUsage, error) {
	body, err := json.Marshal(chat)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Title", "BudgetWise")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("openrouter API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var completion chatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", completion.Usage, errors.New("no completion choices returned")
	}
	return completion.Choices[0].Message.Content, completion.Usage, nil
}

// startCall begins an LLM call record, or returns nil when calls are not
// recorded.
func (c *OpenRouter) startCall(userID, model string, callType domain.LLMCallType, request any) *domain.LLMCall {
	if c.recorder == nil || userID == "" {
		return nil
	}
	payload, _ := json.Marshal(request)
	return &domain.LLMCall{
		UserID:         userID,
		Provider:       provider,
		Model:          model,
		CallType:       callType,
		RequestPayload: payload,
		CreatedAt:      c.now().UTC(),
	}
}

func (c *OpenRouter) finishCall(ctx context.Context, call *domain.LLMCall, response any, usage *chatUsage, callErr error) {
	if call == nil {
		return
	}
	call.DurationMs = c.now().UTC().Sub(call.CreatedAt).Milliseconds()
	if usage != nil {
		call.PromptTokens = usage.PromptTokens
		call.CompletionTokens = usage.CompletionTokens
		call.TotalTokens = usage.TotalTokens
		call.EstimatedCostCents = domain.EstimateLLMCostCents(call.Model, usage.PromptTokens, usage.CompletionTokens)
	}
	if callErr != nil {
		call.Status = domain.LLMCallError
		call.ErrorMessage = callErr.Error()
	} else {
		call.Status = domain.LLMCallSuccess
		call.ResponsePayload, _ = json.Marshal(response)
	}

	if err := c.recorder.RecordLLMCall(context.WithoutCancel(ctx), *call); err != nil {
		logger.Named("llm").Warnw("Failed to record LLM call",
			"call_type", call.CallType,
			"user_id", call.UserID,
			"error", err,
		)
	}
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// decodeJSON decodes the model's JSON answer into v, tolerating a markdown
// code fence around it.
func decodeJSON(content string, v any) error {
	content = strings.TrimSpace(content)
	if m := codeFence.FindStringSubmatch(content); m != nil {
		content = m[1]
	}
	if content == "" {
		return errors.New("empty completion")
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("failed to parse JSON answer: %w", err)
	}
	return nil
}

func parseAnswer(content string) (categoryAnswer, error) {
	var answer categoryAnswer
	if err := decodeJSON(content, &answer); err != nil {
		return categoryAnswer{}, err
	}
	return answer, nil
}

func systemPrompt(categories []domain.Category) string {
	var b strings.Builder
	b.WriteString("You categorize personal finance transactions. Pick the single best category ")
	b.WriteString("for the transaction from the list below.\n\n")
	b.WriteString("Respond with ONLY a JSON object of the form ")
	b.WriteString(`{"categoryId": "<ID>", "reasoning": "<one sentence>"}` + "\n")
	b.WriteString("categoryId must be copied exactly from the ID field, never the category name. ")
	b.WriteString(`If no category fits, use "NONE" as the categoryId.` + "\n\n")
	b.WriteString("Available categories (ID | Name):\n")
	writeCategories(&b, categories)
	return b.String()
}

func userPrompt(note string, amountCents int64) string {
	amount := math.Abs(float64(amountCents)) / 100
	return fmt.Sprintf("Categorize this transaction:\nDescription: %q\nAmount: %.2f\n\nRespond with ONLY the JSON object.", note, amount)
}

func invoicePrompt(categories []domain.Category) string {
	var b strings.Builder
	b.WriteString("You read invoices and receipts. Extract the transaction details from the image.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Return ONLY a JSON object, no other text.\n")
	b.WriteString("2. All monetary amounts are integers in CENTS (multiply by 100).\n")
	b.WriteString("3. date is YYYY-MM-DD.\n")
	b.WriteString("4. Omit fields you cannot find.\n")
	b.WriteString("5. suggestedCategory is a category name from the list below, or null. ")
	b.WriteString("Item categoryId values must be copied from the ID field.\n")
	b.WriteString("6. confidence is between 0 and 1.\n\n")
	b.WriteString(`Format: {"merchant": "", "date": "YYYY-MM-DD", "total": 0, "tax": 0, "subtotal": 0, `)
	b.WriteString(`"invoiceNumber": "", "items": [{"description": "", "quantity": 1, "price": 0, "categoryId": ""}], `)
	b.WriteString(`"paymentMethod": "", "suggestedCategory": "", "description": "", "confidence": 0.0}` + "\n\n")
	b.WriteString("Available categories (ID | Name):\n")
	writeCategories(&b, categories)
	return b.String()
}

func writeCategories(b *strings.Builder, categories []domain.Category) {
	for _, cat := range categories {
		fmt.Fprintf(b, "ID: %s | Name: %s", cat.ID, cat.Name)
		if cat.Icon != "" {
			b.WriteString(" " + cat.Icon)
		}
		b.WriteString("\n")
	}
}
