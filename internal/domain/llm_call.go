package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidLLMCall is wrapped by every LLM call validation failure.
var ErrInvalidLLMCall = errors.New("invalid llm call")

// LLMCallType names the feature that made an LLM call.
type LLMCallType string

const (
	LLMCallAutoCategorize LLMCallType = "auto_categorize"
	LLMCallAutoInvoice    LLMCallType = "auto_invoice"
)

// Valid reports whether t is a known call type.
func (t LLMCallType) Valid() bool {
	return t == LLMCallAutoCategorize || t == LLMCallAutoInvoice
}

// LLMCallStatus is the outcome of an LLM call.
type LLMCallStatus string

const (
	LLMCallSuccess LLMCallStatus = "success"
	LLMCallError   LLMCallStatus = "error"
)

// LLMCall records one request to a language model, for usage and cost
// tracking. Payloads are JSON documents; image data is never stored.
type LLMCall struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Provider           string          `json:"provider"`
	Model              string          `json:"model"`
	CallType           LLMCallType     `json:"call_type"`
	RequestPayload     json.RawMessage `json:"request_payload,omitempty"`
	ResponsePayload    json.RawMessage `json:"response_payload,omitempty"`
	PromptTokens       int             `json:"prompt_tokens"`
	CompletionTokens   int             `json:"completion_tokens"`
	TotalTokens        int             `json:"total_tokens"`
	EstimatedCostCents int64           `json:"estimated_cost_cents"`
	Status             LLMCallStatus   `json:"status"`
	ErrorMessage       string          `json:"error_message,omitempty"`
	DurationMs         int64           `json:"duration_ms"`
	CreatedAt          time.Time       `json:"created_at"`
}

// NewLLMCall validates c and returns it.
func NewLLMCall(c LLMCall) (LLMCall, error) {
	switch {
	case c.UserID == "":
		return LLMCall{}, fmt.Errorf("%w: user is required", ErrInvalidLLMCall)
	case c.Provider == "":
		return LLMCall{}, fmt.Errorf("%w: provider is required", ErrInvalidLLMCall)
	case c.Model == "":
		return LLMCall{}, fmt.Errorf("%w: model is required", ErrInvalidLLMCall)
	case !c.CallType.Valid():
		return LLMCall{}, fmt.Errorf("%w: unknown call type %q", ErrInvalidLLMCall, c.CallType)
	case c.Status != LLMCallSuccess && c.Status != LLMCallError:
		return LLMCall{}, fmt.Errorf("%w: unknown status %q", ErrInvalidLLMCall, c.Status)
	case c.PromptTokens < 0 || c.CompletionTokens < 0 || c.TotalTokens < 0 || c.DurationMs < 0:
		return LLMCall{}, fmt.Errorf("%w: counters cannot be negative", ErrInvalidLLMCall)
	}
	return c, nil
}

// LLMUsage aggregates a user's LLM calls.
type LLMUsage struct {
	TotalCalls      int64 `json:"total_calls"`
	SuccessfulCalls int64 `json:"successful_calls"`
	FailedCalls     int64 `json:"failed_calls"`
	TotalTokens     int64 `json:"total_tokens"`
	TotalCostCents  int64 `json:"total_cost_cents"`
}

// Add counts c into u.
func (u *LLMUsage) Add(c LLMCall) {
	u.TotalCalls++
	if c.Status == LLMCallSuccess {
		u.SuccessfulCalls++
	} else {
		u.FailedCalls++
	}
	u.TotalTokens += int64(c.TotalTokens)
	u.TotalCostCents += c.EstimatedCostCents
}

// ModelPricing is a model's price in USD per million tokens.
type ModelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// modelPricing lists the OpenRouter models the app is configured with.
// Free models are listed at zero.
var modelPricing = map[string]ModelPricing{
	"mistralai/mistral-small":          {InputPerMillion: 0.20, OutputPerMillion: 0.60},
	"google/gemini-2.0-flash-exp:free": {},
	"google/gemini-2.0-flash-001":      {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"google/gemini-2.0-flash-lite-001": {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"google/gemini-flash-1.5":          {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"google/gemini-pro-1.5":            {InputPerMillion: 1.25, OutputPerMillion: 5.00},
	"anthropic/claude-3-haiku":         {InputPerMillion: 0.25, OutputPerMillion: 1.25},
	"anthropic/claude-3-sonnet":        {InputPerMillion: 3.00, OutputPerMillion: 15.00},
	"anthropic/claude-3-opus":          {InputPerMillion: 15.00, OutputPerMillion: 75.00},
}

// EstimateLLMCostCents prices a call in US cents, rounded to the nearest
// cent. Unknown models cost nothing.
func EstimateLLMCostCents(model string, promptTokens, completionTokens int) int64 {
	p, ok := modelPricing[model]
	if !ok {
		return 0
	}
	usd := float64(promptTokens)/1e6*p.InputPerMillion + float64(completionTokens)/1e6*p.OutputPerMillion
	return int64(math.Round(usd * 100))
}
