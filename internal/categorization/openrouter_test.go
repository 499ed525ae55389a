package categorization

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetwise/internal/domain"
)

var testCategories = []domain.Category{
	{ID: "cat-food", Name: "Groceries", Icon: "🛒"},
	{ID: "cat-travel", Name: "Transportation"},
}

// completionServer replies to every request with content as the model's
// message and records the last request body.
func completionServer(t *testing.T, status int, content string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"boom"}`))
			return
		}
		resp := map[string]any{
			"id": "gen-1",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 1_000_000, "completion_tokens": 500_000, "total_tokens": 1_500_000},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, url string) *OpenRouter {
	t.Helper()
	c, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: url})
	require.NoError(t, err)
	return c
}

type callLog struct {
	calls []domain.LLMCall
	err   error
}

func (l *callLog) RecordLLMCall(_ context.Context, call domain.LLMCall) error {
	l.calls = append(l.calls, call)
	return l.err
}

func newRecordingClient(t *testing.T, url string, log *callLog) *OpenRouter {
	t.Helper()
	c, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: url, Recorder: log})
	require.NoError(t, err)
	return c
}

func TestNewOpenRouter(t *testing.T) {
	_, err := NewOpenRouter(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	c, err := NewOpenRouter(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.model)
	assert.Equal(t, DefaultInvoiceModel, c.invoiceModel)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 200, c.maxTokens)
}

func TestCategorize(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		content       string
		wantID        string
		wantReasoning string
	}{
		{
			name:          "plain json",
			content:       `{"categoryId": "cat-food", "reasoning": "Supermarket purchase"}`,
			wantID:        "cat-food",
			wantReasoning: "Supermarket purchase",
		},
		{
			name:          "fenced json",
			content:       "```json\n{\"categoryId\": \"cat-travel\", \"reasoning\": \"Taxi\"}\n```",
			wantID:        "cat-travel",
			wantReasoning: "Taxi",
		},
		{
			name:          "none",
			content:       `{"categoryId": "NONE", "reasoning": "Unclear"}`,
			wantReasoning: "Unclear",
		},
		{
			name:    "unknown id",
			content: `{"categoryId": "Groceries", "reasoning": "used the name"}`,
			// names instead of IDs are rejected
			wantReasoning: "used the name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req chatRequest
			srv := completionServer(t, http.StatusOK, tt.content, &req)
			c := newTestClient(t, srv.URL)

			id, reasoning, err := c.Categorize(ctx, "user-1", "Whole Foods", -4599, testCategories)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantReasoning, reasoning)

			require.Len(t, req.Messages, 2)
			assert.Equal(t, DefaultModel, req.Model)
			assert.Contains(t, req.Messages[0].Content, "ID: cat-food | Name: Groceries 🛒")
			assert.Contains(t, req.Messages[1].Content, `"Whole Foods"`)
			assert.Contains(t, req.Messages[1].Content, "45.99")
		})
	}
}

func TestCategorizeErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("http error", func(t *testing.T) {
		srv := completionServer(t, http.StatusTooManyRequests, "", nil)
		_, _, err := newTestClient(t, srv.URL).Categorize(ctx, "user-1", "note", 100, testCategories)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("not json", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, "I think it is groceries", nil)
		_, _, err := newTestClient(t, srv.URL).Categorize(ctx, "user-1", "note", 100, testCategories)
		require.Error(t, err)
	})

	t.Run("empty content", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, "   ", nil)
		_, _, err := newTestClient(t, srv.URL).Categorize(ctx, "user-1", "note", 100, testCategories)
		require.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, "{}", nil)
		url := srv.URL
		srv.Close()
		_, _, err := newTestClient(t, url).Categorize(ctx, "user-1", "note", 100, testCategories)
		require.Error(t, err)
	})
}

func TestCategorizeSkipsWithoutInput(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	id, _, err := c.Categorize(context.Background(), "user-1", "  ", 100, testCategories)
	require.NoError(t, err)
	assert.Empty(t, id)

	id, _, err = c.Categorize(context.Background(), "user-1", "note", 100, nil)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.False(t, called)
}

func TestNoop(t *testing.T) {
	id, reasoning, err := Noop{}.Categorize(context.Background(), "user-1", "note", 1, testCategories)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, reasoning)
}

func TestParseAnswer(t *testing.T) {
	a, err := parseAnswer("```\n{\"categoryId\":\"x\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "x", a.CategoryID)

	_, err = parseAnswer(strings.Repeat(" ", 3))
	assert.Error(t, err)
}

func TestCategorizeRecordsCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"categoryId": "cat-food", "reasoning": "Supermarket"}`, nil)
		log := &callLog{}
		c := newRecordingClient(t, srv.URL, log)

		_, _, err := c.Categorize(ctx, "user-1", "Whole Foods", -4599, testCategories)
		require.NoError(t, err)

		require.Len(t, log.calls, 1)
		call := log.calls[0]
		assert.Equal(t, "user-1", call.UserID)
		assert.Equal(t, "openrouter", call.Provider)
		assert.Equal(t, DefaultModel, call.Model)
		assert.Equal(t, domain.LLMCallAutoCategorize, call.CallType)
		assert.Equal(t, domain.LLMCallSuccess, call.Status)
		assert.Equal(t, 1_500_000, call.TotalTokens)
		assert.Equal(t, int64(50), call.EstimatedCostCents)
		assert.JSONEq(t, `{"note":"Whole Foods","amount_cents":-4599,"categories":2}`, string(call.RequestPayload))
		assert.JSONEq(t, `{"category_id":"cat-food","reasoning":"Supermarket"}`, string(call.ResponsePayload))
	})

	t.Run("failure", func(t *testing.T) {
		srv := completionServer(t, http.StatusBadGateway, "", nil)
		log := &callLog{}
		_, _, err := newRecordingClient(t, srv.URL, log).Categorize(ctx, "user-1", "note", 100, testCategories)
		require.Error(t, err)

		require.Len(t, log.calls, 1)
		assert.Equal(t, domain.LLMCallError, log.calls[0].Status)
		assert.Contains(t, log.calls[0].ErrorMessage, "status 502")
		assert.Empty(t, log.calls[0].ResponsePayload)
	})

	t.Run("recorder failure is ignored", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"categoryId": "cat-food"}`, nil)
		log := &callLog{err: errors.New("db down")}
		id, _, err := newRecordingClient(t, srv.URL, log).Categorize(ctx, "user-1", "note", 100, testCategories)
		require.NoError(t, err)
		assert.Equal(t, "cat-food", id)
	})

	t.Run("no user is not recorded", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"categoryId": "cat-food"}`, nil)
		log := &callLog{}
		_, _, err := newRecordingClient(t, srv.URL, log).Categorize(ctx, "", "note", 100, testCategories)
		require.NoError(t, err)
		assert.Empty(t, log.calls)
	})
}

var receiptImage = base64.StdEncoding.EncodeToString([]byte("\xff\xd8\xff\xe0 fake jpeg"))

func TestParseInvoice(t *testing.T) {
	ctx := context.Background()
	answer := "```json\n" + `{
		"merchant": "Whole Foods",
		"date": "2025-03-04",
		"total": 4599,
		"tax": 345.4,
		"items": [
			{"description": "Bananas", "quantity": 2, "price": 129, "categoryId": "cat-food"},
			{"description": "Mystery", "categoryId": "Groceries"}
		],
		"paymentMethod": "Visa",
		"suggestedCategory": "groceries",
		"confidence": 1.4
	}` + "\n```"

	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": answer}}},
			"usage":   map[string]int{"prompt_tokens": 1200, "completion_tokens": 300, "total_tokens": 1500},
		})
	}))
	defer srv.Close()

	log := &callLog{}
	c := newRecordingClient(t, srv.URL, log)
	inv, err := c.ParseInvoice(ctx, "user-1", "data:image/png;base64,"+receiptImage, testCategories)
	require.NoError(t, err)

	assert.Equal(t, "Whole Foods", inv.Merchant)
	assert.Equal(t, "2025-03-04", inv.Date)
	assert.Equal(t, int64(4599), inv.TotalCents)
	require.NotNil(t, inv.TaxCents)
	assert.Equal(t, int64(345), *inv.TaxCents)
	assert.Nil(t, inv.SubtotalCents)
	assert.Equal(t, "cat-food", inv.SuggestedCategoryID)
	assert.Equal(t, "Groceries", inv.SuggestedCategory)
	assert.Equal(t, "Whole Foods", inv.Description)
	assert.Equal(t, 1.0, inv.Confidence)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "cat-food", inv.Items[0].CategoryID)
	require.NotNil(t, inv.Items[0].PriceCents)
	assert.Equal(t, int64(129), *inv.Items[0].PriceCents)
	assert.Empty(t, inv.Items[1].CategoryID, "names are not category IDs")

	assert.Equal(t, DefaultInvoiceModel, req.Model)
	assert.Equal(t, 800, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].Content, 2)
	assert.Contains(t, req.Messages[0].Content[0].Text, "ID: cat-food | Name: Groceries")
	assert.Equal(t, "data:image/png;base64,"+receiptImage, req.Messages[0].Content[1].ImageURL.URL)

	require.Len(t, log.calls, 1)
	call := log.calls[0]
	assert.Equal(t, domain.LLMCallAutoInvoice, call.CallType)
	assert.Equal(t, domain.LLMCallSuccess, call.Status)
	assert.Equal(t, 1500, call.TotalTokens)
	assert.NotContains(t, string(call.RequestPayload), receiptImage, "image data is not stored")
	assert.Contains(t, string(call.ResponsePayload), `"merchant":"Whole Foods"`)
}

func TestParseInvoiceErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("not base64", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).ParseInvoice(ctx, "user-1", "not an image!", testCategories)
		assert.ErrorIs(t, err, domain.ErrInvalidInvoiceImage)
		_, err = newTestClient(t, srv.URL).ParseInvoice(ctx, "user-1", "", testCategories)
		assert.ErrorIs(t, err, domain.ErrInvalidInvoiceImage)
		assert.False(t, called)
	})

	t.Run("missing required fields", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"merchant": "Shop", "confidence": 0.2}`, nil)
		log := &callLog{}
		_, err := newRecordingClient(t, srv.URL, log).ParseInvoice(ctx, "user-1", receiptImage, testCategories)
		assert.ErrorIs(t, err, domain.ErrUnreadableInvoice)
		require.Len(t, log.calls, 1)
		assert.Equal(t, domain.LLMCallError, log.calls[0].Status)
	})

	t.Run("not json", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, "I cannot read this receipt.", nil)
		_, err := newTestClient(t, srv.URL).ParseInvoice(ctx, "user-1", receiptImage, testCategories)
		assert.ErrorIs(t, err, domain.ErrUnreadableInvoice)
	})

	t.Run("http error", func(t *testing.T) {
		srv := completionServer(t, http.StatusInternalServerError, "", nil)
		_, err := newTestClient(t, srv.URL).ParseInvoice(ctx, "user-1", receiptImage, testCategories)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUnreadableInvoice)
	})
}
