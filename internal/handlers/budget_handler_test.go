package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/services"
)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/dashboard", handler.GetDashboard)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	auth.GET("/budgets/:id/status", handler.GetBudgetStatus)
	auth.GET("/transactions/summary", handler.GetSpendingSummary)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.BudgetInput
		svc := &mockBudgetService{
			createBudgetFn: func(userID string, input services.BudgetInput) (*domain.Budget, error) {
				got = input
				return &domain.Budget{
					ID:          testBudgetID,
					UserID:      userID,
					CategoryID:  *input.CategoryID,
					Name:        *input.Name,
					AmountCents: *input.AmountCents,
					Currency:    domain.CurrencyUSD,
					Period:      *input.Period,
					StartDate:   *input.StartDate,
					IsActive:    true,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(svc, audit))

		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"`+testCategoryID+`","name":"Groceries","amount_cents":50000,"period":"MONTHLY","start_date":"2025-01-01T00:00:00Z","alert_threshold":80}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["name"] != "Groceries" || budget["amount_cents"].(float64) != 50000 {
			t.Errorf("unexpected budget %v", budget)
		}
		if got.AlertThreshold == nil || *got.AlertThreshold != 80 {
			t.Errorf("expected alert threshold 80, got %v", got.AlertThreshold)
		}
		if got.Currency != nil {
			t.Error("expected currency to default in the service")
		}
		if len(audit.actions) != 1 || audit.actions[0] != "CREATE_BUDGET" {
			t.Errorf("expected CREATE_BUDGET audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on invalid fields", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		cases := map[string]string{
			"missing name":      `{"category_id":"` + testCategoryID + `","amount_cents":100,"period":"MONTHLY","start_date":"2025-01-01T00:00:00Z"}`,
			"missing amount":    `{"category_id":"` + testCategoryID + `","name":"G","period":"MONTHLY","start_date":"2025-01-01T00:00:00Z"}`,
			"negative amount":   `{"category_id":"` + testCategoryID + `","name":"G","amount_cents":-1,"period":"MONTHLY","start_date":"2025-01-01T00:00:00Z"}`,
			"bad period":        `{"category_id":"` + testCategoryID + `","name":"G","amount_cents":100,"period":"FORTNIGHTLY","start_date":"2025-01-01T00:00:00Z"}`,
			"bad currency":      `{"category_id":"` + testCategoryID + `","name":"G","amount_cents":100,"currency":"ABC","period":"MONTHLY","start_date":"2025-01-01T00:00:00Z"}`,
			"threshold too big": `{"category_id":"` + testCategoryID + `","name":"G","amount_cents":100,"period":"MONTHLY","start_date":"2025-01-01T00:00:00Z","alert_threshold":101}`,
			"bad category id":   `{"category_id":"1","name":"G","amount_cents":100,"period":"MONTHLY","start_date":"2025-01-01T00:00:00Z"}`,
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				rec := doRequest(r, "POST", "/budgets", body)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d", rec.Code)
				}
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			})
		}
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))
		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"`+testCategoryID+`","name":"G","amount_cents":0,"period":"WEEKLY","start_date":"2025-01-01T00:00:00Z"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 404 for unknown category", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(string, services.BudgetInput) (*domain.Budget, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))
		rec := doRequest(r, "POST", "/budgets",
			`{"category_id":"`+testCategoryID+`","name":"G","amount_cents":100,"period":"YEARLY","start_date":"2025-01-01T00:00:00Z"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	svc := &mockBudgetService{
		getUserBudgetsFn: func(_ string, activeOnly bool) ([]domain.Budget, error) {
			if activeOnly {
				return []domain.Budget{{ID: testBudgetID, Name: "Food", IsActive: true}}, nil
			}
			return []domain.Budget{{Name: "Food"}, {Name: "Old"}}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/budgets", "")
	if n := len(parseJSON(t, rec)["budgets"].([]interface{})); n != 2 {
		t.Errorf("expected 2 budgets, got %d", n)
	}
	rec = doRequest(r, "GET", "/budgets?active=true", "")
	if n := len(parseJSON(t, rec)["budgets"].([]interface{})); n != 1 {
		t.Errorf("expected 1 active budget, got %d", n)
	}
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 404 for other user's budget", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ string) (*domain.Budget, error) { return nil, apperrors.ErrBudgetNotFound },
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/budgets/42", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	var got services.BudgetInput
	svc := &mockBudgetService{
		updateBudgetFn: func(_, id string, input services.BudgetInput) (*domain.Budget, error) {
			got = input
			return &domain.Budget{ID: id, AmountCents: *input.AmountCents}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"amount_cents":75000,"is_active":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Name != nil || got.Period != nil {
		t.Error("expected omitted fields to stay nil")
	}
	if got.IsActive == nil || *got.IsActive {
		t.Error("expected is_active=false to be passed through")
	}

	rec = doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"period":"hourly"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad period, got %d", rec.Code)
	}
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	deleted := ""
	svc := &mockBudgetService{
		deleteBudgetFn: func(_, id string) error {
			deleted = id
			return nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "DELETE", "/budgets/"+testBudgetID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != testBudgetID {
		t.Errorf("expected %s to be deleted, got %s", testBudgetID, deleted)
	}
}

func TestBudgetHandler_GetBudgetStatus(t *testing.T) {
	svc := &mockBudgetService{
		getBudgetStatusFn: func(_, id string) (*services.BudgetStatus, error) {
			return &services.BudgetStatus{
				Budget:         domain.Budget{ID: id, AmountCents: 10000},
				SpentCents:     12000,
				RemainingCents: -2000,
				PercentageUsed: 120,
				IsOverBudget:   true,
				ShouldAlert:    true,
			}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/budgets/"+testBudgetID+"/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	status := parseJSON(t, rec)["status"].(map[string]interface{})
	if status["is_over_budget"] != true || status["remaining_cents"].(float64) != -2000 {
		t.Errorf("unexpected status %v", status)
	}
}

func TestBudgetHandler_GetDashboard(t *testing.T) {
	r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/budgets/dashboard", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := parseJSON(t, rec)["dashboard"].(map[string]interface{}); !ok {
		t.Error("expected dashboard object")
	}
}

func TestBudgetHandler_GetSpendingSummary(t *testing.T) {
	t.Run("parses range", func(t *testing.T) {
		var gotFrom, gotTo time.Time
		svc := &mockBudgetService{
			getSpendingSummaryFn: func(_ string, from, to time.Time) (*services.SpendingSummary, error) {
				gotFrom, gotTo = from, to
				return &services.SpendingSummary{From: from, To: to, TotalCents: 4599}, nil
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/summary?from=2025-01-01&to=2025-01-31T23:59:59Z", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) || !gotTo.Equal(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)) {
			t.Errorf("unexpected range %v - %v", gotFrom, gotTo)
		}
	})

	t.Run("requires both bounds", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))
		rec := doRequest(r, "GET", "/transactions/summary?from=2025-01-01", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
