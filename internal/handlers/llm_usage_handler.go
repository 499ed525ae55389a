package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetwise/internal/domain"
	"budgetwise/internal/services"
)

// LLMUsageHandler reports a user's language model usage.
type LLMUsageHandler struct {
	usageService services.LLMUsageServicer
}

// NewLLMUsageHandler creates a new LLMUsageHandler.
func NewLLMUsageHandler(usageService services.LLMUsageServicer) *LLMUsageHandler {
	return &LLMUsageHandler{usageService: usageService}
}

// GetUsage returns call counts, tokens and estimated cost
// @Summary     Get LLM usage
// @Description Totals over the user's categorization and invoice calls plus the 20 most recent calls.
// @Tags        llm-usage
// @Produce     json
// @Security    BearerAuth
// @Param       call_type query string false "auto_categorize or auto_invoice"
// @Param       from      query string false "Start time (RFC3339 or YYYY-MM-DD)"
// @Param       to        query string false "End time (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} services.LLMUsageReport "Usage report"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /llm-usage [get]
func (h *LLMUsageHandler) GetUsage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, err := optionalTimeQuery(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := optionalTimeQuery(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.usageService.GetUsage(c.Request.Context(), userID, services.LLMUsageFilter{
		CallType: domain.LLMCallType(c.Query("call_type")),
		From:     from,
		To:       to,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
