package services

import (
	"context"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/repository"
)

// recentLLMCalls is how many calls a usage report lists.
const recentLLMCalls = 20

type llmUsageService struct {
	calls repository.LLMCallRepository
	now   Clock
}

// NewLLMUsageService creates an LLMUsageServicer backed by store.LLMCalls.
func NewLLMUsageService(store repository.Store) LLMUsageServicer {
	return &llmUsageService{calls: store.LLMCalls, now: utcNow}
}

// RecordLLMCall validates and stores call. A missing timestamp is set to
// now and a missing cost is estimated from the token counts.
func (s *llmUsageService) RecordLLMCall(ctx context.Context, call domain.LLMCall) error {
	call, err := domain.NewLLMCall(call)
	if err != nil {
		return validationError(err)
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = s.now()
	}
	if call.EstimatedCostCents == 0 {
		call.EstimatedCostCents = domain.EstimateLLMCostCents(call.Model, call.PromptTokens, call.CompletionTokens)
	}

	stored, err := s.calls.Create(ctx, call)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	logger.Named("llm").Debugw("recorded LLM call",
		"id", stored.ID,
		"user_id", stored.UserID,
		"call_type", stored.CallType,
		"status", stored.Status,
		"total_tokens", stored.TotalTokens,
	)
	return nil
}

// GetUsage aggregates the user's calls matching filter and lists the most
// recent ones.
func (s *llmUsageService) GetUsage(ctx context.Context, userID string, filter LLMUsageFilter) (*LLMUsageReport, error) {
	if filter.CallType != "" && !filter.CallType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "call_type must be auto_categorize or auto_invoice")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must not be after to")
	}

	query := repository.LLMCallFilter{From: filter.From, To: filter.To, CallType: filter.CallType}
	usage, err := s.calls.UserStats(ctx, userID, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	query.Limit = recentLLMCalls
	recent, err := s.calls.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if recent == nil {
		recent = []domain.LLMCall{}
	}
	return &LLMUsageReport{Usage: usage, RecentCalls: recent}, nil
}
