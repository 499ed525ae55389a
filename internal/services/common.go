package services

import (
	"errors"
	"time"

	"budgetwise/internal/domain"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/repository"
)

// Clock returns the current time. Services use UTC so period windows do not
// depend on the server's zone.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// storeError maps a repository error to an AppError. notFound is returned
// for repository.ErrNotFound.
func storeError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// validationError turns a domain constructor error into INVALID_INPUT.
func validationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidBudget),
		errors.Is(err, domain.ErrInvalidTransaction),
		errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrInvalidLLMCall):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
