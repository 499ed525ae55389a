package memory

import (
	"context"
	"strings"

	"budgetwise/internal/domain"
	"budgetwise/internal/repository"
)

type UserRepository struct {
	t *table[domain.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{t: newTable[domain.User]()}
}

func (r *UserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	return r.t.get(id)
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	email = strings.ToLower(email)
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	for _, u := range r.t.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, u domain.User) (domain.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	for _, existing := range r.t.rows {
		if existing.Email == u.Email {
			return domain.User{}, repository.ErrDuplicate
		}
	}
	u.ID = newID(u.ID)
	now := r.t.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.t.rows[u.ID] = u
	return u, nil
}

func (r *UserRepository) Update(_ context.Context, u domain.User) (domain.User, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	current, ok := r.t.rows[u.ID]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	u.CreatedAt = current.CreatedAt
	u.UpdatedAt = r.t.now()
	r.t.rows[u.ID] = u
	return u, nil
}
