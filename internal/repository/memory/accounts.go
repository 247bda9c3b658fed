package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/almajid/internal/apperrors"
	"github.com/example/almajid/internal/models"
)

// Users implements repository.UserRepository.
type Users struct{ s *Store }

func (r Users) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, &apperrors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	return &u, nil
}

func (r Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, &apperrors.ErrNotFound{Resource: "user", ID: email}
}

func (r Users) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return &apperrors.ErrConflict{Message: "user already exists"}
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r Users) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return &apperrors.ErrNotFound{Resource: "user", ID: user.ID.String()}
	}
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r Users) UpdatePassword(_ context.Context, email, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			r.s.users[id] = u
			return nil
		}
	}
	return &apperrors.ErrNotFound{Resource: "user", ID: email}
}

// Tokens implements repository.TokenRepository.
type Tokens struct{ s *Store }

func (r Tokens) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, exp := range r.s.revoked {
		if !exp.After(now) {
			delete(r.s.revoked, id)
		}
	}
	r.s.revoked[tokenID] = expiresAt
	return nil
}

func (r Tokens) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.revoked[tokenID]
	return ok, nil
}

func (r Tokens) CreateReset(_ context.Context, token *models.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.s.resets[token.Token] = *token
	return nil
}

func (r Tokens) ConsumeReset(_ context.Context, token string, now time.Time) (*models.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.resets[token]
	if !ok || t.UsedAt != nil || !t.ExpiresAt.After(now) {
		return nil, &apperrors.ErrNotFound{Resource: "password reset token"}
	}
	t.UsedAt = &now
	r.s.resets[token] = t
	return &t, nil
}
