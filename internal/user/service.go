package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/phone"
)

// Service resolves accounts for the booking core.
type Service interface {
	// GetByID returns ErrNotFound for ids that are not account UUIDs.
	GetByID(ctx context.Context, id string) (*User, error)
	// FindByPhone looks an account up by phone regardless of how either side
	// was typed.
	FindByPhone(ctx context.Context, rawPhone string) (*User, error)
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) FindByPhone(ctx context.Context, rawPhone string) (*User, error) {
	canonical := phone.Normalize(rawPhone)
	if canonical == "" {
		return nil, ErrNotFound
	}
	return s.repo.FindByPhone(ctx, canonical)
}
