package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/phone"
)

// Directory is what the booking core asks of the catalog.
type Directory interface {
	GetService(ctx context.Context, id string) (*Service, error)
	SellerExists(ctx context.Context, id string) (bool, error)
	// IsBlocked checks the seller's block list by account id and by phone.
	// The phone may be typed in any digit script.
	IsBlocked(ctx context.Context, sellerID, userID, rawPhone string) (bool, error)
}

type directory struct {
	repo Repository
}

func NewDirectory(repo Repository) Directory {
	return &directory{repo: repo}
}

func (d *directory) GetService(ctx context.Context, id string) (*Service, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrServiceNotFound
	}
	return d.repo.GetService(ctx, id)
}

func (d *directory) SellerExists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	if _, err := d.repo.GetSeller(ctx, id); err != nil {
		if errors.Is(err, ErrSellerNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (d *directory) IsBlocked(ctx context.Context, sellerID, userID, rawPhone string) (bool, error) {
	if _, err := uuid.Parse(userID); err != nil {
		userID = ""
	}
	return d.repo.IsBlocked(ctx, sellerID, userID, phone.Normalize(rawPhone))
}
