package booking

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/user"
)

// OccupiedTimes returns the time tokens held by active bookings of a seller on
// date. Merging with working hours is left to the caller.
// A requester on the seller's block list gets ErrBlocked instead of the slots.
func (s *service) OccupiedTimes(ctx context.Context, sellerID, date string, who Requester) ([]string, error) {
	date = strings.TrimSpace(date)
	if !validID(sellerID) {
		return nil, ErrInvalidID
	}
	if date == "" {
		return nil, ErrDateRequired
	}

	if who.UserID != "" || who.Phone != "" {
		if who.Phone == "" {
			p, err := s.accountPhone(ctx, who.UserID)
			if err != nil {
				return nil, err
			}
			who.Phone = p
		}
		blocked, err := s.catalog.IsBlocked(ctx, sellerID, who.UserID, who.Phone)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, ErrBlocked
		}
	}

	bookings, err := s.repo.List(ctx, Filter{SellerID: sellerID, Date: date, Statuses: ActiveStatuses})
	if err != nil {
		return nil, err
	}

	times := make([]string, 0, len(bookings))
	for _, b := range bookings {
		times = append(times, b.Time)
	}
	slices.Sort(times)
	return slices.Compact(times), nil
}

// accountPhone looks up the phone on file for a caller whose token carries
// none, so a block by phone also covers their logged-in requests.
// Unknown accounts have no phone.
func (s *service) accountPhone(ctx context.Context, userID string) (string, error) {
	if s.accounts == nil {
		return "", nil
	}
	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return account.Phone, nil
}
