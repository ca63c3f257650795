package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/catalog"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/notification"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/phone"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/ratelimit"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/user"
)

// CreateRequest is a customer's reservation attempt.
// Either ServiceID, or both SellerID and ServiceLabel, must be set.
type CreateRequest struct {
	ServiceID     string
	SellerID      string
	ServiceLabel  string
	CustomerName  string
	CustomerPhone string
	Date          string
	Time          string
	// UserID is the authenticated caller, if any. It only feeds the block check.
	UserID string
}

// Requester identifies whoever is asking for availability.
type Requester struct {
	UserID string
	Phone  string
}

// SellerFilter narrows a seller's own listing.
type SellerFilter struct {
	Status Status
	Date   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	ListByPhone(ctx context.Context, rawPhone string) ([]*Booking, error)
	ListBySeller(ctx context.Context, sellerID string, filter SellerFilter) ([]*Booking, error)
	OccupiedTimes(ctx context.Context, sellerID, date string, who Requester) ([]string, error)

	SetStatus(ctx context.Context, id, sellerID string, status Status) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
	Delete(ctx context.Context, id, sellerID string) error
	DeleteByID(ctx context.Context, id string) error
	LatestStatus(ctx context.Context, rawPhone string) (Status, error)
}

// Options toggles the ownerless customer endpoints.
type Options struct {
	AllowAnonymousCancel bool
	AllowAnonymousDelete bool
}

type service struct {
	repo     Repository
	catalog  catalog.Directory
	accounts user.Service
	notifier notification.Service
	limiter  ratelimit.Limiter
	opts     Options
	log      *slog.Logger
}

// NewService wires the booking core. accounts, notifier and limiter may be nil,
// which disables confirmation notices and throttling respectively.
func NewService(
	repo Repository,
	directory catalog.Directory,
	accounts user.Service,
	notifier notification.Service,
	limiter ratelimit.Limiter,
	opts Options,
	log *slog.Logger,
) Service {
	if log == nil {
		log = slog.Default()
	}
	return &service{
		repo:     repo,
		catalog:  directory,
		accounts: accounts,
		notifier: notifier,
		limiter:  limiter,
		opts:     opts,
		log:      log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.SellerID = strings.TrimSpace(req.SellerID)
	req.ServiceLabel = strings.TrimSpace(req.ServiceLabel)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	// 1. Required fields
	customerPhone := phone.Normalize(req.CustomerPhone)
	if strings.TrimSpace(req.CustomerPhone) != "" && customerPhone == "" {
		return nil, ErrInvalidPhone
	}
	hasService := req.ServiceID != "" || (req.SellerID != "" && req.ServiceLabel != "")
	if req.CustomerName == "" || customerPhone == "" || req.Date == "" || req.Time == "" || !hasService {
		return nil, ErrMissingFields
	}

	// 2. Identifier syntax
	if req.ServiceID != "" && !validID(req.ServiceID) {
		return nil, ErrInvalidID
	}
	if req.SellerID != "" && !validID(req.SellerID) {
		return nil, ErrInvalidID
	}

	if err := s.throttle(ctx, customerPhone); err != nil {
		return nil, err
	}

	// 3. One unresolved request per customer, across all sellers.
	// Not backed by a constraint: two simultaneous first requests can both pass.
	pattern := phone.MatchAny(customerPhone)
	pending, err := s.repo.Exists(ctx, Filter{PhonePattern: pattern, Statuses: []Status{StatusPending}})
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrPendingExists
	}

	// 4. The catalog entry is authoritative over client-supplied seller and label.
	sellerID, label := req.SellerID, req.ServiceLabel
	var serviceID *string
	if req.ServiceID != "" {
		svc, err := s.catalog.GetService(ctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
		sellerID, label = svc.SellerID, svc.Title
		serviceID = &svc.ID
	} else {
		ok, err := s.catalog.SellerExists(ctx, sellerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSellerNotFound
		}
	}

	// 5. Block list
	blocked, err := s.catalog.IsBlocked(ctx, sellerID, req.UserID, customerPhone)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	// 6. Fast path for a friendly conflict. The unique index behind Create is
	// what actually guarantees exclusivity.
	taken, err := s.repo.Exists(ctx, Filter{SellerID: sellerID, Date: req.Date, Time: req.Time, Statuses: ActiveStatuses})
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	// 7. Insert
	b := &Booking{
		SellerID:      sellerID,
		ServiceID:     serviceID,
		ServiceLabel:  label,
		CustomerName:  req.CustomerName,
		CustomerPhone: customerPhone,
		Date:          req.Date,
		Time:          req.Time,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking created",
		slog.String("booking_id", b.ID),
		slog.String("seller_id", b.SellerID),
		slog.String("date", b.Date),
		slog.String("time", b.Time),
	)
	return b, nil
}

func (s *service) ListByPhone(ctx context.Context, rawPhone string) ([]*Booking, error) {
	pattern := phone.MatchAny(rawPhone)
	if pattern == "" {
		return nil, nil
	}
	return s.repo.List(ctx, Filter{PhonePattern: pattern})
}

func (s *service) ListBySeller(ctx context.Context, sellerID string, filter SellerFilter) ([]*Booking, error) {
	if !validID(sellerID) {
		return nil, ErrInvalidID
	}
	f := Filter{SellerID: sellerID, Date: strings.TrimSpace(filter.Date)}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		f.Statuses = []Status{filter.Status}
	}
	return s.repo.List(ctx, f)
}

// throttle consults the limiter. A limiter outage never blocks bookings.
func (s *service) throttle(ctx context.Context, customerPhone string) error {
	if s.limiter == nil {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, "booking:"+customerPhone)
	if err != nil {
		s.log.WarnContext(ctx, "rate limiter unavailable", slog.String("error", err.Error()))
		return nil
	}
	if !ok {
		return ErrTooManyRequests
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
