package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/catalog"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/logger"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/notification"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/phone"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/user"
)

const (
	sellerA   = "2f1c7a3e-8d4b-4c6e-9a1f-0b5d3e7c9a10"
	sellerB   = "7b9e2d41-3c5a-4f8e-b6d2-1a4c8e0f2b37"
	serviceA  = "c3a8f0d2-6e1b-4a9c-8f7d-5b2e9c1a4d66"
	customerU = "e4d2b6a8-1f3c-4e5a-9b7d-2c8f0a6e4b19"
	unknownID = "00000000-0000-4000-8000-000000000000"

	phoneLatin   = "09123456789"
	phonePersian = "۰۹۱۲۳۴۵۶۷۸۹"
	phoneOther   = "09350001122"
)

// fakeCatalog is an in-memory catalog.Directory.
type fakeCatalog struct {
	mu            sync.Mutex
	services      map[string]*catalog.Service
	sellers       map[string]bool
	blockedUsers  map[string][]string
	blockedPhones map[string][]string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[string]*catalog.Service{
			serviceA: {ID: serviceA, SellerID: sellerA, Title: "Haircut"},
		},
		sellers:       map[string]bool{sellerA: true, sellerB: true},
		blockedUsers:  map[string][]string{},
		blockedPhones: map[string][]string{},
	}
}

func (f *fakeCatalog) GetService(_ context.Context, id string) (*catalog.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeCatalog) SellerExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sellers[id], nil
}

func (f *fakeCatalog) IsBlocked(_ context.Context, sellerID, userID, rawPhone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.blockedUsers[sellerID] {
		if userID != "" && id == userID {
			return true, nil
		}
	}
	for _, p := range f.blockedPhones[sellerID] {
		if phone.Equal(p, rawPhone) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalog) block(sellerID, userID, rawPhone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if userID != "" {
		f.blockedUsers[sellerID] = append(f.blockedUsers[sellerID], userID)
	}
	if rawPhone != "" {
		f.blockedPhones[sellerID] = append(f.blockedPhones[sellerID], rawPhone)
	}
}

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockAccounts) FindByPhone(ctx context.Context, rawPhone string) (*user.User, error) {
	args := m.Called(ctx, rawPhone)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type testEnv struct {
	svc      Service
	repo     *MemoryRepository
	catalog  *fakeCatalog
	accounts *MockAccounts
	notifier *MockNotifier
}

var allowAll = Options{AllowAnonymousCancel: true, AllowAnonymousDelete: true}

func newTestEnv(opts Options) *testEnv {
	env := &testEnv{
		repo:     NewMemoryRepository(),
		catalog:  newFakeCatalog(),
		accounts: new(MockAccounts),
		notifier: new(MockNotifier),
	}
	env.svc = NewService(env.repo, env.catalog, env.accounts, env.notifier, nil, opts, logger.Discard())
	return env
}

func validRequest(customerPhone, clock string) CreateRequest {
	return CreateRequest{
		SellerID:      sellerA,
		ServiceLabel:  "Haircut",
		CustomerName:  "Sara",
		CustomerPhone: customerPhone,
		Date:          "2024-03-10",
		Time:          clock,
	}
}

func (e *testEnv) mustCreate(t *testing.T, req CreateRequest) *Booking {
	t.Helper()
	b, err := e.svc.Create(context.Background(), req)
	require.NoError(t, err)
	return b
}

// seed stores b directly, bypassing the service rules.
func (e *testEnv) seed(t *testing.T, b Booking) *Booking {
	t.Helper()
	require.NoError(t, e.repo.Create(context.Background(), &b))
	return &b
}
