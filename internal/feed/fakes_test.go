package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefeed-backend/internal/products"
	"github.com/angelmondragon/storefeed-backend/pkg/cache"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/visibility"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type stubUsers struct {
	users map[int64]*models.User
	err   error
	calls int
}

func (s *stubUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

type stubPreferences struct {
	byUser    map[int64]*models.PreferencesProfile
	byVisitor map[string]*models.PreferencesProfile
	userCalls int
	visCalls  int
}

func (s *stubPreferences) FindByUserID(ctx context.Context, userID int64) (*models.PreferencesProfile, error) {
	s.userCalls++
	return s.byUser[userID], nil
}

func (s *stubPreferences) FindByVisitorID(ctx context.Context, visitorID string) (*models.PreferencesProfile, error) {
	s.visCalls++
	return s.byVisitor[visitorID], nil
}

// stubCatalog serves products from an in-memory list and honors bans the way
// the SQL repository does.
type stubCatalog struct {
	mu       sync.Mutex
	catalog  []models.Product
	popular  []models.Product
	price    []models.Product
	category []models.Product
	banned   map[int64]bool
	bans     []visibility.BanRequest
	calls    map[string]int
	limits   map[string]int
	err      error
	banErr   error
}

func newStubCatalog(items ...models.Product) *stubCatalog {
	return &stubCatalog{
		catalog: items,
		banned:  map[int64]bool{},
		calls:   map[string]int{},
		limits:  map[string]int{},
	}
}

func (s *stubCatalog) record(name string, limit int) {
	s.calls[name]++
	s.limits[name] = limit
}

func (s *stubCatalog) visible(items []models.Product, limit int) []models.Product {
	out := []models.Product{}
	for _, p := range items {
		if s.banned[p.ID] {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *stubCatalog) FindPopularProducts(ctx context.Context, q product.PopularQuery) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("popular", q.Limit)
	if s.err != nil {
		return nil, s.err
	}
	source := s.catalog
	if s.popular != nil {
		source = s.popular
	}
	return s.visible(source, q.Limit), nil
}

func (s *stubCatalog) FindPopularPriceMatchedProducts(ctx context.Context, q product.PopularQuery, priceBucket decimal.Decimal) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("price", q.Limit)
	if s.err != nil {
		return nil, s.err
	}
	return s.visible(s.price, q.Limit), nil
}

func (s *stubCatalog) FindPopularProductsByCategories(ctx context.Context, q product.PopularQuery, categoryIDs []int64) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("category", q.Limit)
	if s.err != nil {
		return nil, s.err
	}
	return s.visible(s.category, q.Limit), nil
}

func (s *stubCatalog) BanProductsForVisitor(ctx context.Context, req visibility.BanRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["ban"]++
	if s.banErr != nil {
		return s.banErr
	}
	s.bans = append(s.bans, req)
	for _, id := range req.ProductIDs {
		s.banned[id] = true
	}
	return nil
}

func (s *stubCatalog) totalCalls() int {
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

type stubMetrics struct {
	rows  map[int64]models.ProductMetric
	calls int
}

func (s *stubMetrics) FindByProducts(ctx context.Context, productIDs []int64) ([]models.ProductMetric, error) {
	s.calls++
	out := []models.ProductMetric{}
	for _, id := range productIDs {
		if m, ok := s.rows[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// failingStore fails every operation.
type failingStore struct {
	getErr error
	setErr error
	delErr error
}

func (f failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, cache.ErrMiss
}

func (f failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return f.setErr
}

func (f failingStore) Delete(ctx context.Context, key string) error {
	return f.delErr
}

var errBackend = errors.New("backend down")

func testProduct(id, categoryID int64, price string, age time.Duration) models.Product {
	return models.Product{
		ID:          id,
		SellerID:    1,
		CategoryID:  categoryID,
		Name:        "product",
		Description: "desc",
		Price:       decimal.RequireFromString(price),
		CreatedAt:   fixedNow.Add(-age),
	}
}

func productRange(from, to int64) []models.Product {
	out := []models.Product{}
	for id := from; id <= to; id++ {
		out = append(out, testProduct(id, 1, "10.00", 0))
	}
	return out
}

func int64Ptr(v int64) *int64 { return &v }

func itemIDs(items []FeedItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func candidateIDs(items []Candidate) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
