package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefeed-backend/api/middleware"
	"github.com/angelmondragon/storefeed-backend/internal/events"
	"github.com/angelmondragon/storefeed-backend/internal/feed"
	"github.com/angelmondragon/storefeed-backend/pkg/config"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/types"
)

type stubFeedService struct {
	input feed.Input
	items []feed.FeedItem
	err   error
}

func (s *stubFeedService) Execute(ctx context.Context, input feed.Input) ([]feed.FeedItem, error) {
	s.input = input
	return s.items, s.err
}

type stubEventService struct {
	input events.Input
	err   error
}

func (s *stubEventService) Record(ctx context.Context, input events.Input) (*models.UserProductEvent, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &models.UserProductEvent{ID: 9, ProductID: input.ProductID, EventType: input.Type}, nil
}

func withViewer(r *http.Request, visitorID string, userID *int64) *http.Request {
	ctx := middleware.WithVisitorID(r.Context(), visitorID)
	if userID != nil {
		ctx = middleware.WithUserID(ctx, *userID)
	}
	return r.WithContext(ctx)
}

func TestPersonalFeedPassesViewerAndPaging(t *testing.T) {
	rating := 4.5
	svc := &stubFeedService{items: []feed.FeedItem{{ID: 1, SellerID: 2, CategoryID: 3, Name: "Lamp", Price: decimal.RequireFromString("12.5"), RatingAvg: &rating, ReviewsCount: 2}}}
	userID := int64(7)
	req := withViewer(httptest.NewRequest(http.MethodGet, "/api/v1/products/feed?page=2&limit=15", nil), "v1", &userID)
	resp := httptest.NewRecorder()

	PersonalFeed(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.VisitorID != "v1" || svc.input.UserID == nil || *svc.input.UserID != 7 || svc.input.Page != 2 || svc.input.Limit != 15 {
		t.Fatalf("unexpected input %+v", svc.input)
	}
	if !strings.Contains(resp.Body.String(), `"ratingAvg":4.5`) || !strings.Contains(resp.Body.String(), `"sellerId":2`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestPersonalFeedSurfacesReason(t *testing.T) {
	svc := &stubFeedService{err: pkgerrors.New(pkgerrors.CodeValidation, "requested limit is too large").WithReason(feed.ReasonLimitTooLarge)}
	req := withViewer(httptest.NewRequest(http.MethodGet, "/api/v1/products/feed?limit=101", nil), "v1", nil)
	resp := httptest.NewRecorder()

	PersonalFeed(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.input.Limit != 101 {
		t.Fatalf("expected limit to reach the service unclamped, got %d", svc.input.Limit)
	}
	var body types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Reason != feed.ReasonLimitTooLarge {
		t.Fatalf("expected reason, got %+v", body.Error)
	}
}

func TestPersonalFeedRejectsNonNumericPage(t *testing.T) {
	svc := &stubFeedService{}
	req := withViewer(httptest.NewRequest(http.MethodGet, "/api/v1/products/feed?page=abc", nil), "v1", nil)
	resp := httptest.NewRecorder()

	PersonalFeed(svc, nil)(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRecordEventCreates(t *testing.T) {
	svc := &stubEventService{}
	req := withViewer(httptest.NewRequest(http.MethodPost, "/api/v1/products/events", strings.NewReader(`{"productId":5,"type":"cart_add"}`)), "v1", nil)
	resp := httptest.NewRecorder()

	RecordEvent(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.ProductID != 5 || svc.input.Type != enums.ProductEventCartAdd || svc.input.VisitorID != "v1" {
		t.Fatalf("unexpected input %+v", svc.input)
	}
}

func TestRecordEventValidatesBody(t *testing.T) {
	svc := &stubEventService{}
	req := withViewer(httptest.NewRequest(http.MethodPost, "/api/v1/products/events", strings.NewReader(`{"productId":5,"type":"purchase"}`)), "v1", nil)
	resp := httptest.NewRecorder()

	RecordEvent(svc, nil)(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestRecordEventNotFound(t *testing.T) {
	svc := &stubEventService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithReason(events.ReasonProductNotFound)}
	req := withViewer(httptest.NewRequest(http.MethodPost, "/api/v1/products/events", strings.NewReader(`{"productId":5,"type":"view"}`)), "v1", nil)
	resp := httptest.NewRecorder()

	RecordEvent(svc, nil)(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": nil})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{err: errors.New("down")}})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}
