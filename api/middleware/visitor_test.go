package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefeed-backend/pkg/cache"
)

func serveVisitor(opts VisitorOptions, header string) (*httptest.ResponseRecorder, string) {
	var seen string
	handler := Visitor(opts, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = VisitorIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(VisitorIDHeader, header)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp, seen
}

func TestVisitorRequiresHeader(t *testing.T) {
	resp, _ := serveVisitor(VisitorOptions{RequireUUID: true}, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestVisitorRejectsNonUUID(t *testing.T) {
	resp, _ := serveVisitor(VisitorOptions{RequireUUID: true}, "not-a-uuid")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	resp, seen := serveVisitor(VisitorOptions{}, "not-a-uuid")
	if resp.Code != http.StatusNoContent || seen != "not-a-uuid" {
		t.Fatalf("expected free-form id when uuid not required, got %d %q", resp.Code, seen)
	}
}

func TestVisitorNormalizesAndMemoizes(t *testing.T) {
	memo := cache.NewMemoryStore()
	id := "3F2504E0-4F89-11D3-9A0C-0305E82C3301"

	resp, seen := serveVisitor(VisitorOptions{RequireUUID: true, Memo: memo}, id)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected pass through, got %d", resp.Code)
	}
	if seen != "3f2504e0-4f89-11d3-9a0c-0305e82c3301" {
		t.Fatalf("expected canonical uuid, got %q", seen)
	}
	if _, err := memo.Get(context.Background(), visitorMemoKeyspace+seen); err != nil {
		t.Fatalf("expected id to be memoized: %v", err)
	}

	resp, seen = serveVisitor(VisitorOptions{RequireUUID: true, Memo: memo}, seen)
	if resp.Code != http.StatusNoContent || seen == "" {
		t.Fatalf("expected memoized id to pass, got %d", resp.Code)
	}
}
