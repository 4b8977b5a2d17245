package visibility

import (
	"testing"
	"time"

	"github.com/angelmondragon/storefeed-backend/pkg/errors"
)

func TestBanRequestValidate(t *testing.T) {
	until := time.Now().Add(48 * time.Hour)
	badUser := int64(0)

	tests := []struct {
		name string
		req  BanRequest
		ok   bool
	}{
		{name: "visitor required", req: BanRequest{BanUntil: until}},
		{name: "user must be positive", req: BanRequest{Viewer: Viewer{VisitorID: "v", UserID: &badUser}, BanUntil: until}},
		{name: "ban until required", req: BanRequest{Viewer: Viewer{VisitorID: "v"}}},
		{name: "valid", req: BanRequest{Viewer: Viewer{VisitorID: "v"}, BanUntil: until}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if errors.As(err).Code() != errors.CodeValidation {
					t.Fatalf("expected validation code, got %s", errors.As(err).Code())
				}
			}
		})
	}
}

func TestBanRequestRowsDeduplicates(t *testing.T) {
	user := int64(7)
	until := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	rows := BanRequest{
		Viewer:     Viewer{VisitorID: "v-1", UserID: &user},
		ProductIDs: []int64{3, 1, 3, 2, 1},
		BanUntil:   until,
	}.Rows()

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	want := []int64{3, 1, 2}
	for i, row := range rows {
		if row.ProductID != want[i] {
			t.Fatalf("row %d: expected product %d, got %d", i, want[i], row.ProductID)
		}
		if row.VisitorID != "v-1" || row.UserID == nil || *row.UserID != 7 {
			t.Fatalf("row %d: unexpected viewer %+v", i, row)
		}
		if !row.BanUntil.Equal(until) || row.BanUntil.Location() != time.UTC {
			t.Fatalf("row %d: expected utc ban until, got %v", i, row.BanUntil)
		}
	}

	if len((BanRequest{Viewer: Viewer{VisitorID: "v"}}).Rows()) != 0 {
		t.Fatal("empty product list should yield no rows")
	}
}
