package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefeed-backend/api/responses"
	"github.com/angelmondragon/storefeed-backend/api/validators"
	"github.com/angelmondragon/storefeed-backend/pkg/cache"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

const (
	VisitorIDHeader     = "X-Visitor-Id"
	maxVisitorIDLength  = 128
	defaultVisitorMemo  = 15 * time.Minute
	visitorMemoKeyspace = "visitor:valid:"
)

// VisitorOptions configure the visitor identity check.
type VisitorOptions struct {
	RequireUUID bool
	MemoTTL     time.Duration
	// Memo remembers recently validated ids. Nil disables memoization.
	Memo cache.Store
}

// Visitor requires the X-Visitor-Id header and seeds the context with it.
func Visitor(opts VisitorOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	ttl := opts.MemoTTL
	if ttl <= 0 {
		ttl = defaultVisitorMemo
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			visitorID := validators.SanitizeHeader(r.Header.Get(VisitorIDHeader), maxVisitorIDLength)
			if visitorID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "visitor id header is required").
					WithDetails(map[string]any{"header": VisitorIDHeader}))
				return
			}

			if opts.RequireUUID && !remembered(r, opts.Memo, visitorID) {
				parsed, err := uuid.Parse(visitorID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "visitor id must be a uuid").
						WithDetails(map[string]any{"header": VisitorIDHeader}))
					return
				}
				visitorID = parsed.String()
				if opts.Memo != nil {
					_ = opts.Memo.Set(ctx, visitorMemoKeyspace+visitorID, []byte{1}, ttl)
				}
			}

			ctx = WithVisitorID(ctx, visitorID)
			if logg != nil {
				ctx = logg.WithVisitorID(ctx, visitorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func remembered(r *http.Request, memo cache.Store, visitorID string) bool {
	if memo == nil {
		return false
	}
	_, err := memo.Get(r.Context(), visitorMemoKeyspace+visitorID)
	return err == nil
}
