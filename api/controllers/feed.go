package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefeed-backend/api/middleware"
	"github.com/angelmondragon/storefeed-backend/api/responses"
	"github.com/angelmondragon/storefeed-backend/api/validators"
	"github.com/angelmondragon/storefeed-backend/internal/feed"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

// PersonalFeed serves GET /api/v1/products/feed?page=&limit=. The limit is
// passed through unclamped so the service can reject oversized pages.
func PersonalFeed(svc feed.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feed service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Execute(r.Context(), feed.Input{
			VisitorID: middleware.VisitorIDFromContext(r.Context()),
			UserID:    middleware.UserIDPtrFromContext(r.Context()),
			Page:      page,
			Limit:     limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
