package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/storefeed-backend/api/middleware"
	"github.com/angelmondragon/storefeed-backend/api/responses"
	"github.com/angelmondragon/storefeed-backend/api/validators"
	"github.com/angelmondragon/storefeed-backend/internal/events"
	"github.com/angelmondragon/storefeed-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

type recordEventRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Type      string `json:"type" validate:"required,oneof=view cart_add favorite"`
}

type recordEventResponse struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordEvent serves POST /api/v1/products/events.
func RecordEvent(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "events service unavailable"))
			return
		}

		var body recordEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventType, err := enums.ParseProductEventType(body.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type"))
			return
		}

		event, err := svc.Record(r.Context(), events.Input{
			VisitorID: middleware.VisitorIDFromContext(r.Context()),
			UserID:    middleware.UserIDPtrFromContext(r.Context()),
			ProductID: body.ProductID,
			Type:      eventType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, recordEventResponse{
			ID:        event.ID,
			ProductID: event.ProductID,
			Type:      string(event.EventType),
			CreatedAt: event.CreatedAt,
		})
	}
}
