// Package events records shopper engagement against products and feeds the
// counters behind popularity scoring.
package events

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	product "github.com/angelmondragon/storefeed-backend/internal/products"
	"github.com/angelmondragon/storefeed-backend/internal/users"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	"github.com/angelmondragon/storefeed-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
	"github.com/angelmondragon/storefeed-backend/pkg/metrics"
	"github.com/angelmondragon/storefeed-backend/pkg/visibility"
)

const (
	ReasonProductNotFound = "product-not-found"
	ReasonUserNotFound    = "user-not-found"
)

// counterFor maps an event type to the metric column it bumps. Favorites are
// recorded but carry no counter.
var counterFor = map[enums.ProductEventType]product.MetricColumn{
	enums.ProductEventView:    product.MetricViews,
	enums.ProductEventCartAdd: product.MetricCartAdds,
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input is a single engagement signal.
type Input struct {
	VisitorID string
	UserID    *int64
	ProductID int64
	Type      enums.ProductEventType
}

// Service records engagement events.
type Service interface {
	Record(ctx context.Context, input Input) (*models.UserProductEvent, error)
}

type ServiceParams struct {
	TxRunner    txRunner
	Events      *Repository
	Products    *product.Repository
	Metrics     *product.MetricRepository
	Users       *users.Repository
	Logger      *logger.Logger
	FeedMetrics *metrics.FeedMetrics
}

type service struct {
	tx          txRunner
	events      *Repository
	products    *product.Repository
	metrics     *product.MetricRepository
	users       *users.Repository
	logg        *logger.Logger
	feedMetrics *metrics.FeedMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("events repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Metrics == nil {
		return nil, fmt.Errorf("metrics repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{
		tx:          params.TxRunner,
		events:      params.Events,
		products:    params.Products,
		metrics:     params.Metrics,
		users:       params.Users,
		logg:        params.Logger,
		feedMetrics: params.FeedMetrics,
	}, nil
}

// Record validates the event, appends it and bumps the matching counter in
// one transaction.
func (s *service) Record(ctx context.Context, input Input) (*models.UserProductEvent, error) {
	viewer := visibility.Viewer{VisitorID: input.VisitorID, UserID: input.UserID}
	if err := validate(input, viewer); err != nil {
		return nil, err
	}

	var event *models.UserProductEvent
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if input.UserID != nil {
			user, err := s.users.WithTx(tx).FindByID(ctx, *input.UserID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
			}
			if user == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found").WithReason(ReasonUserNotFound)
			}
		}

		p, err := s.products.WithTx(tx).FindByID(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if p == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithReason(ReasonProductNotFound)
		}

		event = &models.UserProductEvent{
			UserID:     input.UserID,
			VisitorID:  input.VisitorID,
			ProductID:  p.ID,
			CategoryID: p.CategoryID,
			EventType:  input.Type,
		}
		if err := s.events.WithTx(tx).Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert event")
		}

		if column, ok := counterFor[input.Type]; ok {
			if err := s.metrics.WithTx(tx).Increment(ctx, p.ID, column); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment product metric")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feedMetrics.IncEvent(string(input.Type))
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"product_id": event.ProductID,
			"event_type": string(event.EventType),
		})
		s.logg.Debug(logCtx, "events.recorded")
	}
	return event, nil
}

func validate(input Input, viewer visibility.Viewer) error {
	if err := viewer.Validate(); err != nil {
		return err
	}
	if input.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown event type").
			WithDetails(map[string]any{"type": string(input.Type)})
	}
	return nil
}
