package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefeed-backend/pkg/cache"
	"github.com/angelmondragon/storefeed-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
	"github.com/angelmondragon/storefeed-backend/pkg/metrics"
	"github.com/angelmondragon/storefeed-backend/pkg/pagination"
	"github.com/angelmondragon/storefeed-backend/pkg/visibility"
)

// DefaultBanTTL is how long fetched products stay hidden from a visitor.
const DefaultBanTTL = 48 * time.Hour

// Input is one feed page request.
type Input struct {
	VisitorID string
	UserID    *int64
	Page      int
	Limit     int
}

// Service returns personalized feed pages.
type Service interface {
	Execute(ctx context.Context, input Input) ([]FeedItem, error)
}

type userStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type preferenceStore interface {
	FindByUserID(ctx context.Context, userID int64) (*models.PreferencesProfile, error)
	FindByVisitorID(ctx context.Context, visitorID string) (*models.PreferencesProfile, error)
}

// BanWriter records which products a visitor has already been shown.
type BanWriter interface {
	BanProductsForVisitor(ctx context.Context, req visibility.BanRequest) error
}

// CandidateRepository is the full product surface the feed needs.
type CandidateRepository interface {
	ProductStore
	BanWriter
}

type ServiceParams struct {
	Users        userStore
	Preferences  preferenceStore
	Products     CandidateRepository
	Metrics      MetricStore
	Cache        cache.Store
	Logger       *logger.Logger
	FeedMetrics  *metrics.FeedMetrics
	Batches      BatchSizes
	CandidateTTL time.Duration
	BanTTL       time.Duration
	DefaultLimit int
	MaxLimit     int
	Now          func() time.Time
}

type service struct {
	users        userStore
	preferences  preferenceStore
	products     CandidateRepository
	source       candidateSource
	cache        candidateCache
	scorer       Scorer
	logg         *logger.Logger
	metrics      *metrics.FeedMetrics
	banTTL       time.Duration
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Preferences == nil {
		return nil, fmt.Errorf("preferences repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Metrics == nil {
		return nil, fmt.Errorf("metrics repository required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("candidate cache required")
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}
	ttl := params.CandidateTTL
	if ttl <= 0 {
		ttl = DefaultCandidateTTL
	}
	banTTL := params.BanTTL
	if banTTL <= 0 {
		banTTL = DefaultBanTTL
	}
	defaultLimit := params.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = pagination.DefaultLimit
	}
	maxLimit := params.MaxLimit
	if maxLimit <= 0 {
		maxLimit = pagination.MaxLimit
	}

	return &service{
		users:       params.Users,
		preferences: params.Preferences,
		products:    params.Products,
		source: candidateSource{
			products: params.Products,
			metrics:  params.Metrics,
			batches:  params.Batches.withDefaults(),
		},
		cache: candidateCache{
			store:   params.Cache,
			ttl:     ttl,
			logg:    params.Logger,
			metrics: params.FeedMetrics,
		},
		scorer:       NewScorer(now),
		logg:         params.Logger,
		metrics:      params.FeedMetrics,
		banTTL:       banTTL,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          now,
	}, nil
}

// Execute serves one page from the visitor's cached candidate list. A page
// that runs past the end of the list triggers a recompute; the new list
// fills the remainder of the page and becomes the cached list.
func (s *service) Execute(ctx context.Context, input Input) ([]FeedItem, error) {
	if pagination.ExceedsMax(input.Limit, s.maxLimit) {
		return nil, errLimitTooLarge()
	}
	page := pagination.Params{Page: input.Page, Limit: input.Limit}.Normalize(s.defaultLimit)

	visitor, err := NewVisitor(input.VisitorID, input.UserID)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithVisitorID(ctx, visitor.VisitorID)
		if visitor.UserID != nil {
			ctx = s.logg.WithUserID(ctx, *visitor.UserID)
		}
	}

	if visitor.IsAuthenticated() {
		user, err := s.users.FindByID(ctx, *visitor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if user == nil {
			return nil, errUserNotFound()
		}
	}

	profile, err := s.loadPreferences(ctx, visitor)
	if err != nil {
		return nil, err
	}

	key := visitor.CandidatesKey()
	candidates, ok := s.cache.load(ctx, key)
	if !ok {
		candidates, err = s.compute(ctx, visitor, profile)
		if err != nil {
			return nil, err
		}
		s.cache.save(ctx, key, candidates)
	}

	window := pagination.Slice(candidates, page)
	if len(window) < page.Limit {
		s.metrics.IncRefill()
		s.cache.invalidate(ctx, key)

		fresh, err := s.compute(ctx, visitor, profile)
		if err != nil {
			return nil, err
		}
		need := page.Limit - len(window)
		if need > len(fresh) {
			need = len(fresh)
		}
		window = append(window, fresh[:need]...)
		s.cache.save(ctx, key, fresh[need:])
	}

	items := make([]FeedItem, 0, len(window))
	for _, c := range window {
		items = append(items, c.toFeedItem())
	}
	return items, nil
}

func (s *service) loadPreferences(ctx context.Context, v Visitor) (*models.PreferencesProfile, error) {
	var (
		profile *models.PreferencesProfile
		err     error
	)
	if v.IsAuthenticated() {
		profile, err = s.preferences.FindByUserID(ctx, *v.UserID)
	} else {
		profile, err = s.preferences.FindByVisitorID(ctx, v.VisitorID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
	}
	return profile, nil
}

// compute builds a fresh scored list. Every fetched product is banned for the
// visitor before scoring so the next compute will not return it again.
func (s *service) compute(ctx context.Context, v Visitor, profile *models.PreferencesProfile) ([]Candidate, error) {
	now := s.now()
	fetched, err := s.source.fetch(ctx, v, profile, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidates")
	}

	candidates, err := s.source.withMetrics(ctx, fetched)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product metrics")
	}

	if len(fetched) > 0 {
		ban := visibility.BanRequest{
			Viewer:     v.viewer(),
			ProductIDs: productIDs(fetched),
			BanUntil:   now.Add(s.banTTL),
		}
		if err := s.products.BanProductsForVisitor(ctx, ban); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ban fetched products")
		}
	}
	s.metrics.ObserveCandidatePool(len(fetched))

	return s.scorer.Rank(candidates, preferencesFromProfile(profile)), nil
}
