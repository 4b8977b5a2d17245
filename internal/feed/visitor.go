package feed

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
	"github.com/angelmondragon/storefeed-backend/pkg/visibility"
)

// Visitor identifies who is browsing. VisitorID is always present; UserID is
// set once the shopper is authenticated.
type Visitor struct {
	VisitorID string
	UserID    *int64
}

// NewVisitor validates the identity pair.
func NewVisitor(visitorID string, userID *int64) (Visitor, error) {
	if strings.TrimSpace(visitorID) == "" {
		return Visitor{}, pkgerrors.New(pkgerrors.CodeValidation, "visitor id must not be empty").WithReason(ReasonInvalidVisitor)
	}
	if userID != nil && *userID <= 0 {
		return Visitor{}, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive").WithReason(ReasonInvalidVisitor)
	}
	return Visitor{VisitorID: visitorID, UserID: userID}, nil
}

func (v Visitor) IsAuthenticated() bool {
	return v.UserID != nil
}

// Identity is the cache identity: authenticated users share one list across
// devices, anonymous visitors get one per visitor id.
func (v Visitor) Identity() string {
	if v.UserID != nil {
		return fmt.Sprintf("u-%d", *v.UserID)
	}
	return "v-" + v.VisitorID
}

// CandidatesKey is the cache key holding the visitor's scored candidate list.
func (v Visitor) CandidatesKey() string {
	return "feed:" + v.Identity() + ":candidates"
}

func (v Visitor) viewer() visibility.Viewer {
	return visibility.Viewer{VisitorID: v.VisitorID, UserID: v.UserID}
}
