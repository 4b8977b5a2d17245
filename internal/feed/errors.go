package feed

import pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"

// Failure reasons returned by Execute. They are stable and safe to branch on.
const (
	ReasonLimitTooLarge  = "limit-too-large"
	ReasonUserNotFound   = "user-not-found"
	ReasonInvalidVisitor = "invalid-visitor"
)

func errLimitTooLarge() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "requested limit is too large").WithReason(ReasonLimitTooLarge)
}

func errUserNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "user not found").WithReason(ReasonUserNotFound)
}

// ReasonOf extracts the failure reason from an error returned by Execute.
func ReasonOf(err error) string {
	return pkgerrors.ReasonOf(err)
}
