package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storefeed-backend/pkg/errors"
)

// ParseQueryInt reads an integer query parameter. A missing parameter yields
// 0 so the caller applies its own defaults and range rules.
func ParseQueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "query parameter %s must be numeric", key).
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
