package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefeed-backend/api/validators"
	pkgAuth "github.com/angelmondragon/storefeed-backend/pkg/auth"
	"github.com/angelmondragon/storefeed-backend/pkg/config"
	"github.com/angelmondragon/storefeed-backend/pkg/logger"
)

// OptionalAuth resolves the user id from a bearer token when one is present.
// Requests without a usable token continue as anonymous visitors.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := validators.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "error", err.Error())
					logg.Debug(ctx, "auth.token_ignored")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
