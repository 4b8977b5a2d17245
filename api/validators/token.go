package validators

import "strings"

const bearerScheme = "bearer"

// BearerToken extracts the token from an Authorization header value. A bare
// token without the scheme is accepted; the scheme alone is not a token.
func BearerToken(header string) (string, bool) {
	token := strings.TrimSpace(header)
	if scheme, rest, found := strings.Cut(token, " "); found && strings.EqualFold(scheme, bearerScheme) {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, bearerScheme) {
		token = ""
	}
	if token == "" {
		return "", false
	}
	return token, true
}
