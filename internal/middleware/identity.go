package middleware

// identity.go holds the context keys and accessors for the authenticated
// party. PartyAuth is the only writer; handlers and the rate limiter are
// the readers.

import "github.com/labstack/echo/v4"

const (
	ctxPartyID     = "party_id"
	ctxDisplayName = "display_name"
)

// PartyID returns the authenticated party's ID, or "" on unauthenticated
// routes.
func PartyID(c echo.Context) string {
	if v, ok := c.Get(ctxPartyID).(string); ok {
		return v
	}
	return ""
}

// DisplayName returns the party's display name from the token, falling
// back to the party ID so seat locks always show something.
func DisplayName(c echo.Context) string {
	if v, ok := c.Get(ctxDisplayName).(string); ok && v != "" {
		return v
	}
	return PartyID(c)
}
