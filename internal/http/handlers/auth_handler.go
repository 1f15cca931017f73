package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"accountd/internal/account"
	"accountd/internal/apperr"
	"accountd/internal/token"
)

// AuthSync is the bearer-token variant of user sync. The token comes from the
// Authorization header, with a legacy "token" cookie fallback. When jwtSecret
// is set the signature is verified; the unverified decode only remains for
// deployments fronted by a verifying gateway. The org hint comes from the
// organizationId query parameter, falling back to the token's own claim.
func AuthSync(accounts *account.Service, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				raw = cookie
			}
		}
		raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
		if raw == "" {
			fail(c, apperr.Auth(apperr.CodeInvalidToken, "missing bearer token"))
			return
		}

		var (
			claims *token.Claims
			err    error
		)
		if jwtSecret != "" {
			claims, err = token.Verify(raw, jwtSecret)
		} else {
			claims, err = token.Decode(raw)
		}
		if err != nil {
			fail(c, err)
			return
		}

		orgHint := strings.TrimSpace(c.Query("organizationId"))
		if orgHint == "" {
			orgHint = claims.OrganizationID
		}

		view, err := accounts.Sync(c.Request.Context(), claims.Subject, orgHint)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}
