package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"accountd/internal/org"
)

// CreateOrganization runs the one-shot create-and-attach for the caller.
func CreateOrganization(orgs *org.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		extID := externalUserID(c)
		if extID == "" {
			failValidation(c, HeaderExternalUserID+" header is required")
			return
		}

		name := strings.TrimSpace(c.Query("organizationName"))
		if name == "" {
			failValidation(c, "organizationName query parameter is required")
			return
		}

		if err := orgs.CreateAndAttach(c.Request.Context(), extID, name); err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

func GetOrganization(orgs *org.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := orgs.Get(c.Request.Context(), c.Param("orgId"))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

func ListOrganizations(orgs *org.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := orgs.List(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, views)
	}
}
