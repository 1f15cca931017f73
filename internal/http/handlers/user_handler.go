package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"accountd/internal/account"
)

// HeaderExternalUserID carries the authenticated caller's identity-provider
// user id, set by the edge that terminated authentication.
const HeaderExternalUserID = "x-external-user-id"

func externalUserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderExternalUserID))
}

// SyncUser reconciles the caller with the local store. Signup and login both
// land here; no org hint on this surface.
func SyncUser(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		extID := externalUserID(c)
		if extID == "" {
			failValidation(c, HeaderExternalUserID+" header is required")
			return
		}

		view, err := accounts.Sync(c.Request.Context(), extID, "")
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

// Me returns the caller's full profile view.
func Me(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		extID := externalUserID(c)
		if extID == "" {
			failValidation(c, HeaderExternalUserID+" header is required")
			return
		}

		view, err := accounts.GetByExternalID(c.Request.Context(), extID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

// GetUser returns the full profile view by local numeric id.
func GetUser(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			failValidation(c, "user id must be numeric")
			return
		}

		view, err := accounts.GetByID(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

// ListOrgUsers returns the full profile view of every member of one
// organization.
func ListOrgUsers(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := accounts.ListByOrganization(c.Request.Context(), c.Param("orgId"))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, views)
	}
}

// UserContext returns the lightweight context view, bare. Absence is a bare
// 404 with no body so authorization callers can branch on status alone.
func UserContext(accounts *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		extID := strings.TrimSpace(c.Query("externalUserId"))
		if extID == "" {
			c.Status(http.StatusBadRequest)
			return
		}

		view, err := accounts.Context(c.Request.Context(), extID)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		if view == nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
