package httpserver

import (
	"github.com/gin-gonic/gin"

	"accountd/internal/account"
	"accountd/internal/http/handlers"
	"accountd/internal/org"
)

func NewRouter(accounts *account.Service, orgs *org.Service, jwtSecret string) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api/v1")
	{
		users := api.Group("/users")
		users.GET("/sync", handlers.SyncUser(accounts))
		users.GET("/me", handlers.Me(accounts))
		users.GET("/context", handlers.UserContext(accounts))
		users.GET("/org/:orgId", handlers.ListOrgUsers(accounts))
		users.GET("/:id", handlers.GetUser(accounts))

		organizations := api.Group("/organizations")
		organizations.POST("", handlers.CreateOrganization(orgs))
		organizations.GET("", handlers.ListOrganizations(orgs))
		organizations.GET("/:orgId", handlers.GetOrganization(orgs))

		api.GET("/auth/sync", handlers.AuthSync(accounts, jwtSecret))
	}

	return r
}
