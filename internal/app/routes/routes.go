package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/lecturehub/internal/app/controllers"
	"github.com/yigit/lecturehub/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	Material *controllers.MaterialController
	Course   *controllers.CourseController
	Health   *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", ctrl.Health.Ping)

	api := router.Group("/api")
	api.GET("/health", ctrl.Health.Health)

	requireSession := authMiddleware.RequireSession()

	// Lecturer session routes
	lecturer := api.Group("/lecturer")
	{
		lecturer.POST("/login", ctrl.Auth.Login)
		lecturer.POST("/logout", ctrl.Auth.Logout)
		// Only an existing lecturer can create another account
		lecturer.POST("/signup", requireSession, ctrl.Auth.Signup)
		lecturer.GET("/courses", requireSession, ctrl.Course.List)
		lecturer.GET("/courses/:slug/materials", requireSession, ctrl.Course.Materials)
	}

	api.GET("/auth/me", requireSession, ctrl.Auth.Me)

	// Material catalog: reads are public, writes need a session
	materials := api.Group("/materials")
	{
		materials.GET("", ctrl.Material.List)
		materials.GET("/search", ctrl.Material.Search)
		materials.GET("/:id", ctrl.Material.View)
		materials.GET("/:id/download", ctrl.Material.Download)
		materials.POST("", requireSession, ctrl.Material.Upload)
		materials.DELETE("/:id", requireSession, ctrl.Material.Delete)
	}
}

// ServeLocalUploads exposes files written by the local storage driver
func ServeLocalUploads(router *gin.Engine, urlPath, dir string) {
	router.Static(urlPath, dir)
}
