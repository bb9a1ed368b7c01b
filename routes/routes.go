package routes

import (
	"frontend-go/controllers"
	"frontend-go/middleware"
	"frontend-go/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every view route. A GET on a view path mounts a fresh
// page; actions address that page by id.
func SetupRoutes(r *gin.Engine, ctl *controllers.Controller, profile services.ProfileFetcher, limiter *middleware.RateLimiter) {
	r.Use(middleware.LoadSession(profile))

	// Login and registration
	r.GET("/", ctl.LoginPage)
	r.GET("/login", ctl.LoginPage)
	r.POST("/login", middleware.RateLimit(limiter), ctl.Login)
	r.GET("/register", ctl.RegisterPage)
	r.POST("/register", middleware.RateLimit(limiter), ctl.Register)
	r.POST("/logout", ctl.Logout)

	// Mounts run the role lookup every time; nothing is cached
	r.GET("/dashboard", middleware.ResolveRole(), ctl.Dashboard)
	r.GET("/profile", middleware.ResolveRole(), ctl.Profile)
	r.GET("/appointments", middleware.ResolveRole(), ctl.Appointments)
	r.GET("/admin", middleware.ResolveRole(), middleware.AdvisoryAdmin(), ctl.Admin)

	dashboard := r.Group("/dashboard/:page", middleware.RequireSession())
	{
		dashboard.GET("/chat", ctl.ChatSocket)
		dashboard.POST("/chat", ctl.SendChat)
	}

	r.PUT("/profile/:page", middleware.RequireSession(), ctl.UpdateProfile)

	appointments := r.Group("/appointments/:page", middleware.RequireSession())
	{
		appointments.POST("", ctl.CreateAppointment)
		appointments.PUT("/:id", ctl.UpdateAppointment)
		appointments.DELETE("/:id", ctl.DeleteAppointment)
	}

	admin := r.Group("/admin/:page", middleware.RequireSession())
	{
		admin.POST("/appointments", ctl.AdminCreateAppointment)
		admin.PUT("/appointments/:id", ctl.AdminUpdateAppointment)
		admin.DELETE("/appointments/:id", ctl.AdminDeleteAppointment)
		admin.PATCH("/users/:id/role", ctl.ToggleUserRole)
		admin.DELETE("/users/:id", ctl.DeleteUser)
		admin.POST("/export", ctl.ExportAppointments)
	}

	// Page lifecycle
	r.GET("/pages/:page", ctl.GetPage)
	r.DELETE("/pages/:page", ctl.ClosePage)
}
