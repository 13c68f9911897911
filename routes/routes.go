package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"grievance-management-api/controllers"
	"grievance-management-api/middleware"
	"grievance-management-api/services"
)

// Every workflow operation gets its own endpoint under /complaints/:id/,
// gated by the roles the engine declares for it.
var transitionRoutes = []services.TransitionName{
	services.TransitionRaisedToJEAcknowledged,
	services.TransitionRaisedToResourceRequired,
	services.TransitionJEAcknowledgedToJEWorkDone,
	services.TransitionCRNotSatisfiedToJEWorkDone,
	services.TransitionJEWorkDoneToAEAcknowledged,
	services.TransitionJEWorkDoneToAENotSatisfied,
	services.TransitionJEWorkDoneToResolved,
	services.TransitionJEWorkDoneToCRNotSatisfied,
	services.TransitionAEAcknowledgedToEEAcknowledged,
	services.TransitionAEAcknowledgedToEENotSatisfied,
	services.TransitionEEAcknowledgedToResolved,
	services.TransitionEEAcknowledgedToCRNotSatisfied,
	services.TransitionChangeDepartment,
	services.TransitionResourceRequiredToAENotTerminated,
	services.TransitionResourceRequiredToAETerminated,
	services.TransitionResourceRequiredToRaised,
	services.TransitionAENotTerminatedToRaised,
	services.TransitionAENotTerminatedToResourceRequired,
	services.TransitionAETerminatedToEENotTerminated,
	services.TransitionAETerminatedToEETerminated,
	services.TransitionEENotTerminatedToAETerminated,
	services.TransitionEENotTerminatedToAENotTerminated,
	services.TransitionEETerminatedToTerminated,
	services.TransitionCRNotSatisfiedToEEAcknowledged,
	services.TransitionAERemarkWhenCRNotSatisfied,
	services.TransitionEERemarkWhenCRNotSatisfied,
}

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Grievance Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Complaints
			complaints := protected.Group("/complaints")
			{
				complaints.POST("", controllers.CreateComplaint)
				complaints.GET("", controllers.GetComplaints)
				complaints.GET("/:id", controllers.GetComplaint)

				// Workflow operations, one route per transition
				for _, name := range transitionRoutes {
					path := "/:id/" + strings.ReplaceAll(string(name), "_", "-")
					complaints.POST(path,
						middleware.RequireRole(services.AllowedRoles(name)...),
						controllers.TransitionHandler(name))
				}

				// Deferred expenditure backfill (not a status transition)
				complaints.POST("/:id/price",
					middleware.RequireRole(services.RolesForPriceEntry()...),
					controllers.EnterPrice)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}
		}
	}
}
