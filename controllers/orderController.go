package controllers

import (
	"ChemoOrder/handlers"
	"ChemoOrder/middlewares"
	"ChemoOrder/models"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers the order workflow surface: orders, patients,
// notifications, catalogs and image sharing. Everything here requires a
// valid token; the status transition additionally requires the pharmacist
// role.
func SetupOrderRoutes(
	router *gin.Engine,
	orderHandler *handlers.OrderHandler,
	patientHandler *handlers.PatientHandler,
	notificationHandler *handlers.NotificationHandler,
	drugHandler *handlers.DrugHandler,
	shareHandler *handlers.ShareHandler,
) {
	api := router.Group("/api").Use(middlewares.TokenAuthMiddleware())
	{
		api.POST("/orders", orderHandler.Create)
		api.GET("/orders", orderHandler.List)
		api.GET("/orders/:id", orderHandler.Get)
		api.PUT("/orders/:id", orderHandler.Update)
		api.DELETE("/orders/:id", orderHandler.Delete)

		api.GET("/patients", patientHandler.List)
		api.GET("/patients/:id", patientHandler.Get)
		api.PATCH("/patients/:id/complete", patientHandler.Complete)
		api.PATCH("/patients/:id/activate", patientHandler.Activate)

		api.GET("/notifications", notificationHandler.List)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		api.DELETE("/notifications/:id", notificationHandler.Delete)

		api.GET("/drugs", drugHandler.List)
		api.GET("/regimens", drugHandler.ListRegimens)

		api.POST("/share/images", shareHandler.Create)
	}

	pharmacistGroup := router.Group("/api").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RolePharmacist),
	)
	{
		pharmacistGroup.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	}
}
