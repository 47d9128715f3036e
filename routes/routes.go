package routes

import (
	"bizdesk/controllers"
	"bizdesk/middleware"
	"bizdesk/models"

	"github.com/gin-gonic/gin"
)

func InitializeRoutes(router *gin.Engine, h *controllers.Handler) {
	session := middleware.Session(h.Auth, h.Signer, h.Log, h.BearerTokens)

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", session, h.CheckSession)
	}

	// The bridge authenticates with its shared token.
	router.POST("/api/whatsapp/events", h.BridgeEvents)

	app := router.Group("/api")
	app.Use(session)
	{
		app.GET("/parties", h.ListParties)
		app.POST("/parties", h.AddParty)
		app.GET("/parties/:id", h.GetParty)
		app.PUT("/parties/:id", h.UpdateParty)

		app.GET("/templates", h.ListTemplates)
		app.PUT("/templates/:event", h.SaveTemplate)

		app.GET("/whatsapp/status", h.WhatsAppStatus)
		app.GET("/whatsapp/qr", h.WhatsAppQR)
		app.POST("/whatsapp/send", h.SendWhatsApp)
	}

	admin := router.Group("/api/staff")
	admin.Use(session, middleware.RequireKind(models.KindSuperAdmin))
	{
		admin.GET("", h.ListStaff)
		admin.POST("", h.AddStaff)
		admin.PUT("/:id/active", h.SetStaffActive)
	}
}
