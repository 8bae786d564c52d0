package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sevasetu/backend/internal/handler"
	"github.com/sevasetu/backend/internal/middleware"
	"github.com/sevasetu/backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	donationHandler *handler.DonationHandler,
	contactHandler *handler.ContactHandler,
	galleryHandler *handler.GalleryHandler,
	statsHandler *handler.StatsHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Public endpoints (website forms)
	api.POST("/members", memberHandler.CreateMember)
	api.POST("/donations", donationHandler.CreateDonation)
	api.POST("/contacts", contactHandler.CreateContact)
	api.GET("/gallery", galleryHandler.ListGallery)

	// Staff endpoints
	admin := api.Group("/admin", middleware.JWTAuth(jwtManager))
	{
		members := admin.Group("/members")
		members.GET("", memberHandler.ListMembers)
		members.GET("/:id", memberHandler.GetMember)
		members.PATCH("/:id", memberHandler.UpdateMember)
		members.DELETE("/:id", memberHandler.DeleteMember)
		members.POST("/:id/approve", memberHandler.ApproveMember)
		members.POST("/:id/reject", memberHandler.RejectMember)
		members.POST("/:id/resend-card", memberHandler.ResendCard)

		donations := admin.Group("/donations")
		donations.GET("", donationHandler.ListDonations)
		donations.GET("/:id", donationHandler.GetDonation)
		donations.PATCH("/:id", donationHandler.UpdateDonation)
		donations.DELETE("/:id", donationHandler.DeleteDonation)
		donations.POST("/:id/approve", donationHandler.ApproveDonation)
		donations.POST("/:id/reject", donationHandler.RejectDonation)
		donations.POST("/:id/resend-receipt", donationHandler.ResendReceipt)

		contacts := admin.Group("/contacts")
		contacts.GET("", contactHandler.ListContacts)
		contacts.GET("/:id", contactHandler.GetContact)
		contacts.DELETE("/:id", contactHandler.ArchiveContact)
		contacts.POST("/:id/read", contactHandler.MarkContactRead)

		gallery := admin.Group("/gallery")
		gallery.POST("", galleryHandler.UploadGalleryImage)
		gallery.DELETE("/:id", galleryHandler.DeleteGalleryImage)

		admin.GET("/stats", statsHandler.GetStats)
	}

	// Real-time dashboard events
	api.GET("/ws/dashboard", middleware.JWTAuth(jwtManager), wsHandler.Connect)
}
