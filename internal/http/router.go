package api

import (
	"log"
	stdhttp "net/http"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"
	h "github.com/bassy1992/tailsandtrails-sub000/internal/http/handlers"
	"github.com/bassy1992/tailsandtrails-sub000/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Configure(env)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Catalog
		destinations := api.Group("/destinations")
		destinations.GET("", h.GetDestinations)
		destinations.GET("/:id", h.GetDestinationByID)
		destinations.GET("/:id/addons", h.GetDestinationAddOns)

		tickets := api.Group("/tickets")
		tickets.GET("", h.GetTickets)
		tickets.POST("/purchase", h.PurchaseTicket)
		tickets.GET("/purchases/:reference/e-ticket", h.GetTicketPDF)
		tickets.GET("/:id", h.GetTicketByID)
		tickets.GET("/:id/addons", h.GetTicketAddOns)

		api.GET("/categories", h.GetCategories)
		api.GET("/gallery", h.GetGallery)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("/quote", h.QuoteBooking)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:reference", h.GetBookingByReference)
		bookings.GET("/:reference/receipt", h.GetBookingReceiptPDF)

		// Payments
		payments := api.Group("/payments")
		payments.POST("", h.InitiatePayment)
		payments.GET("/:reference/status", h.GetPaymentStatus)
		payments.POST("/:reference/verify", h.VerifyPayment)
		payments.POST("/:reference/complete", h.CompletePayment)
		payments.POST("/complete", h.CompletePaymentByBody)
		payments.GET("/:reference/confirmation", h.GetPaymentConfirmation)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.GET("/me", middleware.RequireAuth([]byte(env.JWTSecret)), h.Me)
	}

	return r
}
