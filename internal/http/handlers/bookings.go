package handlers

import (
	"net/http"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/http/middleware"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type bookingRequest struct {
	Draft      models.BookingDraft     `json:"draft"`
	Selections []services.SelectionRef `json:"selections"`
}

func newBookingService(c *gin.Context) services.BookingService {
	reqID := middleware.GetRequestID(c)
	return services.BookingService{
		BookingRepo: repositories.BookingRepository{},
		CatalogRepo: repositories.CatalogRepository{},
		AddOnSvc: services.AddOnService{
			AddOnRepo:   repositories.AddOnRepository{},
			CatalogRepo: repositories.CatalogRepository{},
			RequestID:   reqID,
		},
		RequestID: reqID,
	}
}

// POST /api/bookings/quote
func QuoteBooking(c *gin.Context) {
	var req bookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	quote, err := newBookingService(c).Quote(req.Draft, req.Selections)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req bookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	booking, err := newBookingService(c).Create(req.Draft, req.Selections)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings/:reference
func GetBookingByReference(c *gin.Context) {
	repo := repositories.BookingRepository{}
	booking, err := repo.GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type ticketPurchaseRequest struct {
	TicketID      int64  `json:"ticket_id"`
	Quantity      int    `json:"quantity"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// POST /api/tickets/purchase
func PurchaseTicket(c *gin.Context) {
	var req ticketPurchaseRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	purchase, err := newBookingService(c).PurchaseTicket(req.TicketID, req.Quantity, req.CustomerName, req.CustomerPhone)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}
