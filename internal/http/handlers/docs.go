package handlers

import (
	"net/http"

	"github.com/bassy1992/tailsandtrails-sub000/internal/http/middleware"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:reference/receipt
func GetBookingReceiptPDF(c *gin.Context) {
	svc := services.DocsService{
		BookingRepo: repositories.BookingRepository{},
		PaymentRepo: repositories.PaymentRepository{},
		RequestID:   middleware.GetRequestID(c),
	}

	raw, filename, err := svc.GenerateReceipt(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

// GET /api/tickets/purchases/:reference/e-ticket
func GetTicketPDF(c *gin.Context) {
	svc := services.DocsService{
		BookingRepo: repositories.BookingRepository{},
		PaymentRepo: repositories.PaymentRepository{},
		RequestID:   middleware.GetRequestID(c),
	}

	raw, filename, err := svc.GenerateTicket(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}
