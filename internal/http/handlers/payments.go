package handlers

import (
	"net/http"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/http/middleware"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

func newPaymentService(c *gin.Context) services.PaymentService {
	gw, sess, policy := paymentDeps()
	return services.PaymentService{
		PaymentRepo: repositories.PaymentRepository{},
		BookingRepo: repositories.BookingRepository{},
		Gateway:     gw,
		Sessions:    sess,
		Policy:      policy,
		RequestID:   middleware.GetRequestID(c),
	}
}

// POST /api/payments
func InitiatePayment(c *gin.Context) {
	var req models.PaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Currency == "" {
		req.Currency = "GHS"
	}

	res, err := newPaymentService(c).Initiate(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/payments/:reference/status
func GetPaymentStatus(c *gin.Context) {
	repo := repositories.PaymentRepository{}
	intent, err := repo.GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference": intent.Reference,
		"status":    intent.Status,
		"terminal":  intent.Status.IsTerminal(),
	})
}

// POST /api/payments/:reference/verify
//
// Runs one server-side verification session. The request context carries the
// cancellation signal: a dropped connection stops the polling loop.
func VerifyPayment(c *gin.Context) {
	out, err := newPaymentService(c).Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type completeRequest struct {
	Reference string `json:"reference"`
}

// POST /api/payments/:reference/complete
func CompletePayment(c *gin.Context) {
	out, err := newPaymentService(c).Complete(c.Request.Context(), c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/payments/complete
//
// The gateway callback page may have lost the reference; the body carries it
// when known, otherwise the service falls back to the stored session value.
func CompletePaymentByBody(c *gin.Context) {
	var req completeRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	out, err := newPaymentService(c).Complete(c.Request.Context(), req.Reference)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/payments/:reference/confirmation
//
// The gateway may bounce the customer back with nothing but a query string;
// the confirmation is resolved through the fallback chain and never fails.
func GetPaymentConfirmation(c *gin.Context) {
	_, sess, _ := paymentDeps()
	svc := services.ConfirmationService{
		PaymentRepo: repositories.PaymentRepository{},
		BookingRepo: repositories.BookingRepository{},
		Sessions:    sess,
		RequestID:   middleware.GetRequestID(c),
	}

	conf := svc.Resolve(services.ConfirmationQuery{
		Reference:      c.Param("reference"),
		QueryReference: c.Query("reference"),
	})
	c.JSON(http.StatusOK, gin.H{"confirmation": conf})
}
