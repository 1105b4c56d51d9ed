package services

import (
	"strings"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/session"
	"github.com/bassy1992/tailsandtrails-sub000/internal/utils"
)

// ConfirmationService assembles the receipt view for the success page. The
// gateway may bounce the customer back with nothing but a URL, so details
// are resolved through a fallback chain; every step may fail and the chain
// still ends in a generic success record rather than an error.
type ConfirmationService struct {
	PaymentRepo repositories.PaymentRepository
	BookingRepo repositories.BookingRepository
	Sessions    session.Store
	RequestID   string
}

// ConfirmationQuery carries whatever the caller still knows. Reference is
// the explicit request value; QueryReference arrives via the gateway's
// redirect query string.
type ConfirmationQuery struct {
	Reference      string
	QueryReference string
}

const (
	sourceRequest  = "request"
	sourceQuery    = "query"
	sourceSession  = "session"
	sourceFallback = "fallback"
)

// Resolve walks the fallback chain: explicit reference, redirect query
// parameter, session-store backup, then a generic record. Each candidate is
// enriched with a best-effort DB refetch; a failed refetch degrades to the
// bare reference instead of erroring.
func (s ConfirmationService) Resolve(q ConfirmationQuery) models.Confirmation {
	type candidate struct {
		reference string
		source    string
	}

	candidates := []candidate{
		{strings.TrimSpace(q.Reference), sourceRequest},
		{strings.TrimSpace(q.QueryReference), sourceQuery},
	}
	if s.Sessions != nil {
		if ref, ok := s.Sessions.Get(session.KeyCompletedPaymentData); ok {
			candidates = append(candidates, candidate{ref, sourceSession})
		}
		if ref, ok := s.Sessions.Get(session.KeyPaymentReference); ok {
			candidates = append(candidates, candidate{ref, sourceSession})
		}
	}

	for _, c := range candidates {
		if c.reference == "" {
			continue
		}
		if conf, ok := s.lookup(c.reference, c.source); ok {
			return conf
		}
	}

	utils.LogEvent(s.RequestID, "confirmation", "resolve", "no payment details available, serving generic record")
	return models.Confirmation{
		Status:  "successful",
		Source:  sourceFallback,
		Generic: true,
	}
}

func (s ConfirmationService) lookup(reference, source string) (models.Confirmation, bool) {
	intent, err := s.PaymentRepo.GetByReference(reference)
	if err != nil {
		// reference exists but details are gone: degrade, don't fail
		utils.LogEvent(s.RequestID, "confirmation", "resolve", "refetch failed for reference, degrading")
		return models.Confirmation{
			Reference: reference,
			Status:    "successful",
			Source:    source,
		}, true
	}

	conf := models.Confirmation{
		Reference:  intent.Reference,
		BookingRef: intent.BookingRef,
		Amount:     intent.Amount,
		Currency:   intent.Currency,
		Status:     string(intent.Status),
		Source:     source,
	}

	if intent.BookingRef != "" {
		if booking, err := s.BookingRepo.GetByReference(intent.BookingRef); err == nil {
			conf.CustomerName = booking.CustomerName
			conf.Destination = booking.Destination
		}
	}
	return conf, true
}
