package services

import (
	"strings"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/utils"
)

// BookingService turns drafts into quotes and persisted bookings. Totals are
// always recomputed server-side from stored prices; drafts never carry
// authoritative money.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	CatalogRepo repositories.CatalogRepository
	AddOnSvc    AddOnService
	RequestID   string
}

// Quote computes the authoritative total for a draft. Re-running it with the
// same draft yields the same result; nothing is cached or persisted.
func (s BookingService) Quote(draft models.BookingDraft, refs []SelectionRef) (models.Quote, error) {
	if draft.DestinationID <= 0 {
		return models.Quote{}, domain.ValidationError{Field: "destination_id", Msg: "invalid id"}
	}
	if draft.Travelers.Adults < 1 {
		return models.Quote{}, domain.ValidationError{Field: "travelers", Msg: "at least one adult required"}
	}

	dest, err := s.CatalogRepo.GetDestinationByID(draft.DestinationID)
	if err != nil {
		return models.Quote{}, err
	}
	tiers, err := s.CatalogRepo.ListPricingTiers(draft.DestinationID)
	if err != nil {
		return models.Quote{}, err
	}

	base, tierID := BaseTotal(tiers, dest.BasePrice, draft.Travelers.Adults)

	addOnTotal, lines, err := s.AddOnSvc.CalculateTotal(draft.DestinationID, ItemTypeDestination, draft.Travelers.Adults, refs)
	if err != nil {
		return models.Quote{}, err
	}

	return models.Quote{
		BaseTotal:  base,
		AddOnTotal: addOnTotal,
		GrandTotal: GrandTotal(base, addOnTotal),
		Currency:   dest.Currency,
		Lines:      lines,
		TierID:     tierID,
	}, nil
}

// Create persists a pending booking from a draft, pricing it from scratch.
func (s BookingService) Create(draft models.BookingDraft, refs []SelectionRef) (models.Booking, error) {
	if strings.TrimSpace(draft.CustomerName) == "" {
		return models.Booking{}, domain.ValidationError{Field: "customer_name", Msg: "name is required"}
	}
	if utils.NormalizePhone(draft.CustomerPhone) == "" {
		return models.Booking{}, domain.ValidationError{Field: "customer_phone", Msg: "phone is required"}
	}
	if _, err := utils.ParseDate(draft.SelectedDate); err != nil {
		return models.Booking{}, domain.ValidationError{Field: "selected_date", Msg: "date must be YYYY-MM-DD"}
	}

	dest, err := s.CatalogRepo.GetDestinationByID(draft.DestinationID)
	if err != nil {
		return models.Booking{}, err
	}
	if !dest.Available {
		return models.Booking{}, domain.ConflictError{Resource: "destination", Msg: "not open for booking"}
	}
	if dest.MaxGroupSize > 0 && draft.Travelers.Total() > dest.MaxGroupSize {
		return models.Booking{}, domain.ValidationError{Field: "travelers", Msg: "party exceeds the group size limit"}
	}

	quote, err := s.Quote(draft, refs)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		Reference:      utils.NewReference("TNT"),
		DestinationID:  dest.ID,
		Destination:    dest.Name,
		SelectedDate:   strings.TrimSpace(draft.SelectedDate),
		Adults:         draft.Travelers.Adults,
		Children:       draft.Travelers.Children,
		BaseTotal:      quote.BaseTotal,
		AddOnTotal:     quote.AddOnTotal,
		GrandTotal:     quote.GrandTotal,
		Currency:       quote.Currency,
		CustomerName:   utils.NormalizeSpace(draft.CustomerName),
		CustomerPhone:  utils.NormalizePhone(draft.CustomerPhone),
		CustomerEmail:  strings.TrimSpace(draft.CustomerEmail),
		PaymentStatus:  "pending",
		SelectedAddOns: quote.Lines,
	}

	id, err := s.BookingRepo.Create(booking)
	if err != nil {
		return models.Booking{}, err
	}
	booking.ID = id

	utils.LogEvent(s.RequestID, "booking", "create", "reference="+booking.Reference)
	return booking, nil
}

// PurchaseTicket creates a direct event-ticket purchase (no draft step).
func (s BookingService) PurchaseTicket(ticketID int64, quantity int, customerName, customerPhone string) (models.TicketPurchase, error) {
	if err := ValidateTicketID(ticketID); err != nil {
		return models.TicketPurchase{}, err
	}
	if quantity < 1 {
		return models.TicketPurchase{}, domain.ValidationError{Field: "quantity", Msg: "quantity must be at least 1"}
	}
	if strings.TrimSpace(customerName) == "" {
		return models.TicketPurchase{}, domain.ValidationError{Field: "customer_name", Msg: "name is required"}
	}
	if utils.NormalizePhone(customerPhone) == "" {
		return models.TicketPurchase{}, domain.ValidationError{Field: "customer_phone", Msg: "phone is required"}
	}

	ticket, err := s.CatalogRepo.GetTicketByID(ticketID)
	if err != nil {
		return models.TicketPurchase{}, err
	}
	if !ticket.Available {
		return models.TicketPurchase{}, domain.ConflictError{Resource: "ticket", Msg: "not on sale"}
	}
	if ticket.Remaining > 0 && quantity > ticket.Remaining {
		return models.TicketPurchase{}, domain.ConflictError{Resource: "ticket", Msg: "not enough tickets remaining"}
	}

	purchase := models.TicketPurchase{
		Reference:     utils.NewReference("TKT"),
		TicketID:      ticket.ID,
		TicketTitle:   ticket.Title,
		Quantity:      quantity,
		UnitPrice:     ticket.Price,
		Total:         ticket.Price * float64(quantity),
		Currency:      ticket.Currency,
		CustomerName:  utils.NormalizeSpace(customerName),
		CustomerPhone: utils.NormalizePhone(customerPhone),
		PaymentStatus: "pending",
	}

	id, err := s.BookingRepo.CreateTicketPurchase(purchase)
	if err != nil {
		return models.TicketPurchase{}, err
	}
	purchase.ID = id

	utils.LogEvent(s.RequestID, "booking", "purchase_ticket", "reference="+purchase.Reference)
	return purchase, nil
}
