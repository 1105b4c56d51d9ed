package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking receipts and event e-tickets as PDFs.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	PaymentRepo repositories.PaymentRepository
	RequestID   string
}

// GenerateReceipt renders the payment receipt for a booking, line items
// included. Payment details are best-effort: a receipt still renders when
// the intent record is gone.
func (s DocsService) GenerateReceipt(reference string) ([]byte, string, error) {
	booking, err := s.BookingRepo.GetByReference(reference)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "reference="+reference)
	return buildReceiptPDF(booking)
}

// GenerateTicket renders the e-ticket for a direct ticket purchase.
func (s DocsService) GenerateTicket(reference string) ([]byte, string, error) {
	purchase, err := s.BookingRepo.GetTicketPurchaseByReference(reference)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_ticket", "reference="+reference)
	return buildTicketPDF(purchase)
}

func buildReceiptPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TAILS & TRAILS - BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference    : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Issued       : %s", time.Now().Format("2006-01-02 15:04")),
		fmt.Sprintf("Customer     : %s", safe(b.CustomerName, "-")),
		fmt.Sprintf("Phone        : %s", safe(b.CustomerPhone, "-")),
		fmt.Sprintf("Destination  : %s", safe(b.Destination, "-")),
		fmt.Sprintf("Travel date  : %s", safe(b.SelectedDate, "-")),
		fmt.Sprintf("Party        : %d adult(s), %d child(ren)", b.Adults, b.Children),
		fmt.Sprintf("Payment      : %s", safe(b.PaymentStatus, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Line items:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Base package: %s", utils.FormatCedis(b.BaseTotal)))
	pdf.Ln(6)
	for _, line := range b.SelectedAddOns {
		desc := fmt.Sprintf("%s x%d: %s", safe(line.Name, "-"), line.Quantity, utils.FormatCedis(line.TotalPrice))
		pdf.MultiCell(0, 6, desc, "", "", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatCedis(b.GrandTotal))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Keep this receipt for your records. Present your reference at the park entrance.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func buildTicketPDF(p models.TicketPurchase) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Event        : %s", safe(p.TicketTitle, "-")),
		fmt.Sprintf("Reference    : %s", safe(p.Reference, "-")),
		fmt.Sprintf("Holder       : %s", safe(p.CustomerName, "-")),
		fmt.Sprintf("Phone        : %s", safe(p.CustomerPhone, "-")),
		fmt.Sprintf("Quantity     : %d", p.Quantity),
		fmt.Sprintf("Total paid   : %s", utils.FormatCedis(p.Total)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Admits the quantity shown. Present this ticket at the venue gate.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(p.Reference))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	out := replacer.Replace(strings.TrimSpace(s))
	if out == "" {
		return "unknown"
	}
	return out
}
