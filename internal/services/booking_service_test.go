package services

import (
	"testing"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func destinationRow(id int64, basePrice float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "description", "region", "category",
		"base_price", "currency", "max_group_size", "duration_days",
		"image_url", "available", "featured",
	}).AddRow(id, "Kakum Canopy Tour", "kakum-canopy", "", "Central", "nature",
		basePrice, "GHS", 12, 2, "", true, false)
}

func expectQuoteQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT id").WithArgs(int64(7)).
		WillReturnRows(destinationRow(7, 100))

	// no pricing tiers table -> per-adult fallback
	mock.ExpectQuery("information_schema\\.tables").WithArgs("pricing_tiers").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	mock.ExpectQuery("information_schema\\.tables").WithArgs("destination_addons").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("destination_addons"))
	mock.ExpectQuery("SELECT id").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_name", "name", "type", "price", "required"}).
			AddRow(1, "Accommodation", "Hotel", "multiple", 0.0, true))

	mock.ExpectQuery("information_schema\\.tables").WithArgs("destination_addon_options").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("destination_addon_options"))
	mock.ExpectQuery("SELECT o.id").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "addon_id", "name", "price", "is_default"}).
			AddRow(10, 1, "Standard (included)", 0.0, true).
			AddRow(11, 1, "Premium Hotel", 500.0, false))
}

// adults=2, basePrice=100 (no tiers), Premium Hotel 500 -> 200 + 1000 = 1200.
func TestQuoteWorkedExample(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	expectQuoteQueries(mock)

	svc := BookingService{
		BookingRepo: repositories.BookingRepository{DB: db},
		CatalogRepo: repositories.CatalogRepository{DB: db},
		AddOnSvc: AddOnService{
			AddOnRepo:   repositories.AddOnRepository{DB: db},
			CatalogRepo: repositories.CatalogRepository{DB: db},
		},
	}

	draft := models.BookingDraft{
		DestinationID: 7,
		Travelers:     models.Travelers{Adults: 2},
	}
	quote, err := svc.Quote(draft, []SelectionRef{{AddOnID: 1, OptionID: 11}})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}

	if quote.BaseTotal != 200 {
		t.Fatalf("expected base 200, got %v", quote.BaseTotal)
	}
	if quote.AddOnTotal != 1000 {
		t.Fatalf("expected add-ons 1000, got %v", quote.AddOnTotal)
	}
	if quote.GrandTotal != 1200 {
		t.Fatalf("expected grand total 1200, got %v", quote.GrandTotal)
	}
	if quote.TierID != 0 {
		t.Fatalf("no tier should match, got %d", quote.TierID)
	}
}

func TestQuoteRejectsUnknownSelection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	expectQuoteQueries(mock)

	svc := BookingService{
		CatalogRepo: repositories.CatalogRepository{DB: db},
		AddOnSvc: AddOnService{
			AddOnRepo:   repositories.AddOnRepository{DB: db},
			CatalogRepo: repositories.CatalogRepository{DB: db},
		},
	}

	draft := models.BookingDraft{DestinationID: 7, Travelers: models.Travelers{Adults: 2}}
	_, err = svc.Quote(draft, []SelectionRef{{AddOnID: 99, OptionID: 1}})
	if !domain.IsValidation(err) {
		t.Fatalf("unknown add-on must be a validation error, got %v", err)
	}
}

func TestQuoteRequiresAnAdult(t *testing.T) {
	svc := BookingService{}
	_, err := svc.Quote(models.BookingDraft{DestinationID: 7}, nil)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPurchaseTicketValidatesIDBeforeLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := BookingService{
		BookingRepo: repositories.BookingRepository{DB: db},
		CatalogRepo: repositories.CatalogRepository{DB: db},
	}
	_, err = svc.PurchaseTicket(99, 2, "Kofi Boateng", "0200000000")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for ticket 99, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no DB access expected for invalid id: %v", err)
	}
}
