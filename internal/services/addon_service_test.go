package services

import (
	"strings"
	"testing"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestResolveRejectsInvalidTicketIDWithoutFetch(t *testing.T) {
	// no sqlmock expectations set: any query would fail the test
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := AddOnService{AddOnRepo: repositories.AddOnRepository{DB: db}}
	_, err = svc.Resolve(99, ItemTypeTicket)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "99") || !strings.Contains(err.Error(), "1, 2, 3, 4, 5, 6") {
		t.Fatalf("error should name the bad id and enumerate valid ids: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no DB access expected: %v", err)
	}
}

func TestResolveTicketNormalizesFlatShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("ticket_addons").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("ticket_addons"))
	mock.ExpectQuery("SELECT id").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_id", "name", "price", "is_toggle", "default_checked"}).
			AddRow(1, 3, "VIP Seating", 150.0, true, false).
			AddRow(2, 3, "Souvenir Package", 40.0, true, true).
			AddRow(3, 3, "Glow Bracelet", 5.0, true, false))

	svc := AddOnService{AddOnRepo: repositories.AddOnRepository{DB: db}}
	cats, err := svc.Resolve(3, ItemTypeTicket)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	byName := map[string]models.AddOnCategory{}
	for _, c := range cats {
		byName[c.Name] = c
	}
	if _, ok := byName["Seating"]; !ok {
		t.Fatalf("VIP Seating should map to Seating, got %+v", cats)
	}
	if _, ok := byName["Merchandise"]; !ok {
		t.Fatalf("Souvenir Package should map to Merchandise")
	}
	unc, ok := byName["Uncategorized"]
	if !ok || len(unc.AddOns) != 1 || unc.AddOns[0].Name != "Glow Bracelet" {
		t.Fatalf("unmapped names must land in an explicit Uncategorized category, got %+v", cats)
	}
	if cats[len(cats)-1].Name != "Uncategorized" {
		t.Fatalf("Uncategorized should render last")
	}
}

func destinationCategories() []models.AddOnCategory {
	return []models.AddOnCategory{
		{
			Name: "Accommodation",
			AddOns: []models.AddOn{
				{
					ID:       1,
					Name:     "Hotel",
					Type:     models.AddOnMultiple,
					Required: true,
					Options: []models.AddOnOption{
						{ID: 10, Name: "Standard (included)", Price: 0, IsDefault: true},
						{ID: 11, Name: "Premium Hotel", Price: 500},
					},
				},
			},
		},
		{
			Name: "Experiences",
			AddOns: []models.AddOn{
				{ID: 2, Name: "Canopy Walk", Type: models.AddOnCheckbox, Price: 80, DefaultChecked: true},
				{ID: 3, Name: "Drone Footage", Type: models.AddOnCheckbox, Price: 250},
			},
		},
	}
}

func TestNewSelectionAutoSelectsDefaults(t *testing.T) {
	sel := NewSelection(destinationCategories(), 2)

	if !sel.IsSelected(1) {
		t.Fatalf("required multiple-choice add-on should default to flagged option")
	}
	if !sel.IsSelected(2) {
		t.Fatalf("default-checked checkbox should start toggled")
	}
	if sel.IsSelected(3) {
		t.Fatalf("unchecked checkbox should start off")
	}

	// included zero-price default is tracked but contributes 0
	if total := sel.Total(); total != 80 {
		t.Fatalf("expected only canopy walk (80), got %v", total)
	}
}

func TestSelectOptionSkipClearsSelection(t *testing.T) {
	sel := NewSelection(destinationCategories(), 2)

	if err := sel.SelectOption(1, 11); err != nil {
		t.Fatalf("select premium failed: %v", err)
	}
	if total := sel.Total(); total != 500*2+80 {
		t.Fatalf("expected 1080, got %v", total)
	}

	// toggling back to "skip" removes the prior selection entirely
	if err := sel.SelectOption(1, 0); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if sel.IsSelected(1) {
		t.Fatalf("skip should clear the selection")
	}

	lines := sel.Lines()
	for _, l := range lines {
		if l.AddOnID == 1 {
			t.Fatalf("cleared add-on must not leave a zero-price line: %+v", lines)
		}
	}
}

func TestSelectOptionIsMutuallyExclusive(t *testing.T) {
	sel := NewSelection(destinationCategories(), 2)

	_ = sel.SelectOption(1, 10)
	_ = sel.SelectOption(1, 11)

	count := 0
	for _, l := range sel.Lines() {
		if l.AddOnID == 1 {
			count++
			if l.OptionID != 11 {
				t.Fatalf("latest option should win, got %+v", l)
			}
		}
	}
	if count != 1 {
		t.Fatalf("at most one option per multiple-choice add-on, got %d lines", count)
	}
}

func TestSelectOptionRejectsUnknownIDs(t *testing.T) {
	sel := NewSelection(destinationCategories(), 2)

	if err := sel.SelectOption(77, 1); !domain.IsValidation(err) {
		t.Fatalf("unknown add-on should be a validation error, got %v", err)
	}
	if err := sel.SelectOption(1, 999); !domain.IsValidation(err) {
		t.Fatalf("unknown option should be a validation error, got %v", err)
	}
}

func TestToggleIsIndependentBoolean(t *testing.T) {
	sel := NewSelection(destinationCategories(), 3)
	sel.ClearAll()

	sel.Toggle(2)
	sel.Toggle(3)
	if total := sel.Total(); total != 330 {
		t.Fatalf("expected flat 80+250=330 regardless of travelers, got %v", total)
	}

	sel.Toggle(3)
	if sel.IsSelected(3) {
		t.Fatalf("second toggle should turn the add-on off")
	}
}
