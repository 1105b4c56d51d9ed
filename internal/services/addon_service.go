package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"
	"github.com/bassy1992/tailsandtrails-sub000/internal/utils"
)

const (
	ItemTypeDestination = "destination"
	ItemTypeTicket      = "ticket"

	uncategorizedName = "Uncategorized"
)

// validTicketIDs is the fixed set of purchasable event tickets. An id
// outside this set short-circuits resolution before any DB access.
var validTicketIDs = []int64{1, 2, 3, 4, 5, 6}

// ticketAddOnCategories maps ticket add-on names onto display categories.
// The mapping is exact and exhaustive on purpose; anything unmapped lands in
// Uncategorized instead of being guessed from substrings.
var ticketAddOnCategories = map[string]string{
	"VIP Seating":       "Seating",
	"Front Row Seating": "Seating",
	"Souvenir Package":  "Merchandise",
	"Event T-Shirt":     "Merchandise",
	"Meet & Greet":      "Experiences",
	"Backstage Tour":    "Experiences",
	"Parking Pass":      "Logistics",
	"Shuttle Transfer":  "Logistics",
	"Refreshment Pack":  "Food & Drinks",
	"Dinner Buffet":     "Food & Drinks",
}

// AddOnService resolves the heterogeneous add-on shapes (destination
// add-ons with category/option tables vs flat ticket add-ons) into one
// uniform AddOnCategory list.
type AddOnService struct {
	AddOnRepo   repositories.AddOnRepository
	CatalogRepo repositories.CatalogRepository
	RequestID   string
}

// ValidateTicketID rejects ids outside the purchasable set with an error
// enumerating the valid ids.
func ValidateTicketID(id int64) error {
	for _, v := range validTicketIDs {
		if id == v {
			return nil
		}
	}
	parts := make([]string, 0, len(validTicketIDs))
	for _, v := range validTicketIDs {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return domain.ValidationError{
		Field: "ticket_id",
		Msg:   fmt.Sprintf("ticket id %d is not valid; valid ids are %s", id, strings.Join(parts, ", ")),
	}
}

// Resolve fetches and normalizes the add-on set for one catalog item.
func (s AddOnService) Resolve(id int64, itemType string) ([]models.AddOnCategory, error) {
	if id <= 0 {
		return nil, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}

	switch itemType {
	case ItemTypeDestination:
		return s.resolveDestination(id)
	case ItemTypeTicket:
		if err := ValidateTicketID(id); err != nil {
			utils.LogEvent(s.RequestID, "addons", "resolve", "ticket id rejected before fetch")
			return nil, err
		}
		return s.resolveTicket(id)
	default:
		return nil, domain.ValidationError{Field: "item_type", Msg: "must be destination or ticket"}
	}
}

func (s AddOnService) resolveDestination(id int64) ([]models.AddOnCategory, error) {
	rows, err := s.AddOnRepo.ListDestinationAddOns(id)
	if err != nil {
		return nil, err
	}
	optRows, err := s.AddOnRepo.ListDestinationOptions(id)
	if err != nil {
		return nil, err
	}

	optsByAddOn := map[int64][]models.AddOnOption{}
	for _, o := range optRows {
		optsByAddOn[o.AddOnID] = append(optsByAddOn[o.AddOnID], models.AddOnOption{
			ID:        o.ID,
			Name:      o.Name,
			Price:     o.Price,
			IsDefault: o.IsDefault,
		})
	}

	grouped := map[string][]models.AddOn{}
	for _, row := range rows {
		a := models.AddOn{
			ID:       row.ID,
			Name:     row.Name,
			Type:     normalizeAddOnType(row.Type),
			Price:    row.Price,
			Required: row.Required,
			Options:  optsByAddOn[row.ID],
		}
		cat := strings.TrimSpace(row.CategoryName)
		if cat == "" {
			cat = uncategorizedName
		}
		grouped[cat] = append(grouped[cat], a)
	}
	return sortedCategories(grouped), nil
}

func (s AddOnService) resolveTicket(id int64) ([]models.AddOnCategory, error) {
	rows, err := s.AddOnRepo.ListTicketAddOns(id)
	if err != nil {
		return nil, err
	}

	grouped := map[string][]models.AddOn{}
	for _, row := range rows {
		a := models.AddOn{
			ID:             row.ID,
			Name:           row.Name,
			Price:          row.Price,
			Type:           models.AddOnSingle,
			DefaultChecked: row.DefaultChecked,
		}
		if row.IsToggle {
			a.Type = models.AddOnCheckbox
		}

		cat, ok := ticketAddOnCategories[row.Name]
		if !ok {
			cat = uncategorizedName
		}
		grouped[cat] = append(grouped[cat], a)
	}
	return sortedCategories(grouped), nil
}

func normalizeAddOnType(raw string) models.AddOnType {
	switch models.AddOnType(strings.ToLower(strings.TrimSpace(raw))) {
	case models.AddOnMultiple:
		return models.AddOnMultiple
	case models.AddOnCheckbox:
		return models.AddOnCheckbox
	default:
		return models.AddOnSingle
	}
}

func sortedCategories(grouped map[string][]models.AddOn) []models.AddOnCategory {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	// Uncategorized renders last
	out := make([]models.AddOnCategory, 0, len(names))
	for _, name := range names {
		if name == uncategorizedName {
			continue
		}
		out = append(out, models.AddOnCategory{Name: name, AddOns: grouped[name]})
	}
	if addons, ok := grouped[uncategorizedName]; ok {
		out = append(out, models.AddOnCategory{Name: uncategorizedName, AddOns: addons})
	}
	return out
}

// SelectionRef is the client's compact reference to one chosen add-on.
type SelectionRef struct {
	AddOnID  int64 `json:"addon_id"`
	OptionID int64 `json:"option_id,omitempty"`
}

// CalculateTotal recomputes authoritative pricing for a set of selections,
// never trusting client-sent prices. Unknown add-on or option ids are
// validation errors rather than silently dropped lines.
func (s AddOnService) CalculateTotal(id int64, itemType string, adults int, refs []SelectionRef) (float64, []models.SelectedAddOn, error) {
	categories, err := s.Resolve(id, itemType)
	if err != nil {
		return 0, nil, err
	}

	sel := NewSelection(categories, adults)
	sel.ClearAll()
	for _, ref := range refs {
		addon, ok := sel.findAddOn(ref.AddOnID)
		if !ok {
			return 0, nil, domain.ValidationError{Field: "addon_id", Msg: fmt.Sprintf("unknown add-on %d", ref.AddOnID)}
		}
		switch addon.Type {
		case models.AddOnMultiple:
			if err := sel.SelectOption(ref.AddOnID, ref.OptionID); err != nil {
				return 0, nil, err
			}
		default:
			sel.Toggle(ref.AddOnID)
		}
	}

	lines := sel.Lines()
	return AddOnTotal(lines), lines, nil
}

// AddOnSelection tracks in-memory selection state over a resolved add-on
// set. Invariants: at most one option per multiple-choice add-on; checkbox
// add-ons are independent booleans; clearing never leaves zero-price
// duplicates behind.
type AddOnSelection struct {
	categories []models.AddOnCategory
	adults     int

	chosenOption map[int64]int64 // addon id -> option id
	toggled      map[int64]bool  // checkbox/single add-on id -> on
}

// NewSelection builds selection state and auto-selects defaults: required
// multiple-choice add-ons take their flagged default option, and
// default-checked checkbox add-ons start toggled on.
func NewSelection(categories []models.AddOnCategory, adults int) *AddOnSelection {
	if adults < 1 {
		adults = 1
	}
	sel := &AddOnSelection{
		categories:   categories,
		adults:       adults,
		chosenOption: map[int64]int64{},
		toggled:      map[int64]bool{},
	}

	for _, cat := range categories {
		for _, a := range cat.AddOns {
			switch a.Type {
			case models.AddOnMultiple:
				if !a.Required {
					continue
				}
				for _, o := range a.Options {
					if o.IsDefault {
						sel.chosenOption[a.ID] = o.ID
						break
					}
				}
			case models.AddOnCheckbox:
				if a.DefaultChecked {
					sel.toggled[a.ID] = true
				}
			}
		}
	}
	return sel
}

// SelectOption sets the chosen option for a multiple-choice add-on. An
// optionID of 0 ("skip") clears the selection rather than recording a
// zero-price entry.
func (s *AddOnSelection) SelectOption(addonID, optionID int64) error {
	addon, ok := s.findAddOn(addonID)
	if !ok {
		return domain.ValidationError{Field: "addon_id", Msg: fmt.Sprintf("unknown add-on %d", addonID)}
	}
	if addon.Type != models.AddOnMultiple {
		return domain.ValidationError{Field: "addon_id", Msg: "add-on has no options"}
	}

	if optionID == 0 {
		delete(s.chosenOption, addonID)
		return nil
	}

	for _, o := range addon.Options {
		if o.ID == optionID {
			s.chosenOption[addonID] = optionID
			return nil
		}
	}
	return domain.ValidationError{Field: "option_id", Msg: fmt.Sprintf("unknown option %d for add-on %d", optionID, addonID)}
}

// Toggle flips a checkbox or single add-on.
func (s *AddOnSelection) Toggle(addonID int64) {
	if s.toggled[addonID] {
		delete(s.toggled, addonID)
		return
	}
	if _, ok := s.findAddOn(addonID); ok {
		s.toggled[addonID] = true
	}
}

func (s *AddOnSelection) IsSelected(addonID int64) bool {
	if _, ok := s.chosenOption[addonID]; ok {
		return true
	}
	return s.toggled[addonID]
}

// ClearAll drops every selection including defaults.
func (s *AddOnSelection) ClearAll() {
	s.chosenOption = map[int64]int64{}
	s.toggled = map[int64]bool{}
}

// Lines derives the current SelectedAddOn list. It is recomputed on every
// call from the selection maps; nothing is cached.
func (s *AddOnSelection) Lines() []models.SelectedAddOn {
	out := []models.SelectedAddOn{}
	for _, cat := range s.categories {
		for _, a := range cat.AddOns {
			switch a.Type {
			case models.AddOnMultiple:
				optID, ok := s.chosenOption[a.ID]
				if !ok {
					continue
				}
				for i := range a.Options {
					if a.Options[i].ID == optID {
						out = append(out, LineTotal(a, &a.Options[i], s.adults))
						break
					}
				}
			default:
				if s.toggled[a.ID] {
					out = append(out, LineTotal(a, nil, s.adults))
				}
			}
		}
	}
	return out
}

// Total folds the current lines.
func (s *AddOnSelection) Total() float64 {
	return AddOnTotal(s.Lines())
}

func (s *AddOnSelection) findAddOn(addonID int64) (models.AddOn, bool) {
	for _, cat := range s.categories {
		for _, a := range cat.AddOns {
			if a.ID == addonID {
				return a, true
			}
		}
	}
	return models.AddOn{}, false
}
