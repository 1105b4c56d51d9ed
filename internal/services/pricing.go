package services

import (
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
)

// Pricing is a pure fold over the current selection state. It is re-run on
// every quote and must be idempotent: same inputs, same output, no side
// effects. Totals are never cached.

// BaseTotal returns the base price for the party. A pricing tier matching
// the traveler count wins; otherwise basePrice multiplies per adult. The
// matching tier's id is returned for receipt display, 0 when none matched.
func BaseTotal(tiers []models.PricingTier, basePrice float64, adults int) (float64, int64) {
	for _, t := range tiers {
		if t.Matches(adults) {
			return t.TotalPrice, t.ID
		}
	}
	return basePrice * float64(adults), 0
}

// LineTotal derives the priced line for one active selection.
// Multiple-choice option prices multiply by adults; single and checkbox
// add-ons are flat, not multiplied by travelers.
func LineTotal(a models.AddOn, opt *models.AddOnOption, adults int) models.SelectedAddOn {
	line := models.SelectedAddOn{
		AddOnID:  a.ID,
		Name:     a.Name,
		Type:     a.Type,
		Quantity: 1,
	}

	switch a.Type {
	case models.AddOnMultiple:
		if opt != nil {
			line.OptionID = opt.ID
			line.Name = a.Name + ": " + opt.Name
			line.UnitPrice = opt.Price
			line.Quantity = adults
			line.TotalPrice = opt.Price * float64(adults)
		}
	default:
		line.UnitPrice = a.Price
		line.TotalPrice = a.Price
	}
	return line
}

// AddOnTotal sums the selection lines. Zero-price lines stay in the list for
// display but contribute nothing.
func AddOnTotal(lines []models.SelectedAddOn) float64 {
	var total float64
	for _, l := range lines {
		total += l.TotalPrice
	}
	return total
}

// GrandTotal folds base and add-on totals.
func GrandTotal(base, addOns float64) float64 {
	return base + addOns
}
