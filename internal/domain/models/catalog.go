package models

// Destination is a bookable tour destination. Server-owned; clients hold a
// read-only snapshot.
type Destination struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Region       string  `json:"region"`
	Category     string  `json:"category"`
	BasePrice    float64 `json:"base_price"`
	Currency     string  `json:"currency"`
	MaxGroupSize int     `json:"max_group_size"`
	DurationDays int     `json:"duration_days"`
	ImageURL     string  `json:"image_url"`
	Available    bool    `json:"available"`
	Featured     bool    `json:"featured"`
}

// EventTicket is a bookable event or attraction ticket.
type EventTicket struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Venue     string  `json:"venue"`
	EventDate string  `json:"event_date"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Capacity  int     `json:"capacity"`
	Remaining int     `json:"remaining"`
	Available bool    `json:"available"`
}

// PricingTier is a server-defined price banded by traveler-count range.
// A matching tier overrides naive per-person multiplication.
type PricingTier struct {
	ID            int64   `json:"id"`
	DestinationID int64   `json:"destination_id"`
	MinTravelers  int     `json:"min_travelers"`
	MaxTravelers  int     `json:"max_travelers"`
	TotalPrice    float64 `json:"total_price"`
}

// Matches reports whether the tier covers the given traveler count.
func (t PricingTier) Matches(travelers int) bool {
	if travelers < t.MinTravelers {
		return false
	}
	return t.MaxTravelers <= 0 || travelers <= t.MaxTravelers
}

// Category groups catalog items for browsing.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// GalleryImage is a media item attached to a destination.
type GalleryImage struct {
	ID            int64  `json:"id"`
	DestinationID int64  `json:"destination_id"`
	URL           string `json:"url"`
	Caption       string `json:"caption"`
}
