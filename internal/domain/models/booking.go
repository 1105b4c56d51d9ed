package models

// Travelers splits the party for pricing: multiple-choice option prices
// multiply by adults, checkbox add-ons are flat.
type Travelers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func (t Travelers) Total() int {
	return t.Adults + t.Children
}

// BookingDraft carries the in-progress booking between the storefront pages.
// It is discarded on abandonment; only a confirmed booking is persisted.
type BookingDraft struct {
	DestinationID  int64           `json:"destination_id"`
	SelectedDate   string          `json:"selected_date"`
	Travelers      Travelers       `json:"travelers"`
	SelectedAddOns []SelectedAddOn `json:"selected_addons"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerEmail  string          `json:"customer_email"`
}

// Booking is a persisted booking with its authoritative totals.
type Booking struct {
	ID             int64           `json:"id"`
	Reference      string          `json:"reference"`
	DestinationID  int64           `json:"destination_id"`
	Destination    string          `json:"destination"`
	SelectedDate   string          `json:"selected_date"`
	Adults         int             `json:"adults"`
	Children       int             `json:"children"`
	BaseTotal      float64         `json:"base_total"`
	AddOnTotal     float64         `json:"addon_total"`
	GrandTotal     float64         `json:"grand_total"`
	Currency       string          `json:"currency"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	CustomerEmail  string          `json:"customer_email"`
	PaymentStatus  string          `json:"payment_status"`
	SelectedAddOns []SelectedAddOn `json:"selected_addons,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

// TicketPurchase is a direct event-ticket purchase (no destination draft).
type TicketPurchase struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	TicketID      int64   `json:"ticket_id"`
	TicketTitle   string  `json:"ticket_title"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	PaymentStatus string  `json:"payment_status"`
}

// Quote is the authoritative server-side total for a draft.
type Quote struct {
	BaseTotal  float64         `json:"base_total"`
	AddOnTotal float64         `json:"addon_total"`
	GrandTotal float64         `json:"grand_total"`
	Currency   string          `json:"currency"`
	Lines      []SelectedAddOn `json:"lines"`
	TierID     int64           `json:"tier_id,omitempty"`
}
