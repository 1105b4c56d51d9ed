package models

// PaymentStatus is the gateway-reported state of a payment intent.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// IsTerminal reports whether no further transition can occur.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentSuccessful, PaymentFailed, PaymentCancelled:
		return true
	default:
		return false
	}
}

// ParsePaymentStatus maps a raw gateway string onto a known status.
// Unknown strings are treated as pending so polling keeps going rather
// than crashing on a new gateway vocabulary.
func ParsePaymentStatus(raw string) PaymentStatus {
	switch PaymentStatus(raw) {
	case PaymentPending, PaymentProcessing, PaymentSuccessful, PaymentFailed, PaymentCancelled:
		return PaymentStatus(raw)
	default:
		return PaymentPending
	}
}

// PaymentIntent is the server-side record of one payment attempt against the
// mobile-money gateway. Terminal intents never change status again.
type PaymentIntent struct {
	ID            int64         `json:"id"`
	Reference     string        `json:"reference"`
	BookingRef    string        `json:"booking_reference"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Provider      string        `json:"provider"`
	PhoneNumber   string        `json:"phone_number"`
	AccountName   string        `json:"account_name"`
	Status        PaymentStatus `json:"status"`
	RedirectURL   string        `json:"redirect_url,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

// PaymentRequest is the storefront's payment-initiation payload.
type PaymentRequest struct {
	BookingRef  string  `json:"booking_reference"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Provider    string  `json:"provider"`
	PhoneNumber string  `json:"phone_number"`
	AccountName string  `json:"account_name"`
}

// Confirmation is the receipt view assembled by the fallback chain. Fields
// may be blank when upstream data was lost; Generic marks the last-resort
// record that carries no transaction detail.
type Confirmation struct {
	Reference     string  `json:"reference,omitempty"`
	BookingRef    string  `json:"booking_reference,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Status        string  `json:"status"`
	CustomerName  string  `json:"customer_name,omitempty"`
	Destination   string  `json:"destination,omitempty"`
	Source        string  `json:"source"`
	Generic       bool    `json:"generic,omitempty"`
}
