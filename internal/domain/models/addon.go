package models

// AddOnType distinguishes how an add-on is selected and priced.
type AddOnType string

const (
	// AddOnSingle has one fixed price, no options.
	AddOnSingle AddOnType = "single"
	// AddOnMultiple offers mutually exclusive options; at most one may be
	// selected, and one option may be a zero-price "included" default.
	AddOnMultiple AddOnType = "multiple"
	// AddOnCheckbox is an independent boolean toggle with a flat price.
	AddOnCheckbox AddOnType = "checkbox"
)

// AddOnOption is a selectable variant of a multiple-choice add-on.
type AddOnOption struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	IsDefault bool    `json:"is_default"`
}

// AddOn is an optional paid or included enhancement attached to a catalog
// item. Destination add-ons and ticket add-ons arrive in different storage
// shapes; the resolver normalizes both into this model.
type AddOn struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Type     AddOnType     `json:"type"`
	Price    float64       `json:"price"`
	Required bool          `json:"required"`
	Options  []AddOnOption `json:"options,omitempty"`
	// DefaultChecked applies to checkbox add-ons only.
	DefaultChecked bool `json:"default_checked,omitempty"`
}

// AddOnCategory groups add-ons for display.
type AddOnCategory struct {
	Name   string  `json:"name"`
	AddOns []AddOn `json:"addons"`
}

// SelectedAddOn is a derived record of one active selection. It is recomputed
// whenever the selection changes and never persisted independently.
type SelectedAddOn struct {
	AddOnID    int64     `json:"addon_id"`
	OptionID   int64     `json:"option_id,omitempty"`
	Name       string    `json:"name"`
	Type       AddOnType `json:"type"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
}
