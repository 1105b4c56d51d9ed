package repositories

import (
	"database/sql"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"
	intdb "github.com/bassy1992/tailsandtrails-sub000/internal/db"
)

// DestinationAddOnRow is the raw storage shape for destination add-ons:
// typed add-ons grouped by a category name, options in a child table.
type DestinationAddOnRow struct {
	ID           int64
	CategoryName string
	Name         string
	Type         string
	Price        float64
	Required     bool
}

// DestinationOptionRow is one option of a multiple-choice destination add-on.
type DestinationOptionRow struct {
	ID        int64
	AddOnID   int64
	Name      string
	Price     float64
	IsDefault bool
}

// TicketAddOnRow is the raw storage shape for ticket add-ons: a flat list
// with no category taxonomy and no option table. Checkbox semantics are
// encoded in is_toggle / default_checked.
type TicketAddOnRow struct {
	ID             int64
	TicketID       int64
	Name           string
	Price          float64
	IsToggle       bool
	DefaultChecked bool
}

type AddOnRepository struct {
	DB *sql.DB
}

func (r AddOnRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AddOnRepository) ListDestinationAddOns(destinationID int64) ([]DestinationAddOnRow, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "destination_addons") {
		return []DestinationAddOnRow{}, nil
	}

	rows, err := db.Query(`
		SELECT id,
		       COALESCE(category_name,''),
		       COALESCE(name,''),
		       COALESCE(type,'single'),
		       COALESCE(price,0),
		       COALESCE(required,0)
		FROM destination_addons
		WHERE destination_id=?
		ORDER BY id ASC`, destinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DestinationAddOnRow{}
	for rows.Next() {
		var a DestinationAddOnRow
		if err := rows.Scan(&a.ID, &a.CategoryName, &a.Name, &a.Type, &a.Price, &a.Required); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r AddOnRepository) ListDestinationOptions(destinationID int64) ([]DestinationOptionRow, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "destination_addon_options") {
		return []DestinationOptionRow{}, nil
	}

	rows, err := db.Query(`
		SELECT o.id,
		       COALESCE(o.addon_id,0),
		       COALESCE(o.name,''),
		       COALESCE(o.price,0),
		       COALESCE(o.is_default,0)
		FROM destination_addon_options o
		JOIN destination_addons a ON a.id = o.addon_id
		WHERE a.destination_id=?
		ORDER BY o.addon_id ASC, o.id ASC`, destinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DestinationOptionRow{}
	for rows.Next() {
		var o DestinationOptionRow
		if err := rows.Scan(&o.ID, &o.AddOnID, &o.Name, &o.Price, &o.IsDefault); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r AddOnRepository) ListTicketAddOns(ticketID int64) ([]TicketAddOnRow, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "ticket_addons") {
		return []TicketAddOnRow{}, nil
	}

	rows, err := db.Query(`
		SELECT id,
		       COALESCE(ticket_id,0),
		       COALESCE(name,''),
		       COALESCE(price,0),
		       COALESCE(is_toggle,0),
		       COALESCE(default_checked,0)
		FROM ticket_addons
		WHERE ticket_id=?
		ORDER BY id ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TicketAddOnRow{}
	for rows.Next() {
		var a TicketAddOnRow
		if err := rows.Scan(&a.ID, &a.TicketID, &a.Name, &a.Price, &a.IsToggle, &a.DefaultChecked); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
