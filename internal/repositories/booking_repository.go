package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"
	intdb "github.com/bassy1992/tailsandtrails-sub000/internal/db"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create persists a booking with its authoritative totals. Selected add-ons
// are stored as a JSON column; they are derived data and only kept so the
// receipt can render the line items later.
func (r BookingRepository) Create(b models.Booking) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db unavailable"}
	}

	addonsJSON, err := json.Marshal(b.SelectedAddOns)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}

	res, err := db.Exec(`
		INSERT INTO bookings
			(reference, destination_id, destination, selected_date, adults, children,
			 base_total, addon_total, grand_total, currency,
			 customer_name, customer_phone, customer_email,
			 payment_status, selected_addons)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Reference, b.DestinationID, b.Destination, b.SelectedDate, b.Adults, b.Children,
		b.BaseTotal, b.AddOnTotal, b.GrandTotal, b.Currency,
		b.CustomerName, b.CustomerPhone, intdb.NullIfEmpty(b.CustomerEmail),
		b.PaymentStatus, string(addonsJSON),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepository) GetByReference(reference string) (models.Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "reference required"}
	}
	db := r.db()
	if db == nil {
		return models.Booking{}, domain.InternalError{Msg: "db unavailable"}
	}

	var (
		b          models.Booking
		addonsJSON string
	)
	err := db.QueryRow(`
		SELECT id,
		       COALESCE(reference,''),
		       COALESCE(destination_id,0),
		       COALESCE(destination,''),
		       COALESCE(selected_date,''),
		       COALESCE(adults,0),
		       COALESCE(children,0),
		       COALESCE(base_total,0),
		       COALESCE(addon_total,0),
		       COALESCE(grand_total,0),
		       COALESCE(currency,'GHS'),
		       COALESCE(customer_name,''),
		       COALESCE(customer_phone,''),
		       COALESCE(customer_email,''),
		       COALESCE(payment_status,'pending'),
		       COALESCE(selected_addons,'[]'),
		       COALESCE(created_at,'')
		FROM bookings
		WHERE reference=? LIMIT 1`, reference).Scan(
		&b.ID,
		&b.Reference,
		&b.DestinationID,
		&b.Destination,
		&b.SelectedDate,
		&b.Adults,
		&b.Children,
		&b.BaseTotal,
		&b.AddOnTotal,
		&b.GrandTotal,
		&b.Currency,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.PaymentStatus,
		&addonsJSON,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, err
	}

	// tolerate a malformed column; line items are display-only
	_ = json.Unmarshal([]byte(addonsJSON), &b.SelectedAddOns)
	return b, nil
}

func (r BookingRepository) UpdatePaymentStatus(reference, status string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "reference required"}
	}
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db unavailable"}
	}

	res, err := db.Exec(`UPDATE bookings SET payment_status=? WHERE reference=?`, status, reference)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// CreateTicketPurchase persists a direct event-ticket purchase.
func (r BookingRepository) CreateTicketPurchase(p models.TicketPurchase) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db unavailable"}
	}

	res, err := db.Exec(`
		INSERT INTO ticket_purchases
			(reference, ticket_id, ticket_title, quantity, unit_price, total, currency,
			 customer_name, customer_phone, payment_status)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.Reference, p.TicketID, p.TicketTitle, p.Quantity, p.UnitPrice, p.Total, p.Currency,
		p.CustomerName, p.CustomerPhone, p.PaymentStatus,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepository) GetTicketPurchaseByReference(reference string) (models.TicketPurchase, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.TicketPurchase{}, domain.ValidationError{Field: "reference", Msg: "reference required"}
	}
	db := r.db()
	if db == nil {
		return models.TicketPurchase{}, domain.InternalError{Msg: "db unavailable"}
	}

	var p models.TicketPurchase
	err := db.QueryRow(`
		SELECT id,
		       COALESCE(reference,''),
		       COALESCE(ticket_id,0),
		       COALESCE(ticket_title,''),
		       COALESCE(quantity,0),
		       COALESCE(unit_price,0),
		       COALESCE(total,0),
		       COALESCE(currency,'GHS'),
		       COALESCE(customer_name,''),
		       COALESCE(customer_phone,''),
		       COALESCE(payment_status,'pending')
		FROM ticket_purchases
		WHERE reference=? LIMIT 1`, reference).Scan(
		&p.ID,
		&p.Reference,
		&p.TicketID,
		&p.TicketTitle,
		&p.Quantity,
		&p.UnitPrice,
		&p.Total,
		&p.Currency,
		&p.CustomerName,
		&p.CustomerPhone,
		&p.PaymentStatus,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TicketPurchase{}, domain.NotFoundError{Resource: "ticket purchase"}
		}
		return models.TicketPurchase{}, err
	}
	return p, nil
}
