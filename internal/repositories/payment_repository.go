package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PaymentRepository) Create(p models.PaymentIntent) (int64, error) {
	db := r.db()
	if db == nil {
		return 0, domain.InternalError{Msg: "db unavailable"}
	}

	res, err := db.Exec(`
		INSERT INTO payment_intents
			(reference, booking_reference, amount, currency, provider,
			 phone_number, account_name, status, redirect_url)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Reference, p.BookingRef, p.Amount, p.Currency, p.Provider,
		p.PhoneNumber, p.AccountName, string(p.Status), p.RedirectURL,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PaymentRepository) GetByReference(reference string) (models.PaymentIntent, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return models.PaymentIntent{}, domain.ValidationError{Field: "reference", Msg: "reference required"}
	}
	db := r.db()
	if db == nil {
		return models.PaymentIntent{}, domain.InternalError{Msg: "db unavailable"}
	}

	var (
		p      models.PaymentIntent
		status string
	)
	err := db.QueryRow(`
		SELECT id,
		       COALESCE(reference,''),
		       COALESCE(booking_reference,''),
		       COALESCE(amount,0),
		       COALESCE(currency,'GHS'),
		       COALESCE(provider,''),
		       COALESCE(phone_number,''),
		       COALESCE(account_name,''),
		       COALESCE(status,'pending'),
		       COALESCE(redirect_url,''),
		       COALESCE(failure_reason,''),
		       COALESCE(created_at,''),
		       COALESCE(updated_at,'')
		FROM payment_intents
		WHERE reference=? LIMIT 1`, reference).Scan(
		&p.ID,
		&p.Reference,
		&p.BookingRef,
		&p.Amount,
		&p.Currency,
		&p.Provider,
		&p.PhoneNumber,
		&p.AccountName,
		&status,
		&p.RedirectURL,
		&p.FailureReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PaymentIntent{}, domain.NotFoundError{Resource: "payment intent"}
		}
		return models.PaymentIntent{}, err
	}
	p.Status = models.ParsePaymentStatus(status)
	return p, nil
}

// UpdateStatus transitions a payment intent. A successful intent never
// changes again. A failed or cancelled intent may still flip to successful
// when the user authorizes out-of-band after the poll gave up; every other
// terminal transition is a conflict.
func (r PaymentRepository) UpdateStatus(reference string, status models.PaymentStatus, failureReason string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.ValidationError{Field: "reference", Msg: "reference required"}
	}
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "db unavailable"}
	}

	current, err := r.GetByReference(reference)
	if err != nil {
		return err
	}
	if current.Status.IsTerminal() && current.Status != status {
		if current.Status == models.PaymentSuccessful || status != models.PaymentSuccessful {
			return domain.ConflictError{Resource: "payment intent", Msg: "status is terminal"}
		}
	}

	_, err = db.Exec(`
		UPDATE payment_intents
		SET status=?, failure_reason=?, updated_at=NOW()
		WHERE reference=?`,
		string(status), failureReason, reference)
	return err
}
