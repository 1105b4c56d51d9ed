package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "github.com/bassy1992/tailsandtrails-sub000/internal/config"
	intdb "github.com/bassy1992/tailsandtrails-sub000/internal/db"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain"
	"github.com/bassy1992/tailsandtrails-sub000/internal/domain/models"
)

type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const destinationColumns = `id,
	COALESCE(name,''),
	COALESCE(slug,''),
	COALESCE(description,''),
	COALESCE(region,''),
	COALESCE(category,''),
	COALESCE(base_price,0),
	COALESCE(currency,'GHS'),
	COALESCE(max_group_size,0),
	COALESCE(duration_days,0),
	COALESCE(image_url,''),
	COALESCE(available,1),
	COALESCE(featured,0)`

// ListDestinations returns available destinations, optionally filtered by category.
func (r CatalogRepository) ListDestinations(category string) ([]models.Destination, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "destinations") {
		return []models.Destination{}, nil
	}

	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE COALESCE(available,1)=1`
	args := []any{}
	if c := strings.TrimSpace(category); c != "" {
		query += ` AND category=?`
		args = append(args, c)
	}
	query += ` ORDER BY featured DESC, name ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDestinationByID fetches one destination regardless of availability.
func (r CatalogRepository) GetDestinationByID(id int64) (models.Destination, error) {
	if id <= 0 {
		return models.Destination{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	db := r.db()
	if db == nil {
		return models.Destination{}, domain.InternalError{Msg: "db unavailable"}
	}

	row := db.QueryRow(`SELECT `+destinationColumns+` FROM destinations WHERE id=? LIMIT 1`, id)
	d, err := scanDestination(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Destination{}, domain.NotFoundError{Resource: "destination"}
		}
		return models.Destination{}, err
	}
	return d, nil
}

const ticketColumns = `id,
	COALESCE(title,''),
	COALESCE(venue,''),
	COALESCE(event_date,''),
	COALESCE(category,''),
	COALESCE(price,0),
	COALESCE(currency,'GHS'),
	COALESCE(capacity,0),
	COALESCE(remaining,0),
	COALESCE(available,1)`

func (r CatalogRepository) ListTickets() ([]models.EventTicket, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "event_tickets") {
		return []models.EventTicket{}, nil
	}

	rows, err := db.Query(`SELECT ` + ticketColumns + ` FROM event_tickets WHERE COALESCE(available,1)=1 ORDER BY event_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.EventTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r CatalogRepository) GetTicketByID(id int64) (models.EventTicket, error) {
	if id <= 0 {
		return models.EventTicket{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	db := r.db()
	if db == nil {
		return models.EventTicket{}, domain.InternalError{Msg: "db unavailable"}
	}

	row := db.QueryRow(`SELECT `+ticketColumns+` FROM event_tickets WHERE id=? LIMIT 1`, id)
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EventTicket{}, domain.NotFoundError{Resource: "ticket"}
		}
		return models.EventTicket{}, err
	}
	return t, nil
}

// ListPricingTiers returns traveler-count banded prices for a destination,
// lowest band first.
func (r CatalogRepository) ListPricingTiers(destinationID int64) ([]models.PricingTier, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "pricing_tiers") {
		return []models.PricingTier{}, nil
	}

	rows, err := db.Query(`
		SELECT id,
		       COALESCE(destination_id,0),
		       COALESCE(min_travelers,0),
		       COALESCE(max_travelers,0),
		       COALESCE(total_price,0)
		FROM pricing_tiers
		WHERE destination_id=?
		ORDER BY min_travelers ASC`, destinationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PricingTier{}
	for rows.Next() {
		var t models.PricingTier
		if err := rows.Scan(&t.ID, &t.DestinationID, &t.MinTravelers, &t.MaxTravelers, &t.TotalPrice); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r CatalogRepository) ListCategories() ([]models.Category, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "categories") {
		return []models.Category{}, nil
	}

	rows, err := db.Query(`SELECT id, COALESCE(name,''), COALESCE(slug,'') FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r CatalogRepository) ListGallery(destinationID int64) ([]models.GalleryImage, error) {
	db := r.db()
	if db == nil || !intdb.HasTable(db, "gallery_images") {
		return []models.GalleryImage{}, nil
	}

	query := `SELECT id, COALESCE(destination_id,0), COALESCE(url,''), COALESCE(caption,'') FROM gallery_images`
	args := []any{}
	if destinationID > 0 {
		query += ` WHERE destination_id=?`
		args = append(args, destinationID)
	}
	query += ` ORDER BY id ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.GalleryImage{}
	for rows.Next() {
		var g models.GalleryImage
		if err := rows.Scan(&g.ID, &g.DestinationID, &g.URL, &g.Caption); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDestination(row rowScanner) (models.Destination, error) {
	var d models.Destination
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Slug,
		&d.Description,
		&d.Region,
		&d.Category,
		&d.BasePrice,
		&d.Currency,
		&d.MaxGroupSize,
		&d.DurationDays,
		&d.ImageURL,
		&d.Available,
		&d.Featured,
	)
	return d, err
}

func scanTicket(row rowScanner) (models.EventTicket, error) {
	var t models.EventTicket
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Venue,
		&t.EventDate,
		&t.Category,
		&t.Price,
		&t.Currency,
		&t.Capacity,
		&t.Remaining,
		&t.Available,
	)
	return t, err
}
