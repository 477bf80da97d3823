package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	Transition(ctx context.Context, id int64, apply func(*domain.Booking) error) (*domain.Booking, error)
	AvailableCapacity(ctx context.Context, packageID int64) (int, error)
	CancelPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_reference, package_id, customer_id, number_of_people, total_amount::text, status, payment_status, booking_date, created_at, updated_at`

// CreatePending admits a booking against the package capacity. The package
// row is locked for the duration of the transaction, so concurrent
// reservations against the same package serialize here and the occupancy
// sum can never be read stale. Cancelled bookings are excluded from the
// sum, which is what frees capacity on cancellation.
func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var capacity int
	if err := tx.QueryRow(ctx, `SELECT max_participants FROM packages WHERE id=$1 FOR UPDATE`, booking.PackageID).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("package", booking.PackageID)
		}
		return err
	}

	var occupied int
	if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(number_of_people), 0) FROM bookings WHERE package_id=$1 AND status IN ('PENDING', 'CONFIRMED')`, booking.PackageID).Scan(&occupied); err != nil {
		return err
	}
	if occupied+booking.NumberOfPeople > capacity {
		return &domain.InsufficientCapacityError{
			PackageID: booking.PackageID,
			Requested: booking.NumberOfPeople,
			Available: capacity - occupied,
		}
	}

	booking.Status = domain.BookingStatusPending
	booking.PaymentStatus = domain.PaymentStatusPending
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (booking_reference, package_id, customer_id, number_of_people, total_amount, status, payment_status, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.PackageID, booking.CustomerID, booking.NumberOfPeople,
		booking.TotalAmount.String(), booking.Status, booking.PaymentStatus, booking.BookingDate).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("booking", id)
	}
	return b, err
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_reference=$1`, reference)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "booking", ID: reference}
	}
	return b, err
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id=$1 ORDER BY booking_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// Transition loads the booking under a row lock, runs apply against it and
// persists the resulting status pair. Concurrent transitions on the same
// booking serialize on the row lock, so a confirm racing a cancel sees the
// other's outcome, never a half-applied state.
func (r *PGBookingRepository) Transition(ctx context.Context, id int64, apply func(*domain.Booking) error) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("booking", id)
		}
		return nil, err
	}

	if err := apply(b); err != nil {
		return nil, err
	}

	if err := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, payment_status=$2, updated_at=now() WHERE id=$3 RETURNING updated_at`,
		b.Status, b.PaymentStatus, id).Scan(&b.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) AvailableCapacity(ctx context.Context, packageID int64) (int, error) {
	var available int
	err := r.db.QueryRow(ctx, `
		SELECT p.max_participants - COALESCE(SUM(b.number_of_people) FILTER (WHERE b.status IN ('PENDING', 'CONFIRMED')), 0)
		FROM packages p
		LEFT JOIN bookings b ON b.package_id = p.id
		WHERE p.id = $1
		GROUP BY p.max_participants`, packageID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NewNotFound("package", packageID)
	}
	if err != nil {
		return 0, err
	}
	return available, nil
}

func (r *PGBookingRepository) CancelPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND booking_date < $3 RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, domain.BookingStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var amount string
	if err := row.Scan(&b.ID, &b.Reference, &b.PackageID, &b.CustomerID, &b.NumberOfPeople, &amount,
		&b.Status, &b.PaymentStatus, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	b.TotalAmount = total
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
