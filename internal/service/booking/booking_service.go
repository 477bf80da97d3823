package booking

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/pricing"
	"github.com/Domenick1991/tourbooking/internal/reference"
	"github.com/Domenick1991/tourbooking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id int64, paymentReference string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64, reason string) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error)
	ListBookingsByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	GetAvailability(ctx context.Context, packageID int64, partySize int) (bool, error)
	CancelExpiredPending(ctx context.Context, threshold time.Duration) ([]domain.Booking, error)
}

type Cache interface {
	GetPackage(ctx context.Context, id int64) (*domain.Package, error)
	SetPackage(ctx context.Context, pkg *domain.Package) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings    repository.BookingRepository
	packages    repository.PackageRepository
	users       repository.UserRepository
	cache       Cache
	producer    Producer
	eventsTopic string
}

type CreateBookingInput struct {
	PackageID   int64     `json:"package_id"`
	CustomerID  int64     `json:"customer_id"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	BookingDate time.Time `json:"booking_date"`
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	packages repository.PackageRepository,
	users repository.UserRepository,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		packages:    packages,
		users:       users,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking admits a reservation against the package capacity, prices
// it and persists it as PENDING/PENDING. The capacity check and the insert
// run in one transaction in the repository, so concurrent requests against
// the same package cannot both squeeze into the last slots.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	partySize := input.Adults + input.Children
	if input.Adults < 0 || input.Children < 0 || partySize < 1 {
		return nil, &domain.BusinessRuleError{Rule: "party size must be at least 1"}
	}

	pkg, err := s.getPackage(ctx, input.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.Active {
		return nil, &domain.BusinessRuleError{Rule: "package is not available for booking"}
	}

	customer, err := s.users.GetCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	bookingDate := input.BookingDate
	if bookingDate.IsZero() {
		bookingDate = time.Now()
	}

	booking := &domain.Booking{
		Reference:      reference.New(),
		PackageID:      input.PackageID,
		CustomerID:     input.CustomerID,
		NumberOfPeople: partySize,
		TotalAmount:    pricing.Total(pkg.Price, partySize),
		BookingDate:    bookingDate,
	}

	if err := s.bookings.CreatePending(ctx, booking); err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventBookingCreated, booking)
	event.Package = &kafka.PackageSnapshot{
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		Price:       pkg.Price.String(),
		TourID:      pkg.TourID,
		TourName:    pkg.TourName,
		Destination: pkg.Destination,
	}
	event.Customer = &kafka.CustomerSnapshot{
		CustomerID: customer.ID,
		FullName:   customer.FullName,
		Email:      customer.Email,
	}
	s.publish(ctx, event)

	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, id int64, paymentReference string) (*domain.Booking, error) {
	updated, err := s.bookings.Transition(ctx, id, func(b *domain.Booking) error {
		return b.Confirm()
	})
	if err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventBookingConfirmed, updated)
	event.PaymentReference = paymentReference
	s.publish(ctx, event)

	return updated, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	updated, err := s.bookings.Transition(ctx, id, func(b *domain.Booking) error {
		return b.Cancel()
	})
	if err != nil {
		return nil, err
	}

	event := s.newEvent(kafka.EventBookingCancelled, updated)
	event.Remark = reason
	s.publish(ctx, event)

	return updated, nil
}

// UpdateBookingStatus is an administrative override: it bypasses the
// transition guards but still leaves a history trail.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	updated, err := s.bookings.Transition(ctx, id, func(b *domain.Booking) error {
		b.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, s.newEvent(kafka.EventBookingStatusUpdated, updated))
	return updated, nil
}

func (s *BookingService) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error) {
	updated, err := s.bookings.Transition(ctx, id, func(b *domain.Booking) error {
		b.PaymentStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, s.newEvent(kafka.EventPaymentStatusUpdated, updated))
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	return s.bookings.GetByReference(ctx, ref)
}

func (s *BookingService) ListBookingsByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// GetAvailability reports whether a party still fits into the package.
// It always reads committed occupancy from the primary store.
func (s *BookingService) GetAvailability(ctx context.Context, packageID int64, partySize int) (bool, error) {
	if partySize < 1 {
		return false, &domain.BusinessRuleError{Rule: "party size must be at least 1"}
	}
	available, err := s.bookings.AvailableCapacity(ctx, packageID)
	if err != nil {
		return false, err
	}
	return partySize <= available, nil
}

// CancelExpiredPending cancels every PENDING booking whose booking date is
// strictly older than the threshold. Confirmed and cancelled bookings are
// untouched.
func (s *BookingService) CancelExpiredPending(ctx context.Context, threshold time.Duration) ([]domain.Booking, error) {
	cutoff := time.Now().Add(-threshold)
	expired, err := s.bookings.CancelPendingBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	for i := range expired {
		s.publish(ctx, s.newEvent(kafka.EventBookingExpired, &expired[i]))
	}
	return expired, nil
}

func (s *BookingService) getPackage(ctx context.Context, id int64) (*domain.Package, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPackage(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetPackage(ctx, pkg)
	}
	return pkg, nil
}

func (s *BookingService) newEvent(eventType string, b *domain.Booking) kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:           eventType,
		Reference:      b.Reference,
		BookingID:      b.ID,
		PackageID:      b.PackageID,
		CustomerID:     b.CustomerID,
		NumberOfPeople: b.NumberOfPeople,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		TotalAmount:    b.TotalAmount.String(),
		OccurredAt:     time.Now(),
	}
}

// publish is best-effort: the audit trail must never fail or roll back the
// primary operation, so errors are logged and swallowed.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.Reference, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", event.Type, event.Reference, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
