package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, id int64, paymentReference string) (*domain.Booking, error) {
	args := m.Called(ctx, id, paymentReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookingsByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetAvailability(ctx context.Context, packageID int64, partySize int) (bool, error) {
	args := m.Called(ctx, packageID, partySize)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingUseCase) CancelExpiredPending(ctx context.Context, threshold time.Duration) ([]domain.Booking, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newTestRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service, nil).Register(router.Group("/bookings"))
	NewPackageHandler(service).Register(router.Group("/packages"))
	return router
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:             11,
		Reference:      "BK1700000000000ABCDEF01",
		PackageID:      4,
		CustomerID:     7,
		NumberOfPeople: 3,
		TotalAmount:    decimal.RequireFromString("285"),
		Status:         domain.BookingStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
		BookingDate:    time.Now(),
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(sampleBooking(), nil).Once()

	body, _ := json.Marshal(map[string]interface{}{
		"package_id": 4, "customer_id": 7, "adults": 2, "children": 1,
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BK1700000000000ABCDEF01", resp.Reference)
	assert.Equal(t, "285", resp.TotalAmount)
	assert.Equal(t, "PENDING", resp.Status)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_insufficientCapacity(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, &domain.InsufficientCapacityError{PackageID: 4, Requested: 6, Available: 2}).Once()

	body, _ := json.Marshal(map[string]interface{}{"package_id": 4, "customer_id": 7, "adults": 6})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(6), resp["requested"])
	assert.Equal(t, float64(2), resp["available"])
}

func TestBookingHandler_create_packageNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, domain.NewNotFound("package", 99)).Once()

	body, _ := json.Marshal(map[string]interface{}{"package_id": 99, "customer_id": 7, "adults": 1})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_confirm(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	confirmed := sampleBooking()
	confirmed.Status = domain.BookingStatusConfirmed
	confirmed.PaymentStatus = domain.PaymentStatusCompleted
	mockService.On("ConfirmBooking", mock.Anything, int64(11), "PAY-42").Return(confirmed, nil).Once()

	body, _ := json.Marshal(map[string]string{"payment_reference": "PAY-42"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/11/confirm", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "COMPLETED", resp.PaymentStatus)
}

func TestBookingHandler_confirm_notPending(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("ConfirmBooking", mock.Anything, int64(11), "PAY-42").
		Return(nil, &domain.BusinessRuleError{Rule: "only pending bookings can be confirmed, current status: CANCELLED"}).Once()

	body, _ := json.Marshal(map[string]string{"payment_reference": "PAY-42"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings/11/confirm", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only pending bookings")
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	cancelled := sampleBooking()
	cancelled.Status = domain.BookingStatusCancelled
	mockService.On("CancelBooking", mock.Anything, int64(11), "weather").Return(cancelled, nil).Once()

	body, _ := json.Marshal(map[string]string{"reason": "weather"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bookings/11", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
}

func TestBookingHandler_get_notFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("GetBooking", mock.Anything, int64(404)).Return(nil, domain.NewNotFound("booking", 404)).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_updateStatus_unknownValue(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	body, _ := json.Marshal(map[string]string{"status": "ON_HOLD"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/bookings/11/status", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_updatePaymentStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	updated := sampleBooking()
	updated.PaymentStatus = domain.PaymentStatusCompleted
	mockService.On("UpdatePaymentStatus", mock.Anything, int64(11), domain.PaymentStatusCompleted).Return(updated, nil).Once()

	body, _ := json.Marshal(map[string]string{"payment_status": "COMPLETED"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/bookings/11/payment-status", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPackageHandler_availability(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("GetAvailability", mock.Anything, int64(4), 5).Return(true, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/packages/4/availability?party_size=5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp availabilityResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, 5, resp.PartySize)
}

func TestPackageHandler_availability_packageNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := newTestRouter(mockService)

	mockService.On("GetAvailability", mock.Anything, int64(99), 1).Return(false, domain.NewNotFound("package", 99)).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/packages/99/availability", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
