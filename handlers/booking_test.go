package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/config"
	"github.com/rajkumarpatel02/car-rental-backend/events"
	"github.com/rajkumarpatel02/car-rental-backend/middleware"
	"github.com/rajkumarpatel02/car-rental-backend/models"
	"github.com/rajkumarpatel02/car-rental-backend/services/booking"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookingService returns canned responses per method.
type stubBookingService struct {
	createResult *models.Booking
	createErr    error
	getResult    *models.Booking
	getErr       error
	cancelResult *models.Booking
	cancelErr    error
	listResult   []models.Booking

	lastUserID string
}

func (s *stubBookingService) CreateBooking(ctx context.Context, userID string, input booking.CreateBookingInput) (*models.Booking, error) {
	s.lastUserID = userID
	return s.createResult, s.createErr
}

func (s *stubBookingService) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	s.lastUserID = userID
	return s.listResult, nil
}

func (s *stubBookingService) GetBookingByID(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	s.lastUserID = userID
	return s.getResult, s.getErr
}

func (s *stubBookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	s.lastUserID = userID
	return s.cancelResult, s.cancelErr
}

func (s *stubBookingService) HandleAvailabilityResult(ctx context.Context, env events.Envelope) error {
	return nil
}

func newRouter(svc booking.BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookingHandler(svc)

	authed := r.Group("/api/bookings", middleware.JWTAuthMiddleware())
	authed.POST("", h.CreateBooking)
	authed.GET("", h.GetUserBookings)
	authed.GET("/:bookingID", h.GetBookingByID)
	authed.POST("/:bookingID/cancel", h.CancelBooking)
	return r
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	config.AppConfig.JWTSecret = "test-secret"
	token, err := utils.GenerateToken(userID, "jo@example.com", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func createBody(carID string) string {
	start := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	end := time.Now().Add(72 * time.Hour).Format(time.RFC3339)
	return fmt.Sprintf(`{"carId":%q,"startDate":%q,"endDate":%q}`, carID, start, end)
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	router := newRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody("car-1")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingRejectsGarbageToken(t *testing.T) {
	router := newRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody("car-1")))
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingReturnsPendingProjection(t *testing.T) {
	svc := &stubBookingService{
		createResult: &models.Booking{ID: "b-1", UserID: "u-1", Status: models.BookingStatusPending},
	}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody("car-1")))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"pending"`)
	assert.Equal(t, "u-1", svc.lastUserID, "user identity comes from the token, not the body")
}

func TestCreateBookingValidationMapsTo400(t *testing.T) {
	svc := &stubBookingService{createErr: booking.NewValidationError("startDate cannot be in the past")}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(createBody("car-1")))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "startDate cannot be in the past")
}

func TestCreateBookingMissingFieldsMapTo400(t *testing.T) {
	router := newRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(`{"carId":"car-1"}`))
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookingNotFoundMapsTo404(t *testing.T) {
	svc := &stubBookingService{getErr: booking.ErrNotFound}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/missing", nil)
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelBookingConflictMapsTo409(t *testing.T) {
	svc := &stubBookingService{cancelErr: booking.NewValidationError(`booking in status "confirmed" cannot be cancelled`)}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings/b-1/cancel", nil)
	req.Header.Set("Authorization", bearerToken(t, "u-1"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
