package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rajkumarpatel02/car-rental-backend/middleware"
	"github.com/rajkumarpatel02/car-rental-backend/services/booking"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBooking starts a booking saga. The response carries the pending
// projection; the outcome is discovered via the read endpoints.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input struct {
		CarID     string    `json:"carId" binding:"required"`
		StartDate time.Time `json:"startDate" binding:"required"`
		EndDate   time.Time `json:"endDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.CreateBooking(c.Request.Context(), middleware.UserID(c), booking.CreateBookingInput{
		CarID:     input.CarID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid booking request", vErr.Message)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", err.Error())
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetUserBookings lists the caller's bookings.
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	bookings, err := h.Service.GetUserBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookingByID returns one of the caller's bookings.
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	result, err := h.Service.GetBookingByID(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelBooking cancels one of the caller's in-flight bookings.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	result, err := h.Service.CancelBooking(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusConflict, "cannot cancel booking", vErr.Message)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
