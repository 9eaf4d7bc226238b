package handlers

import (
	"errors"
	"net/http"

	"github.com/rajkumarpatel02/car-rental-backend/services/car"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// CarHandler exposes the catalog endpoints.
type CarHandler struct {
	Service car.CarService
}

func NewCarHandler(svc car.CarService) *CarHandler {
	return &CarHandler{Service: svc}
}

// CreateCar adds a car to the catalog.
func (h *CarHandler) CreateCar(c *gin.Context) {
	var input struct {
		Make        string   `json:"make" binding:"required"`
		Model       string   `json:"model" binding:"required"`
		Year        int      `json:"year"`
		PricePerDay float64  `json:"pricePerDay" binding:"required"`
		Image       string   `json:"image"`
		Features    []string `json:"features"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.CreateCar(c.Request.Context(), car.CreateCarInput{
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		PricePerDay: input.PricePerDay,
		Image:       input.Image,
		Features:    input.Features,
	})
	if err != nil {
		var vErr *car.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid car", vErr.Message)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create car", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateCar applies a partial update to a catalog entry.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	var input struct {
		PricePerDay *float64 `json:"pricePerDay"`
		IsAvailable *bool    `json:"isAvailable"`
		Image       *string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.UpdateCar(c.Request.Context(), c.Param("carID"), car.UpdateCarInput{
		PricePerDay: input.PricePerDay,
		IsAvailable: input.IsAvailable,
		Image:       input.Image,
	})
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "car not found", "")
			return
		}
		var vErr *car.ValidationError
		if errors.As(err, &vErr) {
			utils.JSONError(c, http.StatusBadRequest, "invalid update", vErr.Message)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update car", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCarByID returns one catalog entry.
func (h *CarHandler) GetCarByID(c *gin.Context) {
	result, err := h.Service.GetCarByID(c.Request.Context(), c.Param("carID"))
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "car not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch car", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListCars returns the catalog.
func (h *CarHandler) ListCars(c *gin.Context) {
	cars, err := h.Service.ListCars(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list cars", err.Error())
		return
	}
	c.JSON(http.StatusOK, cars)
}
