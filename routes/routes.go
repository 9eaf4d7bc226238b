package routes

import (
	"github.com/rajkumarpatel02/car-rental-backend/handlers"
	"github.com/rajkumarpatel02/car-rental-backend/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, userHandler *handlers.UserHandler, carHandler *handlers.CarHandler, bookingHandler *handlers.BookingHandler) {
	r.GET("/health", handlers.HealthHandler)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	cars := r.Group("/api/cars")
	{
		cars.GET("", carHandler.ListCars)
		cars.GET("/:carID", carHandler.GetCarByID)
		cars.POST("", middleware.JWTAuthMiddleware(), carHandler.CreateCar)
		cars.PUT("/:carID", middleware.JWTAuthMiddleware(), carHandler.UpdateCar)
	}

	bookings := r.Group("/api/bookings", middleware.JWTAuthMiddleware())
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("", bookingHandler.GetUserBookings)
		bookings.GET("/:bookingID", bookingHandler.GetBookingByID)
		bookings.POST("/:bookingID/cancel", bookingHandler.CancelBooking)
	}
}
