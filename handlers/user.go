package handlers

import (
	"errors"
	"net/http"

	"github.com/rajkumarpatel02/car-rental-backend/services/user"
	"github.com/rajkumarpatel02/car-rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes registration and login.
type UserHandler struct {
	Service user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// Register creates an account.
func (h *UserHandler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	result, err := h.Service.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			utils.JSONError(c, http.StatusConflict, "email already registered", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to register user", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login authenticates and returns a signed token.
func (h *UserHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	token, account, err := h.Service.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid email or password", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to authenticate", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": account})
}
