package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

// UserHandler handles HTTP requests for accounts and driver profiles.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUserRequest is the HTTP request body for creating an account.
type RegisterUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"` // passenger, driver, admin
}

// UserResponse is the HTTP response for account operations.
type UserResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Role          string  `json:"role"`
	WalletBalance float64 `json:"wallet_balance"`
}

// RegisterDriverRequest is the HTTP request body for creating a driver profile.
type RegisterDriverRequest struct {
	UserID        string `json:"user_id"`
	LicenseNumber string `json:"license_number"`
	VehiclePlate  string `json:"vehicle_plate"`
	VehicleModel  string `json:"vehicle_model,omitempty"`
}

// ApproveDriverRequest is the HTTP request body for setting approval status.
type ApproveDriverRequest struct {
	Status string `json:"status"` // approved, rejected, pending
}

// DriverResponse is the HTTP response for driver profile operations.
type DriverResponse struct {
	UserID         string `json:"user_id"`
	LicenseNumber  string `json:"license_number"`
	VehiclePlate   string `json:"vehicle_plate"`
	VehicleModel   string `json:"vehicle_model,omitempty"`
	ApprovalStatus string `json:"approval_status"`
}

// RegisterUser handles POST /v1/users
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), service.RegisterUserRequest{
		Name:  req.Name,
		Phone: req.Phone,
		Role:  domain.UserRole(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toUserResponse(user))
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toUserResponse(user))
}

// RegisterDriver handles POST /v1/drivers
func (h *UserHandler) RegisterDriver(c *gin.Context) {
	var req RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.userService.RegisterDriver(c.Request.Context(), service.RegisterDriverRequest{
		UserID:        req.UserID,
		LicenseNumber: req.LicenseNumber,
		VehiclePlate:  req.VehiclePlate,
		VehicleModel:  req.VehicleModel,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDriverResponse(driver))
}

// ApproveDriver handles POST /v1/drivers/:id/approval
func (h *UserHandler) ApproveDriver(c *gin.Context) {
	var req ApproveDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.userService.ApproveDriver(c.Request.Context(), c.Param("id"), domain.DriverApprovalStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toDriverResponse(driver))
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Phone:         user.Phone,
		Role:          string(user.Role),
		WalletBalance: user.WalletBalance,
	}
}

func toDriverResponse(driver *domain.Driver) DriverResponse {
	return DriverResponse{
		UserID:         driver.UserID,
		LicenseNumber:  driver.LicenseNumber,
		VehiclePlate:   driver.VehiclePlate,
		VehicleModel:   driver.VehicleModel,
		ApprovalStatus: string(driver.ApprovalStatus),
	}
}
