package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

// DiscountHandler handles HTTP requests for discount codes.
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler.
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// ValidateDiscountRequest is the HTTP request body for validating a code.
type ValidateDiscountRequest struct {
	Code   string  `json:"code"`
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

// ValidateDiscountResponse is the HTTP response for a validation.
type ValidateDiscountResponse struct {
	Valid          bool    `json:"valid"`
	Reason         string  `json:"reason,omitempty"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// CreateDiscountRequest is the HTTP request body for registering a code.
type CreateDiscountRequest struct {
	Code              string   `json:"code"`
	Type              string   `json:"type"` // percentage, fixed
	Value             float64  `json:"value"`
	MinTripAmount     *float64 `json:"min_trip_amount,omitempty"`
	MaxDiscountAmount *float64 `json:"max_discount_amount,omitempty"`
	UsageLimit        *int     `json:"usage_limit,omitempty"`
	ValidFrom         *string  `json:"valid_from,omitempty"`
	ValidUntil        *string  `json:"valid_until,omitempty"`
}

// DiscountResponse is the HTTP response for a discount code.
type DiscountResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	UsageCount int     `json:"usage_count"`
	UsageLimit *int    `json:"usage_limit,omitempty"`
	IsActive   bool    `json:"is_active"`
}

// ValidateDiscount handles POST /v1/discounts/validate
func (h *DiscountHandler) ValidateDiscount(c *gin.Context) {
	var req ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	validation, err := h.discountService.Validate(c.Request.Context(), req.Code, req.UserID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ValidateDiscountResponse{
		Valid:          validation.Valid,
		DiscountAmount: validation.DiscountAmount,
		FinalAmount:    validation.FinalAmount,
	}
	if !validation.Valid {
		resp.Reason = string(validation.Rejection)
		resp.FinalAmount = req.Amount
	}

	respondJSON(c, http.StatusOK, resp)
}

// CreateDiscount handles POST /v1/discounts
func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	validFrom, err := parseOptionalTime(req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid valid_from"})
		return
	}
	validUntil, err := parseOptionalTime(req.ValidUntil)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid valid_until"})
		return
	}

	code, err := h.discountService.CreateCode(c.Request.Context(), service.CreateCodeRequest{
		Code:              req.Code,
		Type:              domain.DiscountType(req.Type),
		Value:             req.Value,
		MinTripAmount:     req.MinTripAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		UsageLimit:        req.UsageLimit,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toDiscountResponse(code))
}

// DeleteDiscount handles DELETE /v1/discounts/:id
func (h *DiscountHandler) DeleteDiscount(c *gin.Context) {
	if err := h.discountService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toDiscountResponse(code *domain.DiscountCode) DiscountResponse {
	return DiscountResponse{
		ID:         code.ID,
		Code:       code.Code,
		Type:       string(code.Type),
		Value:      code.Value,
		UsageCount: code.UsageCount,
		UsageLimit: code.UsageLimit,
		IsActive:   code.IsActive,
	}
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
