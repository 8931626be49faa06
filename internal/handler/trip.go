package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
	fareService *service.FareService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, fareService *service.FareService) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		fareService: fareService,
	}
}

// CreateTripRequest is the HTTP request body for requesting a trip.
type CreateTripRequest struct {
	PassengerID    string  `json:"passenger_id"`
	TripType       string  `json:"trip_type"`
	StartLat       float64 `json:"start_lat"`
	StartLng       float64 `json:"start_lng"`
	EndLat         float64 `json:"end_lat"`
	EndLng         float64 `json:"end_lng"`
	DiscountCodeID string  `json:"discount_code_id,omitempty"`
}

// DriverActionRequest is the HTTP request body for driver lifecycle actions.
type DriverActionRequest struct {
	DriverID string `json:"driver_id"`
}

// CompleteTripRequest is the HTTP request body for completing a trip.
type CompleteTripRequest struct {
	DriverID string  `json:"driver_id"`
	Amount   float64 `json:"amount"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID             string  `json:"id"`
	PassengerID    string  `json:"passenger_id"`
	DriverID       string  `json:"driver_id,omitempty"`
	TripType       string  `json:"trip_type"`
	Status         string  `json:"status"`
	StartLat       float64 `json:"start_lat"`
	StartLng       float64 `json:"start_lng"`
	EndLat         float64 `json:"end_lat"`
	EndLng         float64 `json:"end_lng"`
	DiscountCodeID string  `json:"discount_code_id,omitempty"`
	PaymentID      string  `json:"payment_id,omitempty"`
	StartTime      string  `json:"start_time,omitempty"`
	EndTime        string  `json:"end_time,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// SettlementInfo contains settlement details in the response.
type SettlementInfo struct {
	PaymentID     string  `json:"payment_id"`
	PassengerPaid float64 `json:"passenger_paid"`
	DriverPayout  float64 `json:"driver_payout"`
	PlatformFee   float64 `json:"platform_fee"`
}

// CompleteTripResponse is the HTTP response for completing a trip.
type CompleteTripResponse struct {
	Trip       TripResponse   `json:"trip"`
	Settlement SettlementInfo `json:"settlement"`
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	TripType string  `json:"trip_type"`
	StartLat float64 `json:"start_lat"`
	StartLng float64 `json:"start_lng"`
	EndLat   float64 `json:"end_lat"`
	EndLng   float64 `json:"end_lng"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	DistanceKm       float64 `json:"distance_km"`
	Price            float64 `json:"price"`
	DurationMinutes  int     `json:"duration_minutes"`
	AvailableDrivers int     `json:"available_drivers"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.Create(c.Request.Context(), service.CreateRequest{
		PassengerID:    req.PassengerID,
		Type:           domain.TripType(req.TripType),
		Start:          domain.Point{Lat: req.StartLat, Lng: req.StartLng},
		End:            domain.Point{Lat: req.EndLat, Lng: req.EndLng},
		DiscountCodeID: req.DiscountCodeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ListAvailableTrips handles GET /v1/trips/available
func (h *TripHandler) ListAvailableTrips(c *gin.Context) {
	limit, offset := pageParams(c)

	trips, err := h.tripService.ListAvailable(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponses(trips))
}

// ListPassengerTrips handles GET /v1/users/:id/trips
func (h *TripHandler) ListPassengerTrips(c *gin.Context) {
	limit, offset := pageParams(c)

	trips, err := h.tripService.ListByPassenger(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponses(trips))
}

// ListDriverTrips handles GET /v1/drivers/:id/trips
func (h *TripHandler) ListDriverTrips(c *gin.Context) {
	limit, offset := pageParams(c)

	trips, err := h.tripService.ListByDriver(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponses(trips))
}

// AcceptTrip handles POST /v1/trips/:id/accept
func (h *TripHandler) AcceptTrip(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.Accept(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.Start(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	var req CompleteTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, settlement, err := h.tripService.Complete(c.Request.Context(), c.Param("id"), req.DriverID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CompleteTripResponse{
		Trip: toTripResponse(trip),
		Settlement: SettlementInfo{
			PaymentID:     settlement.Payment.ID,
			PassengerPaid: settlement.PassengerPaid,
			DriverPayout:  settlement.DriverPayout,
			PlatformFee:   settlement.PlatformFee,
		},
	})
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var req DriverActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.Cancel(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// EstimateFare handles POST /v1/trips/estimate
func (h *TripHandler) EstimateFare(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	estimate, err := h.fareService.Estimate(c.Request.Context(), service.EstimateRequest{
		Type:  domain.TripType(req.TripType),
		Start: domain.Point{Lat: req.StartLat, Lng: req.StartLng},
		End:   domain.Point{Lat: req.EndLat, Lng: req.EndLng},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EstimateResponse{
		DistanceKm:       estimate.DistanceKm,
		Price:            estimate.Price,
		DurationMinutes:  estimate.DurationMinutes,
		AvailableDrivers: estimate.AvailableDrivers,
	})
}

func toTripResponse(trip *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:             trip.ID,
		PassengerID:    trip.PassengerID,
		DriverID:       trip.DriverID,
		TripType:       string(trip.Type),
		Status:         string(trip.Status),
		DiscountCodeID: trip.DiscountCodeID,
		PaymentID:      trip.PaymentID,
		CreatedAt:      trip.CreatedAt.Format(time.RFC3339),
	}

	if trip.StartLocation != nil {
		resp.StartLat = trip.StartLocation.Lat
		resp.StartLng = trip.StartLocation.Lng
	}
	if trip.EndLocation != nil {
		resp.EndLat = trip.EndLocation.Lat
		resp.EndLng = trip.EndLocation.Lng
	}
	if !trip.StartTime.IsZero() {
		resp.StartTime = trip.StartTime.Format(time.RFC3339)
	}
	if !trip.EndTime.IsZero() {
		resp.EndTime = trip.EndTime.Format(time.RFC3339)
	}

	return resp
}

func toTripResponses(trips []*domain.Trip) []TripResponse {
	out := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		out = append(out, toTripResponse(trip))
	}
	return out
}

// pageParams reads limit/offset query parameters with defaults.
func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
