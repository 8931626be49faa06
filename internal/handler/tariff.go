package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

// TariffHandler handles HTTP requests for pricing rules.
type TariffHandler struct {
	tariffService *service.TariffService
}

// NewTariffHandler creates a new TariffHandler.
func NewTariffHandler(tariffService *service.TariffService) *TariffHandler {
	return &TariffHandler{tariffService: tariffService}
}

// CreateTariffRequest is the HTTP request body for registering a tariff.
type CreateTariffRequest struct {
	CityID     string  `json:"city_id,omitempty"`
	TripType   string  `json:"trip_type"`
	PricePerKM float64 `json:"price_per_km"`
}

// TariffResponse is the HTTP response for tariff operations.
type TariffResponse struct {
	ID         string  `json:"id"`
	CityID     string  `json:"city_id,omitempty"`
	TripType   string  `json:"trip_type"`
	PricePerKM float64 `json:"price_per_km"`
}

// CreateTariff handles POST /v1/tariffs
func (h *TariffHandler) CreateTariff(c *gin.Context) {
	var req CreateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	tariff, err := h.tariffService.CreateTariff(c.Request.Context(), req.CityID, domain.TripType(req.TripType), req.PricePerKM)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTariffResponse(tariff))
}

// ListTariffs handles GET /v1/tariffs
func (h *TariffHandler) ListTariffs(c *gin.Context) {
	limit, offset := pageParams(c)

	tariffs, err := h.tariffService.ListTariffs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TariffResponse, 0, len(tariffs))
	for _, tariff := range tariffs {
		out = append(out, toTariffResponse(tariff))
	}

	respondJSON(c, http.StatusOK, out)
}

func toTariffResponse(tariff *domain.Tariff) TariffResponse {
	return TariffResponse{
		ID:         tariff.ID,
		CityID:     tariff.CityID,
		TripType:   string(tariff.TripType),
		PricePerKM: tariff.PricePerKM,
	}
}
