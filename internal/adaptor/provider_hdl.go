package adaptor

import (
	"encoding/json"
	"net/http"

	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

type ProviderHandler struct {
	service usecase.ProviderService
	log     *zap.Logger
}

func NewProviderHandler(service usecase.ProviderService, log *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		service: service,
		log:     log.With(zap.String("handler", "provider")),
	}
}

// GetBusinessHours handles GET /api/business/hours (business)
func (h *ProviderHandler) GetBusinessHours(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	hours, err := h.service.GetBusinessHours(r.Context(), providerID)
	if err != nil {
		respondError(w, h.log, err, "get business hours")
		return
	}

	utils.ResponseSuccess(w, "success", hours)
}

// UpdateBusinessHours handles PUT /api/business/hours (business)
func (h *ProviderHandler) UpdateBusinessHours(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateBusinessHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	hours, err := h.service.UpdateBusinessHours(r.Context(), providerID, &req)
	if err != nil {
		respondError(w, h.log, err, "update business hours")
		return
	}

	utils.ResponseSuccess(w, "success", hours)
}
