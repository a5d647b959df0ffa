package adaptor

import (
	"encoding/json"
	"net/http"

	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetServices handles GET /api/services (public)
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	services, err := h.service.GetServices(r.Context(), query.Get("search"), req)
	if err != nil {
		respondError(w, h.log, err, "get services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// GetServiceByID handles GET /api/services/{id} (public)
func (h *CatalogHandler) GetServiceByID(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid service ID", nil)
		return
	}

	service, err := h.service.GetServiceByID(r.Context(), serviceID)
	if err != nil {
		respondError(w, h.log, err, "get service by ID")
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// GetAvailableSlots handles GET /api/services/{id}/slots?date=YYYY-MM-DD (public)
func (h *CatalogHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid service ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Query parameter 'date' is required", nil)
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), serviceID, date)
	if err != nil {
		respondError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CreateService handles POST /api/business/services (business)
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	service, err := h.service.CreateService(r.Context(), providerID, &req)
	if err != nil {
		respondError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, "success", service)
}

// GetOwnServices handles GET /api/business/services (business)
func (h *CatalogHandler) GetOwnServices(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	services, err := h.service.GetProviderServices(r.Context(), providerID, req)
	if err != nil {
		respondError(w, h.log, err, "get own services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// UpdateService handles PUT /api/business/services/{id} (business)
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid service ID", nil)
		return
	}

	var req request.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	service, err := h.service.UpdateService(r.Context(), providerID, serviceID, &req)
	if err != nil {
		respondError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// DeleteService handles DELETE /api/business/services/{id} (business)
func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	providerID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	serviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid service ID", nil)
		return
	}

	if err := h.service.DeleteService(r.Context(), providerID, serviceID); err != nil {
		respondError(w, h.log, err, "delete service")
		return
	}

	utils.ResponseSuccess(w, "Service deleted", nil)
}
