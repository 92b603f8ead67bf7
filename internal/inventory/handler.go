package inventory

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/magnova/magnova-procure/internal/platform/httpx"
	"github.com/magnova/magnova-procure/internal/shared"
)

// Handler exposes IMEI inventory endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleRegister)
	r.Get("/", h.handleList)
	r.Get("/{imei}", h.handleGet)
	r.Patch("/{imei}/status", h.handleUpdateStatus)
	r.Delete("/{imei}", h.handleDelete)
}

type registerRequest struct {
	IMEI            string  `json:"imei" validate:"required"`
	ProcurementID   string  `json:"procurement_id"`
	Brand           string  `json:"brand" validate:"required"`
	Model           string  `json:"model" validate:"required"`
	DeviceModel     string  `json:"device_model"`
	Colour          string  `json:"colour"`
	Storage         string  `json:"storage"`
	Vendor          string  `json:"vendor"`
	Status          string  `json:"status"`
	CurrentLocation string  `json:"current_location"`
	Organization    string  `json:"organization"`
	PONumber        string  `json:"po_number"`
	PurchasePrice   float64 `json:"purchase_price" validate:"gte=0"`
}

type updateStatusRequest struct {
	Status          string `json:"status" validate:"required"`
	CurrentLocation string `json:"current_location"`
	Organization    string `json:"organization"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	device, err := h.service.Register(r.Context(), RegisterInput{
		IMEI:            req.IMEI,
		ProcurementID:   req.ProcurementID,
		Brand:           req.Brand,
		Model:           req.Model,
		DeviceModel:     req.DeviceModel,
		Colour:          req.Colour,
		Storage:         req.Storage,
		Vendor:          req.Vendor,
		Status:          req.Status,
		CurrentLocation: req.CurrentLocation,
		Organization:    req.Organization,
		PONumber:        req.PONumber,
		PurchasePrice:   req.PurchasePrice,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("register device", slog.String("imei", req.IMEI), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, device)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	devices, err := h.service.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if devices == nil {
		devices = []Device{}
	}
	httpx.JSON(w, http.StatusOK, devices)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	device, err := h.service.Get(r.Context(), chi.URLParam(r, "imei"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, device)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	imei := chi.URLParam(r, "imei")
	device, err := h.service.UpdateStatus(r.Context(), imei, UpdateStatusInput{
		Status:          req.Status,
		CurrentLocation: req.CurrentLocation,
		Organization:    req.Organization,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Warn("update device status", slog.String("imei", imei), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, device)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	imei := chi.URLParam(r, "imei")
	if err := h.service.Delete(r.Context(), imei, shared.IdentityFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "device deleted", "imei": imei})
}
