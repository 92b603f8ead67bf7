package logistics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/magnova/magnova-procure/internal/platform/httpx"
	"github.com/magnova/magnova-procure/internal/shared"
)

// Handler exposes shipment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers shipment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{shipmentID}", h.handleGet)
	r.Patch("/{shipmentID}/status", h.handleUpdateStatus)
	r.Delete("/{shipmentID}", h.handleDelete)
}

type createRequest struct {
	PONumber         string   `json:"po_number"`
	TransporterName  string   `json:"transporter_name" validate:"required"`
	VehicleNumber    string   `json:"vehicle_number"`
	EwayBillNumber   string   `json:"eway_bill_number"`
	FromLocation     string   `json:"from_location" validate:"required"`
	ToLocation       string   `json:"to_location" validate:"required"`
	PickupDate       string   `json:"pickup_date"`
	ExpectedDelivery string   `json:"expected_delivery"`
	IMEIList         []string `json:"imei_list"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit delivered delayed"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	pickup, ok := parseDate(w, req.PickupDate, "pickup_date")
	if !ok {
		return
	}
	expected, ok := parseDate(w, req.ExpectedDelivery, "expected_delivery")
	if !ok {
		return
	}
	shipment, err := h.service.Create(r.Context(), CreateInput{
		PONumber:         req.PONumber,
		TransporterName:  req.TransporterName,
		VehicleNumber:    req.VehicleNumber,
		EwayBillNumber:   req.EwayBillNumber,
		FromLocation:     req.FromLocation,
		ToLocation:       req.ToLocation,
		PickupDate:       pickup,
		ExpectedDelivery: expected,
		IMEIList:         req.IMEIList,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("create shipment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shipment)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	shipments, err := h.service.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if shipments == nil {
		shipments = []Shipment{}
	}
	httpx.JSON(w, http.StatusOK, shipments)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	shipment, err := h.service.Get(r.Context(), chi.URLParam(r, "shipmentID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shipment)
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
	id := chi.URLParam(r, "shipmentID")
	shipment, err := h.service.UpdateStatus(r.Context(), id, req.Status, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Warn("update shipment status", slog.String("shipment_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shipment)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "shipmentID")
	if err := h.service.Delete(r.Context(), id, shared.IdentityFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "shipment deleted", "shipment_id": id})
}

func parseDate(w http.ResponseWriter, value, field string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
