package procurement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/magnova/magnova-procure/internal/platform/httpx"
	"github.com/magnova/magnova-procure/internal/shared"
)

// Handler exposes procurement intake endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{procurementID}", h.handleGet)
	r.Delete("/{procurementID}", h.handleDelete)
}

type createRequest struct {
	PONumber      string  `json:"po_number"`
	VendorName    string  `json:"vendor_name"`
	StoreLocation string  `json:"store_location"`
	IMEI          string  `json:"imei" validate:"required"`
	DeviceModel   string  `json:"device_model" validate:"required"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
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
	record, err := h.service.Create(r.Context(), CreateInput{
		PONumber:      req.PONumber,
		VendorName:    req.VendorName,
		StoreLocation: req.StoreLocation,
		IMEI:          req.IMEI,
		DeviceModel:   req.DeviceModel,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("create procurement", slog.String("imei", req.IMEI), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	records, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Procurement{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "procurementID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "procurementID")
	if err := h.service.Delete(r.Context(), id, shared.IdentityFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "procurement deleted", "procurement_id": id})
}
