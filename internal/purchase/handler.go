package purchase

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

// Handler exposes purchase order endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers purchase order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{poNumber}", h.handleGet)
	r.Post("/{poNumber}/approve", h.handleApprove)
	r.Delete("/{poNumber}", h.handleDelete)
}

type lineItemRequest struct {
	Vendor   string  `json:"vendor"`
	Location string  `json:"location"`
	Brand    string  `json:"brand" validate:"required"`
	Model    string  `json:"model" validate:"required"`
	Storage  string  `json:"storage"`
	Colour   string  `json:"colour"`
	IMEI     string  `json:"imei"`
	Qty      int     `json:"qty" validate:"required,gt=0"`
	Rate     float64 `json:"rate" validate:"required,gt=0"`
}

type createRequest struct {
	PODate         string            `json:"po_date"`
	PurchaseOffice string            `json:"purchase_office"`
	Organization   string            `json:"organization"`
	Notes          string            `json:"notes"`
	Items          []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type approveRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason"`
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
	var date time.Time
	if req.PODate != "" {
		parsed, err := time.Parse("2006-01-02", req.PODate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "po_date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	items := make([]LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, LineItemInput{
			Vendor:   item.Vendor,
			Location: item.Location,
			Brand:    item.Brand,
			Model:    item.Model,
			Storage:  item.Storage,
			Colour:   item.Colour,
			IMEI:     item.IMEI,
			Qty:      item.Qty,
			Rate:     item.Rate,
		})
	}
	po, err := h.service.Create(r.Context(), CreateInput{
		Date:           date,
		PurchaseOffice: req.PurchaseOffice,
		Organization:   req.Organization,
		Notes:          req.Notes,
		Items:          items,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("create purchase order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	pos, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list purchase orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if pos == nil {
		pos = []PurchaseOrder{}
	}
	httpx.JSON(w, http.StatusOK, pos)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	po, err := h.service.Get(r.Context(), chi.URLParam(r, "poNumber"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	number := chi.URLParam(r, "poNumber")
	po, err := h.service.Approve(r.Context(), number, ApproveInput{
		Action:          req.Action,
		RejectionReason: req.RejectionReason,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Warn("approve purchase order", slog.String("po_number", number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "poNumber")
	if err := h.service.Delete(r.Context(), number, shared.IdentityFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "purchase order deleted", "po_number": number})
}
