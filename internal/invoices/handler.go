package invoices

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

// Handler exposes invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{invoiceID}", h.handleGet)
	r.Delete("/{invoiceID}", h.handleDelete)
}

type createRequest struct {
	InvoiceType     string   `json:"invoice_type"`
	PONumber        string   `json:"po_number"`
	FromOrg         string   `json:"from_organization" validate:"required"`
	ToOrg           string   `json:"to_organization" validate:"required"`
	Amount          float64  `json:"amount" validate:"gte=0"`
	GSTAmount       float64  `json:"gst_amount" validate:"gte=0"`
	GSTPercentage   float64  `json:"gst_percentage" validate:"gte=0,lte=100"`
	IMEIList        []string `json:"imei_list"`
	InvoiceDate     string   `json:"invoice_date"`
	Description     string   `json:"description"`
	BillingAddress  string   `json:"billing_address"`
	ShippingAddress string   `json:"shipping_address"`
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
	if req.InvoiceDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.InvoiceDate)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", req.InvoiceDate)
		}
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invoice_date must be RFC3339 or YYYY-MM-DD")
			return
		}
		date = parsed
	}
	inv, err := h.service.Create(r.Context(), CreateInput{
		Type:            req.InvoiceType,
		PONumber:        req.PONumber,
		FromOrg:         req.FromOrg,
		ToOrg:           req.ToOrg,
		Amount:          req.Amount,
		GSTAmount:       req.GSTAmount,
		GSTPercentage:   req.GSTPercentage,
		IMEIList:        req.IMEIList,
		InvoiceDate:     date,
		Description:     req.Description,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	invoices, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "invoiceID")
	if err := h.service.Delete(r.Context(), id, shared.IdentityFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "invoice deleted", "invoice_id": id})
}
