package payments

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/magnova/magnova-procure/internal/platform/httpx"
	"github.com/magnova/magnova-procure/internal/shared"
)

// Handler exposes payment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/internal", h.handleCreateInternal)
	r.Post("/external", h.handleCreateExternal)
	r.Get("/", h.handleList)
	r.Get("/summary/{poNumber}", h.handleSummary)
	r.Delete("/{paymentID}", h.handleDelete)
}

type internalRequest struct {
	PONumber       string  `json:"po_number" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	PayeeName      string  `json:"payee_name"`
	PayeeAccount   string  `json:"payee_account"`
	PayeeBank      string  `json:"payee_bank"`
	PaymentMode    string  `json:"payment_mode"`
	TransactionRef string  `json:"transaction_ref"`
	PaymentDate    string  `json:"payment_date"`
}

type externalRequest struct {
	PONumber      string  `json:"po_number" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PayeeName     string  `json:"payee_name"`
	PayeeType     string  `json:"payee_type" validate:"omitempty,oneof=vendor cc"`
	PayeePhone    string  `json:"payee_phone"`
	AccountNumber string  `json:"account_number"`
	IFSCCode      string  `json:"ifsc_code"`
	Location      string  `json:"location"`
	PaymentMode   string  `json:"payment_mode"`
	UTRNumber     string  `json:"utr_number"`
	PaymentDate   string  `json:"payment_date"`
}

func (h *Handler) handleCreateInternal(w http.ResponseWriter, r *http.Request) {
	var req internalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, ok := parseDate(w, req.PaymentDate)
	if !ok {
		return
	}
	p, err := h.service.CreateInternal(r.Context(), InternalInput{
		PONumber:       req.PONumber,
		Amount:         req.Amount,
		PayeeName:      req.PayeeName,
		PayeeAccount:   req.PayeeAccount,
		PayeeBank:      req.PayeeBank,
		PaymentMode:    req.PaymentMode,
		TransactionRef: req.TransactionRef,
		PaymentDate:    date,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Error("create internal payment", slog.String("po_number", req.PONumber), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleCreateExternal(w http.ResponseWriter, r *http.Request) {
	var req externalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, ok := parseDate(w, req.PaymentDate)
	if !ok {
		return
	}
	p, err := h.service.CreateExternal(r.Context(), ExternalInput{
		PONumber:      req.PONumber,
		Amount:        req.Amount,
		PayeeName:     req.PayeeName,
		PayeeType:     req.PayeeType,
		PayeePhone:    req.PayeePhone,
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
		Location:      req.Location,
		PaymentMode:   req.PaymentMode,
		UTRNumber:     req.UTRNumber,
		PaymentDate:   date,
	}, shared.IdentityFromContext(r.Context()))
	if err != nil {
		h.logger.Warn("create external payment", slog.String("po_number", req.PONumber), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("payment_type"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Payment{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "poNumber"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "paymentID")
	if err := h.service.Delete(r.Context(), id, shared.IdentityFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "payment deleted", "payment_id": id})
}

func parseDate(w http.ResponseWriter, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "payment_date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
