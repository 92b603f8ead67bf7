package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magnova/magnova-procure/internal/shared"
)

// LedgerPort answers whether a PO exists before money is taken against it.
type LedgerPort interface {
	Exists(ctx context.Context, poNumber string) (bool, error)
}

// Locker serializes critical sections by key.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// AuditPort records audit entries as a best-effort side effect.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort counts cap rejections.
type MetricsPort interface {
	CountCapRejection()
}

// Service is the payment reconciliation engine. External payments against a
// PO never exceed the internal payments made for it.
type Service struct {
	repo    RepositoryPort
	ledger  LedgerPort
	locks   Locker
	audit   AuditPort
	metrics MetricsPort
}

// NewService constructs the engine.
func NewService(repo RepositoryPort, ledger LedgerPort, locks Locker, audit AuditPort) *Service {
	return &Service{repo: repo, ledger: ledger, locks: locks, audit: audit}
}

// SetMetrics wires the optional rejection counter.
func (s *Service) SetMetrics(m MetricsPort) {
	s.metrics = m
}

// InternalInput describes a Magnova to Nova fund transfer.
type InternalInput struct {
	PONumber       string
	Amount         float64
	PayeeName      string
	PayeeAccount   string
	PayeeBank      string
	PaymentMode    string
	TransactionRef string
	PaymentDate    time.Time
}

// ExternalInput describes a disbursement from Nova to a vendor or card payee.
type ExternalInput struct {
	PONumber      string
	Amount        float64
	PayeeName     string
	PayeeType     string
	PayeePhone    string
	AccountNumber string
	IFSCCode      string
	Location      string
	PaymentMode   string
	UTRNumber     string
	PaymentDate   time.Time
}

// CreateInternal records an internal payment. There is no cap on internal
// amounts beyond being positive.
func (s *Service) CreateInternal(ctx context.Context, input InternalInput, actor shared.Identity) (Payment, error) {
	if err := s.checkCommon(ctx, input.PONumber, input.Amount); err != nil {
		return Payment{}, err
	}
	p := Payment{
		ID:             uuid.NewString(),
		PONumber:       input.PONumber,
		Type:           TypeInternal,
		PayeeName:      input.PayeeName,
		PayeeAccount:   input.PayeeAccount,
		PayeeBank:      input.PayeeBank,
		PaymentMode:    input.PaymentMode,
		Amount:         input.Amount,
		TransactionRef: input.TransactionRef,
		PaymentDate:    defaultDate(input.PaymentDate),
		Status:         StatusCompleted,
		CreatedBy:      actor.UserID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return Payment{}, err
	}
	s.recordAudit(ctx, actor, "create_internal_payment", p.ID, map[string]any{
		"po_number": p.PONumber,
		"amount":    p.Amount,
	})
	return p, nil
}

// CreateExternal records an external payment. The check-then-insert runs
// under a per-PO lock and a transaction so two concurrent requests cannot
// jointly overshoot the internal balance.
func (s *Service) CreateExternal(ctx context.Context, input ExternalInput, actor shared.Identity) (Payment, error) {
	if err := s.checkCommon(ctx, input.PONumber, input.Amount); err != nil {
		return Payment{}, err
	}
	if input.PayeeType != "" && input.PayeeType != PayeeVendor && input.PayeeType != PayeeCC {
		return Payment{}, fmt.Errorf("payee_type must be vendor or cc: %w", ErrValidation)
	}
	release, err := s.locks.Acquire(ctx, shared.PaymentLockKey(input.PONumber))
	if err != nil {
		return Payment{}, err
	}
	defer release()

	p := Payment{
		ID:            uuid.NewString(),
		PONumber:      input.PONumber,
		Type:          TypeExternal,
		PayeeName:     input.PayeeName,
		PayeeType:     input.PayeeType,
		PayeePhone:    input.PayeePhone,
		AccountNumber: input.AccountNumber,
		IFSCCode:      input.IFSCCode,
		Location:      input.Location,
		PaymentMode:   input.PaymentMode,
		Amount:        input.Amount,
		UTRNumber:     input.UTRNumber,
		PaymentDate:   defaultDate(input.PaymentDate),
		Status:        StatusCompleted,
		CreatedBy:     actor.UserID,
		CreatedAt:     time.Now().UTC(),
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		internal, external, err := tx.SumByType(ctx, input.PONumber)
		if err != nil {
			return err
		}
		if external+input.Amount > internal {
			if s.metrics != nil {
				s.metrics.CountCapRejection()
			}
			return fmt.Errorf("requested %.2f with %.2f remaining: %w", input.Amount, internal-external, ErrCapExceeded)
		}
		return tx.Insert(ctx, p)
	})
	if err != nil {
		return Payment{}, err
	}
	s.recordAudit(ctx, actor, "create_external_payment", p.ID, map[string]any{
		"po_number": p.PONumber,
		"amount":    p.Amount,
	})
	return p, nil
}

// Summary recomputes the reconciliation totals for one PO.
func (s *Service) Summary(ctx context.Context, poNumber string) (Summary, error) {
	exists, err := s.ledger.Exists(ctx, poNumber)
	if err != nil {
		return Summary{}, err
	}
	if !exists {
		return Summary{}, ErrUnknownPO
	}
	internal, external, err := s.repo.SumByType(ctx, poNumber)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		PONumber:          poNumber,
		InternalPaid:      internal,
		ExternalPaid:      external,
		ExternalRemaining: internal - external,
	}, nil
}

// List returns payments, optionally filtered by type.
func (s *Service) List(ctx context.Context, paymentType string) ([]Payment, error) {
	if paymentType != "" && paymentType != TypeInternal && paymentType != TypeExternal {
		return nil, fmt.Errorf("payment_type must be internal or external: %w", ErrValidation)
	}
	return s.repo.List(ctx, paymentType)
}

// Delete hard-deletes a payment. Admin only.
func (s *Service) Delete(ctx context.Context, id string, actor shared.Identity) error {
	if !shared.CanDelete(actor) {
		return ErrForbidden
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.recordAudit(ctx, actor, "delete_payment", id, nil)
	return nil
}

func (s *Service) checkCommon(ctx context.Context, poNumber string, amount float64) error {
	if poNumber == "" {
		return fmt.Errorf("po_number required: %w", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %w", ErrValidation)
	}
	exists, err := s.ledger.Exists(ctx, poNumber)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownPO
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor shared.Identity, action, id string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:     action,
		EntityType: "payment",
		EntityID:   id,
		UserID:     actor.UserID,
		UserName:   actor.Name,
		Details:    details,
	})
}

func defaultDate(value time.Time) time.Time {
	if value.IsZero() {
		return time.Now().UTC()
	}
	return value
}
