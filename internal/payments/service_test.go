package payments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	payments []Payment
	sumDelay time.Duration
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) Insert(_ context.Context, p Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, p)
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, paymentType string) ([]Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []Payment
	for _, p := range m.payments {
		if paymentType == "" || p.Type == paymentType {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *memoryRepo) SumByType(_ context.Context, poNumber string) (float64, float64, error) {
	m.mu.Lock()
	var internal, external float64
	for _, p := range m.payments {
		if p.PONumber != poNumber {
			continue
		}
		switch p.Type {
		case TypeInternal:
			internal += p.Amount
		case TypeExternal:
			external += p.Amount
		}
	}
	m.mu.Unlock()
	// Widens the check-then-insert window for the concurrency test.
	time.Sleep(m.sumDelay)
	return internal, external, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.payments {
		if p.ID == id {
			m.payments = append(m.payments[:i], m.payments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

type stubLedger struct {
	known map[string]bool
}

func (s *stubLedger) Exists(_ context.Context, poNumber string) (bool, error) {
	return s.known[poNumber], nil
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

type memoryAudit struct {
	mu   sync.Mutex
	logs []shared.AuditLog
}

func (m *memoryAudit) Record(_ context.Context, log shared.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

var (
	actor = shared.Identity{UserID: "u-1", Name: "Ops User"}
	admin = shared.Identity{UserID: "u-0", Name: "Admin", Role: shared.RoleAdmin}
)

func newTestService(locks Locker) (*Service, *memoryRepo, *memoryAudit) {
	repo := &memoryRepo{}
	audit := &memoryAudit{}
	ledger := &stubLedger{known: map[string]bool{"PO-1234-567": true}}
	return NewService(repo, ledger, locks, audit), repo, audit
}

func TestCreateInternal(t *testing.T) {
	svc, _, audit := newTestService(noopLocker{})
	p, err := svc.CreateInternal(context.Background(), InternalInput{
		PONumber:  "PO-1234-567",
		Amount:    100000,
		PayeeBank: "HDFC",
	}, actor)
	require.NoError(t, err)
	require.Equal(t, TypeInternal, p.Type)
	require.Equal(t, StatusCompleted, p.Status)
	require.NotEmpty(t, p.ID)
	require.False(t, p.PaymentDate.IsZero())
	require.Len(t, audit.logs, 1)
	require.Equal(t, "create_internal_payment", audit.logs[0].Action)
}

func TestCreateInternalValidation(t *testing.T) {
	svc, _, _ := newTestService(noopLocker{})
	ctx := context.Background()

	_, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 0}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateInternal(ctx, InternalInput{PONumber: "PO-9999-999", Amount: 100}, actor)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateExternalWithinCap(t *testing.T) {
	svc, _, _ := newTestService(noopLocker{})
	ctx := context.Background()

	_, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 100000}, actor)
	require.NoError(t, err)

	p, err := svc.CreateExternal(ctx, ExternalInput{
		PONumber:  "PO-1234-567",
		Amount:    60000,
		PayeeType: PayeeVendor,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, TypeExternal, p.Type)

	// Exactly exhausting the internal balance is allowed.
	_, err = svc.CreateExternal(ctx, ExternalInput{PONumber: "PO-1234-567", Amount: 40000}, actor)
	require.NoError(t, err)
}

func TestCreateExternalCapExceeded(t *testing.T) {
	svc, repo, _ := newTestService(noopLocker{})
	ctx := context.Background()

	_, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 100000}, actor)
	require.NoError(t, err)
	before := repo.count()

	_, err = svc.CreateExternal(ctx, ExternalInput{PONumber: "PO-1234-567", Amount: 1000000}, actor)
	require.ErrorIs(t, err, shared.ErrLimitExceeded)
	require.Contains(t, err.Error(), "cannot exceed")
	require.Equal(t, before, repo.count())
}

func TestCreateExternalBadPayeeType(t *testing.T) {
	svc, _, _ := newTestService(noopLocker{})
	_, err := svc.CreateExternal(context.Background(), ExternalInput{
		PONumber:  "PO-1234-567",
		Amount:    100,
		PayeeType: "bank",
	}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSummary(t *testing.T) {
	svc, _, _ := newTestService(noopLocker{})
	ctx := context.Background()

	_, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 100000}, actor)
	require.NoError(t, err)
	_, err = svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 50000}, actor)
	require.NoError(t, err)
	_, err = svc.CreateExternal(ctx, ExternalInput{PONumber: "PO-1234-567", Amount: 30000}, actor)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, "PO-1234-567")
	require.NoError(t, err)
	require.Equal(t, 150000.0, summary.InternalPaid)
	require.Equal(t, 30000.0, summary.ExternalPaid)
	require.Equal(t, summary.InternalPaid-summary.ExternalPaid, summary.ExternalRemaining)
}

func TestSummaryUnknownPO(t *testing.T) {
	svc, _, _ := newTestService(noopLocker{})
	_, err := svc.Summary(context.Background(), "PO-9999-999")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListFiltersLegacyRows(t *testing.T) {
	svc, repo, _ := newTestService(noopLocker{})
	ctx := context.Background()

	_, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 100}, actor)
	require.NoError(t, err)
	// Legacy row from before payment types were tagged.
	require.NoError(t, repo.Insert(ctx, Payment{ID: "legacy-1", PONumber: "PO-1234-567", Amount: 50}))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	internal, err := svc.List(ctx, TypeInternal)
	require.NoError(t, err)
	require.Len(t, internal, 1)

	external, err := svc.List(ctx, TypeExternal)
	require.NoError(t, err)
	require.Empty(t, external)

	_, err = svc.List(ctx, "upi")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo, _ := newTestService(noopLocker{})
	ctx := context.Background()

	p, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 100}, actor)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, p.ID, actor), shared.ErrForbidden)
	require.Equal(t, 1, repo.count())

	require.NoError(t, svc.Delete(ctx, p.ID, admin))
	require.Equal(t, 0, repo.count())

	require.ErrorIs(t, svc.Delete(ctx, p.ID, admin), shared.ErrNotFound)
}

func TestConcurrentExternalPaymentsRespectCap(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locks := shared.NewRedisLockManager(client)

	svc, repo, _ := newTestService(locks)
	repo.sumDelay = 20 * time.Millisecond
	ctx := context.Background()

	_, err := svc.CreateInternal(ctx, InternalInput{PONumber: "PO-1234-567", Amount: 100000}, actor)
	require.NoError(t, err)

	// Two 60k disbursements against a 100k balance: exactly one may land.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateExternal(ctx, ExternalInput{PONumber: "PO-1234-567", Amount: 60000}, actor)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			require.ErrorIs(t, err, shared.ErrLimitExceeded)
			failures++
		}
	}
	require.Equal(t, 1, failures)

	_, external, err := repo.SumByType(ctx, "PO-1234-567")
	require.NoError(t, err)
	require.LessOrEqual(t, external, 100000.0)
}
