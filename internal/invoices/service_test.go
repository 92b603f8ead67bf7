package invoices

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/shared"
)

type memoryRepo struct {
	invoices map[string]Invoice
	numbers  map[string]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{invoices: map[string]Invoice{}, numbers: map[string]bool{}}
}

func (m *memoryRepo) Create(_ context.Context, inv Invoice) error {
	if m.numbers[inv.Number] {
		return ErrDuplicateNumber
	}
	m.invoices[inv.ID] = inv
	m.numbers[inv.Number] = true
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (m *memoryRepo) List(_ context.Context, limit, _ int) ([]Invoice, error) {
	var invoices []Invoice
	for _, inv := range m.invoices {
		invoices = append(invoices, inv)
		if len(invoices) >= limit {
			break
		}
	}
	return invoices, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.invoices[id]; !ok {
		return false, nil
	}
	delete(m.invoices, id)
	return true, nil
}

type memoryAudit struct {
	logs []shared.AuditLog
}

func (m *memoryAudit) Record(_ context.Context, log shared.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

var (
	actor = shared.Identity{UserID: "u-1", Name: "Ops User"}
	admin = shared.Identity{UserID: "u-0", Name: "Admin", Role: shared.RoleAdmin}
)

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(repo, &memoryAudit{}), repo
}

func TestCreateComputesTotal(t *testing.T) {
	svc, _ := newTestService()
	cases := []struct {
		amount, gst, pct, total float64
	}{
		{10000, 1800, 18, 11800},
		{10000, 500, 5, 10500},
		{10000, 1200, 12, 11200},
		{10000, 2800, 28, 12800},
		{10000, 0, 0, 10000},
	}
	for _, tc := range cases {
		inv, err := svc.Create(context.Background(), CreateInput{
			FromOrg:       "Nova Enterprises",
			ToOrg:         "Customer",
			Amount:        tc.amount,
			GSTAmount:     tc.gst,
			GSTPercentage: tc.pct,
		}, actor)
		require.NoError(t, err)
		require.Equal(t, tc.total, inv.TotalAmount)
		require.Equal(t, tc.gst, inv.GSTAmount)
		require.Regexp(t, regexp.MustCompile(`^INV-\d{5}$`), inv.Number)
		require.Equal(t, "pending", inv.PaymentStatus)
	}
}

func TestCreateDerivesGSTFromPercentage(t *testing.T) {
	svc, _ := newTestService()
	inv, err := svc.Create(context.Background(), CreateInput{
		FromOrg:       "Nova Enterprises",
		ToOrg:         "Customer",
		Amount:        10000,
		GSTPercentage: 18,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, 1800.0, inv.GSTAmount)
	require.Equal(t, 11800.0, inv.TotalAmount)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FromOrg: "A", ToOrg: "B", Amount: -1}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{FromOrg: "A", ToOrg: "B", GSTPercentage: 120}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Amount: 100}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo := newTestService()
	inv, err := svc.Create(context.Background(), CreateInput{FromOrg: "A", ToOrg: "B", Amount: 100}, actor)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), inv.ID, actor), shared.ErrForbidden)
	require.Len(t, repo.invoices, 1)

	require.NoError(t, svc.Delete(context.Background(), inv.ID, admin))
	require.Empty(t, repo.invoices)
}
