package sales

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/shared"
)

type memoryRepo struct {
	orders map[string]SalesOrder
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{orders: map[string]SalesOrder{}}
}

func (m *memoryRepo) Create(_ context.Context, so SalesOrder) error {
	m.orders[so.ID] = so
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (SalesOrder, error) {
	so, ok := m.orders[id]
	if !ok {
		return SalesOrder{}, ErrNotFound
	}
	return so, nil
}

func (m *memoryRepo) List(_ context.Context, limit, _ int) ([]SalesOrder, error) {
	var orders []SalesOrder
	for _, so := range m.orders {
		orders = append(orders, so)
		if len(orders) >= limit {
			break
		}
	}
	return orders, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
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

func TestCreateDerivesQuantity(t *testing.T) {
	svc, _ := newTestService()
	so, err := svc.Create(context.Background(), CreateInput{
		CustomerName: "Retail Partner",
		CustomerType: "b2b",
		TotalAmount:  165000,
		IMEIList:     []string{"111", "222", "333"},
	}, actor)
	require.NoError(t, err)
	require.Equal(t, 3, so.TotalQuantity)
	require.Regexp(t, regexp.MustCompile(`^SO-\d{4}$`), so.Number)
	require.Equal(t, "completed", so.Status)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{IMEIList: []string{"1"}}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{CustomerName: "X"}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{CustomerName: "X", IMEIList: []string{"1"}, TotalAmount: -1}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo := newTestService()
	so, err := svc.Create(context.Background(), CreateInput{
		CustomerName: "Retail Partner",
		IMEIList:     []string{"111"},
	}, actor)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), so.ID, actor), shared.ErrForbidden)
	require.Len(t, repo.orders, 1)

	require.NoError(t, svc.Delete(context.Background(), so.ID, admin))
	require.Empty(t, repo.orders)

	require.ErrorIs(t, svc.Delete(context.Background(), so.ID, admin), shared.ErrNotFound)
}
