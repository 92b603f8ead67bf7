package logistics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/shared"
)

type memoryRepo struct {
	shipments map[string]Shipment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{shipments: map[string]Shipment{}}
}

func (m *memoryRepo) Create(_ context.Context, s Shipment) error {
	m.shipments[s.ID] = s
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Shipment, error) {
	s, ok := m.shipments[id]
	if !ok {
		return Shipment{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) List(_ context.Context, status string, limit, _ int) ([]Shipment, error) {
	var shipments []Shipment
	for _, s := range m.shipments {
		if status == "" || s.Status == status {
			shipments = append(shipments, s)
		}
		if len(shipments) >= limit {
			break
		}
	}
	return shipments, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, s Shipment) (bool, error) {
	if _, ok := m.shipments[s.ID]; !ok {
		return false, nil
	}
	m.shipments[s.ID] = s
	return true, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.shipments[id]; !ok {
		return false, nil
	}
	delete(m.shipments, id)
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

func createTestShipment(t *testing.T, svc *Service) Shipment {
	t.Helper()
	s, err := svc.Create(context.Background(), CreateInput{
		PONumber:        "PO-1234-567",
		TransporterName: "BlueDart",
		FromLocation:    "Nova Warehouse",
		ToLocation:      "Magnova Store",
		IMEIList:        []string{"111", "222", "333"},
	}, actor)
	require.NoError(t, err)
	return s
}

func TestCreateShipment(t *testing.T) {
	svc, _ := newTestService()
	s := createTestShipment(t, svc)
	require.Equal(t, StatusPending, s.Status)
	require.Equal(t, 3, s.PickupQuantity)
	require.False(t, s.PickupDate.IsZero())
	require.Nil(t, s.ActualDelivery)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{TransporterName: "BlueDart"}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateStatusDeliveryStamp(t *testing.T) {
	svc, _ := newTestService()
	s := createTestShipment(t, svc)
	ctx := context.Background()

	moving, err := svc.UpdateStatus(ctx, s.ID, StatusInTransit, actor)
	require.NoError(t, err)
	require.Nil(t, moving.ActualDelivery)

	delivered, err := svc.UpdateStatus(ctx, s.ID, StatusDelivered, actor)
	require.NoError(t, err)
	require.NotNil(t, delivered.ActualDelivery)

	_, err = svc.UpdateStatus(ctx, s.ID, "lost", actor)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateStatusUnknownShipment(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), "missing", StatusDelivered, actor)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo := newTestService()
	s := createTestShipment(t, svc)
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, s.ID, actor), shared.ErrForbidden)
	require.Len(t, repo.shipments, 1)

	require.NoError(t, svc.Delete(ctx, s.ID, admin))
	require.Empty(t, repo.shipments)
}
