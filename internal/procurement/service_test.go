package procurement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magnova/magnova-procure/internal/inventory"
	"github.com/magnova/magnova-procure/internal/shared"
)

type memoryRepo struct {
	records map[string]Procurement
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[string]Procurement{}}
}

func (m *memoryRepo) Create(_ context.Context, p Procurement) error {
	m.records[p.ID] = p
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Procurement, error) {
	p, ok := m.records[id]
	if !ok {
		return Procurement{}, ErrNotFound
	}
	return p, nil
}

func (m *memoryRepo) List(_ context.Context, limit, _ int) ([]Procurement, error) {
	var records []Procurement
	for _, p := range m.records {
		records = append(records, p)
		if len(records) >= limit {
			break
		}
	}
	return records, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

type stubInventory struct {
	registered []inventory.RegisterInput
	failWith   error
}

func (s *stubInventory) Register(_ context.Context, input inventory.RegisterInput, _ shared.Identity) (inventory.Device, error) {
	if s.failWith != nil {
		return inventory.Device{}, s.failWith
	}
	s.registered = append(s.registered, input)
	return inventory.Device{IMEI: input.IMEI}, nil
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

func newTestService() (*Service, *memoryRepo, *stubInventory) {
	repo := newMemoryRepo()
	inv := &stubInventory{}
	return NewService(repo, inv, &memoryAudit{}), repo, inv
}

func TestCreateRegistersDevice(t *testing.T) {
	svc, repo, inv := newTestService()
	p, err := svc.Create(context.Background(), CreateInput{
		PONumber:      "PO-1234-567",
		VendorName:    "Apple",
		IMEI:          "356938035643809",
		DeviceModel:   "iPhone 14",
		PurchasePrice: 55000,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, 1, p.Quantity)
	require.Len(t, repo.records, 1)
	require.Len(t, inv.registered, 1)
	require.Equal(t, p.ID, inv.registered[0].ProcurementID)
	require.Equal(t, "356938035643809", inv.registered[0].IMEI)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{DeviceModel: "X"}, actor)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateStopsOnDuplicateIMEI(t *testing.T) {
	svc, repo, inv := newTestService()
	inv.failWith = inventory.ErrDuplicateIMEI
	_, err := svc.Create(context.Background(), CreateInput{
		IMEI:        "356938035643809",
		DeviceModel: "iPhone 14",
	}, actor)
	require.ErrorIs(t, err, shared.ErrDuplicate)
	require.Empty(t, repo.records)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, repo, _ := newTestService()
	p, err := svc.Create(context.Background(), CreateInput{IMEI: "1", DeviceModel: "X"}, actor)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), p.ID, actor), shared.ErrForbidden)
	require.Len(t, repo.records, 1)

	require.NoError(t, svc.Delete(context.Background(), p.ID, admin))
	require.Empty(t, repo.records)
}
