package medicine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/medibook/pkg/pagination"
)

// -- Mock repository --

type mockMedRepo struct {
	meds map[uuid.UUID]*Medicine
}

func newMockMedRepo() *mockMedRepo {
	return &mockMedRepo{meds: make(map[uuid.UUID]*Medicine)}
}

func (m *mockMedRepo) Create(_ context.Context, med *Medicine) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.meds[med.ID] = med
	return nil
}

func (m *mockMedRepo) GetByID(_ context.Context, id uuid.UUID) (*Medicine, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return med, nil
}

func (m *mockMedRepo) List(_ context.Context, f Filter, _ pagination.Params) ([]*Medicine, int, error) {
	var result []*Medicine
	for _, med := range m.meds {
		if f.Search != "" && !strings.Contains(strings.ToLower(med.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Category != "" && med.Category != f.Category {
			continue
		}
		result = append(result, med)
	}
	return result, len(result), nil
}

func (m *mockMedRepo) ApplyUpdate(_ context.Context, id uuid.UUID, upd *Update) (*Medicine, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		med.Name = *upd.Name
	}
	if upd.Price != nil {
		med.Price = *upd.Price
	}
	if upd.Stock != nil {
		med.Stock = *upd.Stock
	}
	if upd.Category != nil {
		med.Category = *upd.Category
	}
	return med, nil
}

func (m *mockMedRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.meds[id]; !ok {
		return ErrNotFound
	}
	delete(m.meds, id)
	return nil
}

func (m *mockMedRepo) ReduceStock(_ context.Context, id uuid.UUID, qty int) (*Medicine, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	if med.Stock < qty {
		return nil, ErrInsufficientStock
	}
	med.Stock -= qty
	return med, nil
}

func newTestService() (*Service, *mockMedRepo) {
	repo := newMockMedRepo()
	return NewService(repo), repo
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService()

	med, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		Name:  "Paracetamol",
		Price: 25,
		Stock: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if med.Category != CategoryOther {
		t.Errorf("expected default category other, got %s", med.Category)
	}
	if med.CreatedBy == nil {
		t.Error("expected created_by to be recorded")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	by := uuid.New()

	cases := map[string]CreateInput{
		"missing name":   {Price: 25},
		"negative price": {Name: "Paracetamol", Price: -1},
		"negative stock": {Name: "Paracetamol", Price: 25, Stock: -5},
		"bad category":   {Name: "Paracetamol", Price: 25, Category: "powder"},
	}
	for name, in := range cases {
		if _, err := svc.Create(context.Background(), by, in); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestList_Filters(t *testing.T) {
	svc, _ := newTestService()
	by := uuid.New()
	svc.Create(context.Background(), by, CreateInput{Name: "Paracetamol", Price: 25, Category: CategoryTablet})
	svc.Create(context.Background(), by, CreateInput{Name: "Cough Syrup", Price: 80, Category: CategorySyrup})

	meds, total, err := svc.List(context.Background(), Filter{Search: "para"}, pagination.Params{Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || meds[0].Name != "Paracetamol" {
		t.Errorf("search filter failed: %d results", total)
	}

	_, total, err = svc.List(context.Background(), Filter{Category: CategorySyrup}, pagination.Params{Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("category filter failed: %d results", total)
	}

	if _, _, err := svc.List(context.Background(), Filter{Category: "powder"}, pagination.Params{Limit: 20}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown category, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService()
	med, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Paracetamol", Price: 25})

	price := 30.0
	updated, err := svc.Update(context.Background(), med.ID, &Update{Price: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Price != 30 {
		t.Errorf("price not applied: %v", updated.Price)
	}

	if _, err := svc.Update(context.Background(), med.ID, &Update{}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty update: expected ErrValidation, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService()
	med, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Paracetamol", Price: 25})

	if err := svc.Delete(context.Background(), med.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), med.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReduceStock(t *testing.T) {
	svc, _ := newTestService()
	med, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Paracetamol", Price: 25, Stock: 10})

	updated, err := svc.ReduceStock(context.Background(), med.ID, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Stock != 6 {
		t.Errorf("expected stock 6, got %d", updated.Stock)
	}
}

func TestReduceStock_Insufficient(t *testing.T) {
	svc, _ := newTestService()
	med, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Paracetamol", Price: 25, Stock: 3})

	if _, err := svc.ReduceStock(context.Background(), med.ID, 5); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	// Failed guard leaves stock untouched.
	got, _ := svc.Get(context.Background(), med.ID)
	if got.Stock != 3 {
		t.Errorf("stock changed on failed reduce: %d", got.Stock)
	}
}

func TestReduceStock_Validation(t *testing.T) {
	svc, _ := newTestService()
	med, _ := svc.Create(context.Background(), uuid.New(), CreateInput{Name: "Paracetamol", Price: 25, Stock: 3})

	for _, qty := range []int{0, -1} {
		if _, err := svc.ReduceStock(context.Background(), med.ID, qty); !errors.Is(err, ErrValidation) {
			t.Errorf("qty %d: expected ErrValidation, got %v", qty, err)
		}
	}
}
