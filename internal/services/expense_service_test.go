package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/events"
)

type fakeRepo struct {
	created  core.Expense
	deleteID int64
	err      error
}

func (f *fakeRepo) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if f.err != nil {
		return core.Expense{}, f.err
	}
	e.ID = 1
	f.created = e
	return e, nil
}

func (f *fakeRepo) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	return []core.Expense{f.created}, f.err
}

func (f *fakeRepo) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if f.err != nil {
		return core.Expense{}, f.err
	}
	f.created = e
	return e, nil
}

func (f *fakeRepo) DeleteExpense(ctx context.Context, userID, id int64) error {
	f.deleteID = id
	return f.err
}

type fakePublisher struct {
	actions []string
	err     error
}

func (f *fakePublisher) PublishExpenseEvent(ctx context.Context, action string, expenseID, userID int64) error {
	f.actions = append(f.actions, action)
	return f.err
}

func validExpense() core.Expense {
	return core.Expense{
		UserID:   7,
		Amount:   core.Money{Cents: 1500},
		Category: "Food",
		Date:     core.NewDate(2026, 1, 15),
	}
}

func TestCreatePublishesEvent(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewExpenseService(repo, pub)

	stored, err := svc.Create(context.Background(), validExpense())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if stored.ID != 1 {
		t.Fatalf("stored.ID = %d, want 1", stored.ID)
	}
	if len(pub.actions) != 1 || pub.actions[0] != events.ActionCreated {
		t.Fatalf("published %v, want [%s]", pub.actions, events.ActionCreated)
	}
}

func TestCreateStorageErrorSkipsPublish(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk full")}
	pub := &fakePublisher{}
	svc := NewExpenseService(repo, pub)

	if _, err := svc.Create(context.Background(), validExpense()); err == nil {
		t.Fatal("expected storage error")
	}
	if len(pub.actions) != 0 {
		t.Fatalf("published %v, want nothing", pub.actions)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(repo, pub)

	if _, err := svc.Create(context.Background(), validExpense()); err != nil {
		t.Fatalf("Create must succeed despite publish failure, got %v", err)
	}
	if _, err := svc.Update(context.Background(), validExpense()); err != nil {
		t.Fatalf("Update must succeed despite publish failure, got %v", err)
	}
	if err := svc.Delete(context.Background(), 7, 1); err != nil {
		t.Fatalf("Delete must succeed despite publish failure, got %v", err)
	}
}

func TestNilPublisher(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewExpenseService(repo, nil)

	if _, err := svc.Create(context.Background(), validExpense()); err != nil {
		t.Fatalf("Create with nil publisher: %v", err)
	}
	if err := svc.Delete(context.Background(), 7, 1); err != nil {
		t.Fatalf("Delete with nil publisher: %v", err)
	}
}

func TestDeleteNotFoundPassesThrough(t *testing.T) {
	repo := &fakeRepo{err: core.ErrNotFound}
	pub := &fakePublisher{}
	svc := NewExpenseService(repo, pub)

	err := svc.Delete(context.Background(), 7, 99)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(pub.actions) != 0 {
		t.Fatalf("published %v, want nothing", pub.actions)
	}
}

func TestUpdatePublishesEvent(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	svc := NewExpenseService(repo, pub)

	e := validExpense()
	e.ID = 3
	if _, err := svc.Update(context.Background(), e); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(pub.actions) != 1 || pub.actions[0] != events.ActionUpdated {
		t.Fatalf("published %v, want [%s]", pub.actions, events.ActionUpdated)
	}
}
