// Package services orchestrates storage and event publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
)

// ExpenseRepository is the slice of the storage layer the service needs.
type ExpenseRepository interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

// EventPublisher publishes expense mutation events.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, action string, expenseID, userID int64) error
}

// ExpenseService persists first, then publishes a best-effort event.
// A publish failure is logged and never surfaced: the store is the
// source of truth and the request already succeeded.
type ExpenseService struct {
	repo      ExpenseRepository
	publisher EventPublisher
}

func NewExpenseService(repo ExpenseRepository, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{repo: repo, publisher: publisher}
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	stored, err := s.repo.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	s.publish(ctx, events.ActionCreated, stored.ID, stored.UserID)
	return stored, nil
}

func (s *ExpenseService) List(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.repo.ListExpenses(ctx, userID)
}

func (s *ExpenseService) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	stored, err := s.repo.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}
	s.publish(ctx, events.ActionUpdated, stored.ID, stored.UserID)
	return stored, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, events.ActionDeleted, id, userID)
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, action string, expenseID, userID int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, action, expenseID, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", action,
			"expense_id", expenseID,
			"error", err)
	}
}
