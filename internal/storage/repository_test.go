package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fintrack/internal/core"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := NewRepository(":memory:")
	require.NoError(s.T(), err, "failed to open test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) createUser(email string) *core.User {
	user, err := s.repo.CreateUser(s.ctx, "Test User", email, "hashed")
	require.NoError(s.T(), err)
	return user
}

func (s *RepositoryTestSuite) createExpense(userID int64, cents int64, category string, date core.Date) core.Expense {
	stored, err := s.repo.CreateExpense(s.ctx, core.Expense{
		UserID:   userID,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
	})
	require.NoError(s.T(), err)
	return stored
}

func (s *RepositoryTestSuite) TestCreateUser() {
	user := s.createUser("ada@example.com")
	assert.NotZero(s.T(), user.ID)
	assert.Equal(s.T(), "ada@example.com", user.Email)
	assert.Equal(s.T(), "hashed", user.PasswordHash)
	assert.False(s.T(), user.CreatedAt.IsZero())
}

func (s *RepositoryTestSuite) TestDuplicateEmail() {
	s.createUser("ada@example.com")
	_, err := s.repo.CreateUser(s.ctx, "Other", "ada@example.com", "hashed2")
	assert.ErrorIs(s.T(), err, core.ErrDuplicateEmail)
}

func (s *RepositoryTestSuite) TestGetUserByEmail() {
	created := s.createUser("ada@example.com")

	user, err := s.repo.GetUserByEmail(s.ctx, "ada@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, user.ID)

	_, err = s.repo.GetUserByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCreateAndGetExpense() {
	user := s.createUser("ada@example.com")
	stored := s.createExpense(user.ID, 1250, "Food", core.NewDate(2026, 1, 15))

	assert.NotZero(s.T(), stored.ID)
	assert.Equal(s.T(), user.ID, stored.UserID)
	assert.Equal(s.T(), int64(1250), stored.Amount.Cents)
	assert.Equal(s.T(), "Food", stored.Category)
	assert.Equal(s.T(), "2026-01-15", stored.Date.String())
	assert.False(s.T(), stored.CreatedAt.IsZero())
	assert.False(s.T(), stored.UpdatedAt.IsZero())
}

func (s *RepositoryTestSuite) TestListExpensesOrder() {
	user := s.createUser("ada@example.com")
	oldest := s.createExpense(user.ID, 100, "A", core.NewDate(2026, 1, 1))
	newest := s.createExpense(user.ID, 200, "B", core.NewDate(2026, 3, 1))
	middle := s.createExpense(user.ID, 300, "C", core.NewDate(2026, 2, 1))

	list, err := s.repo.ListExpenses(s.ctx, user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 3)
	assert.Equal(s.T(), newest.ID, list[0].ID)
	assert.Equal(s.T(), middle.ID, list[1].ID)
	assert.Equal(s.T(), oldest.ID, list[2].ID)
}

func (s *RepositoryTestSuite) TestListExpensesSameDateNewestInsertFirst() {
	user := s.createUser("ada@example.com")
	date := core.NewDate(2026, 1, 15)
	first := s.createExpense(user.ID, 100, "A", date)
	second := s.createExpense(user.ID, 200, "B", date)

	list, err := s.repo.ListExpenses(s.ctx, user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	assert.Equal(s.T(), second.ID, list[0].ID)
	assert.Equal(s.T(), first.ID, list[1].ID)
}

func (s *RepositoryTestSuite) TestListScopedToOwner() {
	ada := s.createUser("ada@example.com")
	bob := s.createUser("bob@example.com")
	s.createExpense(ada.ID, 100, "Food", core.NewDate(2026, 1, 1))
	s.createExpense(bob.ID, 200, "Rent", core.NewDate(2026, 1, 2))

	list, err := s.repo.ListExpenses(s.ctx, ada.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "Food", list[0].Category)
}

func (s *RepositoryTestSuite) TestUpdateExpenseReplacesAllFields() {
	user := s.createUser("ada@example.com")
	stored := s.createExpense(user.ID, 100, "Food", core.NewDate(2026, 1, 1))

	updated, err := s.repo.UpdateExpense(s.ctx, core.Expense{
		ID:       stored.ID,
		UserID:   user.ID,
		Amount:   core.Money{Cents: 999},
		Category: "Transport",
		Date:     core.NewDate(2026, 2, 2),
		Note:     "bus pass",
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(999), updated.Amount.Cents)
	assert.Equal(s.T(), "Transport", updated.Category)
	assert.Equal(s.T(), "2026-02-02", updated.Date.String())
	assert.Equal(s.T(), "bus pass", updated.Note)
	assert.Equal(s.T(), stored.CreatedAt, updated.CreatedAt)
}

func (s *RepositoryTestSuite) TestUpdateForeignExpenseIsNotFound() {
	ada := s.createUser("ada@example.com")
	bob := s.createUser("bob@example.com")
	stored := s.createExpense(ada.ID, 100, "Food", core.NewDate(2026, 1, 1))

	_, err := s.repo.UpdateExpense(s.ctx, core.Expense{
		ID:       stored.ID,
		UserID:   bob.ID,
		Amount:   core.Money{Cents: 1},
		Category: "X",
		Date:     core.NewDate(2026, 1, 1),
	})
	assert.ErrorIs(s.T(), err, core.ErrNotFound)

	// The row is untouched.
	list, err := s.repo.ListExpenses(s.ctx, ada.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), int64(100), list[0].Amount.Cents)
}

func (s *RepositoryTestSuite) TestUpdateUnknownIDIsNotFound() {
	user := s.createUser("ada@example.com")
	_, err := s.repo.UpdateExpense(s.ctx, core.Expense{
		ID:       9999,
		UserID:   user.ID,
		Amount:   core.Money{Cents: 1},
		Category: "X",
		Date:     core.NewDate(2026, 1, 1),
	})
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestDeleteExpense() {
	user := s.createUser("ada@example.com")
	stored := s.createExpense(user.ID, 100, "Food", core.NewDate(2026, 1, 1))

	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, user.ID, stored.ID))

	list, err := s.repo.ListExpenses(s.ctx, user.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list)

	// Deleting again is NotFound, not a silent success.
	err = s.repo.DeleteExpense(s.ctx, user.ID, stored.ID)
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestDeleteForeignExpenseIsNotFound() {
	ada := s.createUser("ada@example.com")
	bob := s.createUser("bob@example.com")
	stored := s.createExpense(ada.ID, 100, "Food", core.NewDate(2026, 1, 1))

	err := s.repo.DeleteExpense(s.ctx, bob.ID, stored.ID)
	assert.ErrorIs(s.T(), err, core.ErrNotFound)

	list, err := s.repo.ListExpenses(s.ctx, ada.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)
}

func (s *RepositoryTestSuite) TestPing() {
	assert.NoError(s.T(), s.repo.Ping(s.ctx))
}
