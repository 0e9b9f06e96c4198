package core

import (
	"errors"
	"testing"
	"time"
)

func validExpense() Expense {
	return Expense{
		UserID:   1,
		Amount:   Money{Cents: 1250},
		Category: "Food",
		Date:     NewDate(2026, 1, 15),
		Note:     "lunch",
	}
}

func TestExpenseValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"valid", func(e *Expense) {}, nil},
		{"zero amount", func(e *Expense) { e.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount.Cents = -100 }, ErrInvalidAmount},
		{"empty category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"blank category", func(e *Expense) { e.Category = "   " }, ErrEmptyCategory},
		{"category too long", func(e *Expense) {
			long := make([]byte, 101)
			for i := range long {
				long[i] = 'x'
			}
			e.Category = string(long)
		}, ErrCategoryTooLong},
		{"note too long", func(e *Expense) {
			long := make([]byte, 501)
			for i := range long {
				long[i] = 'x'
			}
			e.Note = string(long)
		}, ErrNoteTooLong},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{"empty note ok", func(e *Expense) { e.Note = "" }, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validExpense()
			tc.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "Ada", "ada@example.com", "secret", nil},
		{"empty name", "", "ada@example.com", "secret", ErrEmptyName},
		{"blank name", "   ", "ada@example.com", "secret", ErrEmptyName},
		{"missing at", "Ada", "ada.example.com", "secret", ErrInvalidEmail},
		{"leading at", "Ada", "@example.com", "secret", ErrInvalidEmail},
		{"trailing at", "Ada", "ada@", "secret", ErrInvalidEmail},
		{"double at", "Ada", "a@b@example.com", "secret", ErrInvalidEmail},
		{"empty password", "Ada", "ada@example.com", "", ErrEmptyPassword},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRegistration(tc.userName, tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateRegistration() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-07")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2026-02-07" {
		t.Fatalf("round trip: got %q", d.String())
	}

	for _, bad := range []string{"", "07/02/2026", "2026-13-01", "2026-02-30", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q) = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestDateOfTruncates(t *testing.T) {
	d := DateOf(time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC))
	if d.String() != "2026-03-14" {
		t.Fatalf("got %q", d.String())
	}
	if h, m, s := d.Clock(); h != 0 || m != 0 || s != 0 {
		t.Fatalf("time component not midnight: %02d:%02d:%02d", h, m, s)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrInvalidAmount) {
		t.Fatal("ErrInvalidAmount should be a validation error")
	}
	if IsValidationError(ErrNotFound) {
		t.Fatal("ErrNotFound should not be a validation error")
	}
	if IsValidationError(ErrDuplicateEmail) {
		t.Fatal("ErrDuplicateEmail should not be a validation error")
	}
	if IsValidationError(nil) {
		t.Fatal("nil should not be a validation error")
	}
}
