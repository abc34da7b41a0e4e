package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the lexical form of Transaction.Date.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Transaction is a single ledger entry. ID and CreatedAt are assigned
	// by the store at creation time; there is no update path, correcting
	// an entry means delete-and-recreate.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Amount      float64         `json:"amount"`
		Description string          `json:"description"`
		Date        string          `json:"date"` // YYYY-MM-DD
		MemberID    string          `json:"memberId,omitempty"` // empty = anonymous contribution
		CreatedAt   time.Time       `json:"createdAt"`
		CreatedBy   string          `json:"createdBy,omitempty"` // email of the session that created the entry
	}

	// Member is a named contributor whose income entries can be attributed.
	Member struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty member name")
	ErrNameTooLong        = errors.New("member name too long (max 100 characters)")
)

func (tt TransactionType) Valid() bool {
	switch tt {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Sign returns "+" for income and "-" for expense.
func (tt TransactionType) Sign() string {
	if tt == Income {
		return "+"
	}
	return "-"
}

func ParseTransactionType(s string) (TransactionType, error) {
	tt := TransactionType(strings.TrimSpace(s))
	if !tt.Valid() {
		return "", ErrInvalidType
	}
	return tt, nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (m Member) Validate() error {
	if len(strings.TrimSpace(m.Name)) == 0 {
		return ErrEmptyName
	}
	if len(m.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
