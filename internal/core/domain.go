package core

import (
	"errors"
	"strings"
)

const (
	Current    AccountType = "Current"
	Savings    AccountType = "Savings"
	CreditCard AccountType = "Credit"
	Investment AccountType = "Investment"
)

const (
	Debit    TransactionType = "Debit"
	Credit   TransactionType = "Credit"
	Transfer TransactionType = "Transfer"
)

type (
	AccountType     string
	TransactionType string

	// Account is a named balance-bearing entity. Balance is authoritative on
	// the gateway side; the client never computes or submits it.
	Account struct {
		ID        int64       `json:"id"`
		Name      string      `json:"name"`
		Type      AccountType `json:"type"`
		Balance   Money       `json:"balance"`
		CreatedAt Date        `json:"createdAt"`
		UpdatedAt Date        `json:"updatedAt"`
	}

	// Transaction is a single Credit, Debit or Transfer event. Amount is
	// always non-negative; the sign of its effect follows from Type.
	Transaction struct {
		ID                 int64           `json:"id"`
		Type               TransactionType `json:"type"`
		Amount             Money           `json:"amount"`
		Description        string          `json:"description"`
		Date               Date            `json:"transactionDate"`
		Account            Account         `json:"account"`
		DestinationAccount *Account        `json:"destinationAccount,omitempty"`
		CreatedAt          Date            `json:"createdAt"`
		UpdatedAt          Date            `json:"updatedAt"`
	}
)

const minDescriptionLen = 3

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrShortDescription   = errors.New("description must have at least 3 characters")
	ErrEmptyName          = errors.New("empty account name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrMissingAccount     = errors.New("missing account")
	ErrMissingDestination = errors.New("missing destination account")
	ErrSameAccount        = errors.New("source and destination accounts must differ")
)

func (t AccountType) IsValid() bool {
	switch t {
	case Current, Savings, CreditCard, Investment:
		return true
	default:
		return false
	}
}

// AccountTypes returns the fixed account type enumeration in display order.
func AccountTypes() []AccountType {
	return []AccountType{Current, Savings, CreditCard, Investment}
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Debit, Credit, Transfer:
		return true
	default:
		return false
	}
}

// TransactionTypes returns the fixed transaction type enumeration in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{Debit, Credit, Transfer}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Account.ID == 0 {
		return ErrMissingAccount
	}
	if t.Type == Transfer {
		if t.DestinationAccount == nil || t.DestinationAccount.ID == 0 {
			return ErrMissingDestination
		}
		if t.DestinationAccount.ID == t.Account.ID {
			return ErrSameAccount
		}
	}
	return nil
}

// ValidateDescription applies the shared description rule for form input.
func ValidateDescription(s string) error {
	if len(strings.TrimSpace(s)) < minDescriptionLen {
		return ErrShortDescription
	}
	if len(s) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
