package core

import "testing"

func TestTransferRequestValidate(t *testing.T) {
	good := TransferRequest{
		AccountID:            1,
		DestinationAccountID: 2,
		Amount:               Money{Cents: 5000},
		Description:          "monthly savings",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*TransferRequest)
		want error
	}{
		{"same account", func(r *TransferRequest) { r.DestinationAccountID = r.AccountID }, ErrSameAccount},
		{"no source", func(r *TransferRequest) { r.AccountID = 0 }, ErrMissingAccount},
		{"no destination", func(r *TransferRequest) { r.DestinationAccountID = 0 }, ErrMissingDestination},
		{"zero amount", func(r *TransferRequest) { r.Amount = Money{} }, ErrInvalidAmount},
		{"short description", func(r *TransferRequest) { r.Description = "ab" }, ErrShortDescription},
	}
	for _, tc := range cases {
		r := good
		tc.mut(&r)
		if err := r.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTransferExceedsBalance(t *testing.T) {
	r := TransferRequest{Amount: Money{Cents: 10000}}
	if !r.ExceedsBalance(Money{Cents: 9999}) {
		t.Fatal("expected warning when amount exceeds balance")
	}
	if r.ExceedsBalance(Money{Cents: 10000}) {
		t.Fatal("equal balance should not warn")
	}
}
