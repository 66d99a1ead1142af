package core

// TransferRequest is a request to move funds between two distinct accounts.
// The same struct is validated locally and submitted to the gateway.
type TransferRequest struct {
	AccountID            int64  `json:"accountId"`
	DestinationAccountID int64  `json:"destinationAccountId"`
	Amount               Money  `json:"amount"`
	Description          string `json:"description"`
}

// Validate rejects a transfer locally, before any network round trip.
// Balance sufficiency is deliberately not checked here: the gateway is
// authoritative for balances and performs the blocking check server-side.
func (r TransferRequest) Validate() error {
	if r.AccountID == 0 {
		return ErrMissingAccount
	}
	if r.DestinationAccountID == 0 {
		return ErrMissingDestination
	}
	if r.AccountID == r.DestinationAccountID {
		return ErrSameAccount
	}
	if r.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return ValidateDescription(r.Description)
}

// ExceedsBalance reports whether the requested amount exceeds the source
// account's last known balance. Advisory only: the result is shown as a
// warning and never blocks submission.
func (r TransferRequest) ExceedsBalance(sourceBalance Money) bool {
	return r.Amount.Cents > sourceBalance.Cents
}
