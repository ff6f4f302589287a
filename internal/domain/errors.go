package domain

import "errors"

var (
	// Order factory validation and conflict errors, surfaced to the buyer.
	ErrListingUnavailable = errors.New("listing is not available for purchase")
	ErrInvalidPurchase    = errors.New("buyer cannot purchase their own listing")
	ErrDuplicatePurchase  = errors.New("listing already purchased by this buyer")

	// State machine violations.
	ErrTerminalState  = errors.New("order is in a terminal state")
	ErrStatusConflict = errors.New("entity is not in the expected status")

	// Webhook authenticity failure. Never surfaced to a user, only logged.
	ErrInvalidSignature = errors.New("webhook signature mismatch")

	// Dispute lifecycle errors.
	ErrDisputeAlreadyOpen   = errors.New("order already has an active dispute")
	ErrDisputeNotDisputable = errors.New("order status does not allow a dispute")
	ErrDisputeResolved      = errors.New("dispute is already resolved")

	// Not-found lookups.
	ErrOrderNotFound   = errors.New("order not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPayoutNotFound  = errors.New("payout not found")
	ErrDisputeNotFound = errors.New("dispute not found")
	ErrAccessNotFound  = errors.New("order access not found")
	ErrAccountNotFound = errors.New("seller bank account not found")

	// Payout dead ends requiring operator action.
	ErrMissingBankAccount = errors.New("seller has no enabled bank account")

	// Delivery allowance exhausted.
	ErrDownloadsExhausted = errors.New("download allowance exhausted")
)
