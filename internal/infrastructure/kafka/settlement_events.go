package kafka

// Events consumed by the storefront, the admin console and the
// notification bots. Payloads carry enough state that consumers do not
// have to read the ledger back.

type OrderEvent struct {
	OrderID   string `json:"order_id"`
	BuyerID   string `json:"buyer_id"`
	SellerID  string `json:"seller_id"`
	ListingID string `json:"listing_id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type PayoutEvent struct {
	PayoutID string `json:"payout_id"`
	OrderID  string `json:"order_id"`
	SellerID string `json:"seller_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

type DisputeEvent struct {
	DisputeID  string `json:"dispute_id"`
	OrderID    string `json:"order_id"`
	RaisedBy   string `json:"raised_by"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
}
