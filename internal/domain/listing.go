package domain

import "context"

// Listing is the read-only view of a storefront listing the order factory
// needs: who sells it, for how much, and whether it may be sold right now.
type Listing struct {
	ID          string
	SellerID    string
	PriceAmount int64
	Currency    string
	Sellable    bool
}

// ListingDirectory is the external listing/seller lookup service.
type ListingDirectory interface {
	GetListing(ctx context.Context, listingID string) (*Listing, error)
}
