package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
)

type listingResponse struct {
	ID          string `json:"id"`
	SellerID    string `json:"seller_id"`
	PriceAmount int64  `json:"price_amount"`
	Currency    string `json:"currency"`
	Sellable    bool   `json:"sellable"`
}

// HTTPListingClient is the read-only lookup against the listing/seller
// directory service.
type HTTPListingClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPListingClient(baseURL string, timeout time.Duration) *HTTPListingClient {
	return &HTTPListingClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPListingClient) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/listings/%s", c.baseURL, listingID), nil)
	if err != nil {
		return nil, err
	}

	response, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, domain.ErrListingUnavailable
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("listing lookup failed with status %d", response.StatusCode)
	}

	var body listingResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return nil, err
	}
	return &domain.Listing{
		ID:          body.ID,
		SellerID:    body.SellerID,
		PriceAmount: body.PriceAmount,
		Currency:    body.Currency,
		Sellable:    body.Sellable,
	}, nil
}
