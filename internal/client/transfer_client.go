package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lunamarket/settlement-service/internal/domain"
)

type transferRequestBody struct {
	PayoutID      string `json:"payout_id"`
	SellerID      string `json:"seller_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder"`
	AccountRef    string `json:"account_ref"`
}

type transferErrorResponse struct {
	Error string `json:"error"`
}

// HTTPTransferClient talks to the payout transfer network. Every call
// carries the configured timeout; a timeout is reported as an error, never
// as a settlement.
type HTTPTransferClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTransferClient(baseURL string, timeout time.Duration) *HTTPTransferClient {
	return &HTTPTransferClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPTransferClient) Transfer(ctx context.Context, req *domain.TransferRequest) error {
	requestBodyBytes, err := json.Marshal(transferRequestBody{
		PayoutID:      req.PayoutID,
		SellerID:      req.SellerID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		BankName:      req.BankName,
		AccountHolder: req.AccountHolder,
		AccountRef:    req.AccountRef,
	})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/transfers", c.baseURL), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	var errorResponse transferErrorResponse
	if err := json.Unmarshal(responseBodyBytes, &errorResponse); err != nil {
		return fmt.Errorf("transfer failed with status %d", response.StatusCode)
	}
	return errors.New(errorResponse.Error)
}
