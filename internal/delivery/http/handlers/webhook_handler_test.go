package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lunamarket/settlement-service/internal/domain"
)

type stubWebhookUsecase struct {
	err       error
	gotBody   []byte
	gotSig    string
	callCount int
}

func (s *stubWebhookUsecase) HandleEvent(_ context.Context, rawBody []byte, signature string) error {
	s.callCount++
	s.gotBody = rawBody
	s.gotSig = signature
	return s.err
}

func newWebhookRouter(stub *stubWebhookUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/gateway", NewWebhookHandler(stub).HandleGatewayEvent)
	return r
}

func TestHandleGatewayEvent(t *testing.T) {
	stub := &stubWebhookUsecase{}
	r := newWebhookRouter(stub)

	body := []byte(`{"id":"evt-1","type":"payment.captured"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/gateway", bytes.NewReader(body))
	req.Header.Set("X-Gateway-Signature", "abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !bytes.Equal(stub.gotBody, body) {
		t.Error("handler did not pass the raw body through untouched")
	}
	if stub.gotSig != "abc123" {
		t.Errorf("signature = %q, want abc123", stub.gotSig)
	}
}

func TestHandleGatewayEventBadSignature(t *testing.T) {
	stub := &stubWebhookUsecase{err: domain.ErrInvalidSignature}
	r := newWebhookRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/gateway", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestHandleGatewayEventInternalError(t *testing.T) {
	stub := &stubWebhookUsecase{err: domain.ErrPaymentNotFound}
	r := newWebhookRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/gateway", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Anything but a bad signature is our problem, and the gateway should
	// retry, so it must not look like a client error.
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
