package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/model"
	"omshree-backend/internal/service"
)

type stubCheckout struct {
	resp *dto.VerifyPaymentResponse
	err  error
}

func (s *stubCheckout) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	return s.resp, s.err
}

type stubMail struct {
	failureErr error
}

func (s *stubMail) SendOrderConfirmation(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	return nil
}

func (s *stubMail) SendPaymentFailure(ctx context.Context, email, name, errorMessage string, orderData []byte) error {
	return s.failureErr
}

func post(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h(e.NewContext(req, rec))
	require.NoError(t, err)

	return rec
}

func newHandler(checkout service.CheckoutService, mail service.MailSender) *PaymentHandler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPaymentHandler(checkout, service.NewNotifier(mail, log))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestVerifyPaymentErrorContract(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"missing fields", service.ErrMissingVerificationData, http.StatusBadRequest, "Missing payment verification data"},
		{"bad signature", service.ErrVerificationFailed, http.StatusBadRequest, "Payment verification failed"},
		{"bad address", service.ErrInvalidAddress, http.StatusBadRequest, "Invalid address"},
		{"duplicate", service.ErrDuplicatePayment, http.StatusConflict, "Payment already processed"},
		{"persistence failure", service.ErrOrderNotSaved, http.StatusInternalServerError, "Payment verified but failed to save order"},
		{"price mismatch", service.ErrPriceMismatch, http.StatusBadRequest, service.ErrPriceMismatch.Error()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHandler(&stubCheckout{err: tc.err}, &stubMail{})

			rec := post(t, h.VerifyPayment, "/api/payment/verify", `{}`)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantError, decodeError(t, rec))
		})
	}
}

func TestVerifyPaymentSuccessBody(t *testing.T) {
	h := newHandler(&stubCheckout{resp: &dto.VerifyPaymentResponse{
		Success:     true,
		PaymentID:   "pay_xyz",
		OrderID:     42,
		OrderNumber: "ORD-1700000000000-A1B2C3D4E",
		Message:     "Payment verified and order placed",
	}}, &stubMail{})

	rec := post(t, h.VerifyPayment, "/api/payment/verify", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, uint(42), body.OrderID)
	assert.Equal(t, "pay_xyz", body.PaymentID)
	assert.Equal(t, "ORD-1700000000000-A1B2C3D4E", body.OrderNumber)
}

func TestVerifyPaymentVerificationOnlyOmitsOrderFields(t *testing.T) {
	h := newHandler(&stubCheckout{resp: &dto.VerifyPaymentResponse{
		Success:   true,
		PaymentID: "pay_xyz",
	}}, &stubMail{})

	rec := post(t, h.VerifyPayment, "/api/payment/verify", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body, "order_id")
	assert.NotContains(t, body, "order_number")
	assert.Equal(t, "pay_xyz", body["payment_id"])
}

func TestPaymentFailureRequiresEmailAndMessage(t *testing.T) {
	h := newHandler(&stubCheckout{}, &stubMail{})

	rec := post(t, h.PaymentFailure, "/api/payment/failure", `{"userName":"Asha"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentFailureSendsNotice(t *testing.T) {
	h := newHandler(&stubCheckout{}, &stubMail{})

	rec := post(t, h.PaymentFailure, "/api/payment/failure",
		`{"userEmail":"asha@example.com","userName":"Asha","errorMessage":"card declined"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPaymentFailureSurfacesSendError(t *testing.T) {
	h := newHandler(&stubCheckout{}, &stubMail{failureErr: errors.New("smtp: provider down")})

	rec := post(t, h.PaymentFailure, "/api/payment/failure",
		`{"userEmail":"asha@example.com","errorMessage":"card declined"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "provider down")
}
