package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/service"
)

type PaymentHandler struct {
	checkout service.CheckoutService
	notifier *service.Notifier
}

func NewPaymentHandler(checkout service.CheckoutService, notifier *service.Notifier) *PaymentHandler {
	return &PaymentHandler{
		checkout: checkout,
		notifier: notifier,
	}
}

// VerifyPayment is the checkout callback target. It translates pipeline
// errors into the fixed JSON error contract; the 500 branch is reserved
// for the verified-but-not-saved case that needs manual reconciliation.
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request payload",
		})
	}

	resp, err := h.checkout.VerifyPayment(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingVerificationData):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Missing payment verification data",
			})
		case errors.Is(err, service.ErrVerificationFailed):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Payment verification failed",
			})
		case errors.Is(err, service.ErrInvalidAddress):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "Invalid address",
			})
		case errors.Is(err, service.ErrDuplicatePayment):
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "Payment already processed",
			})
		case errors.Is(err, service.ErrOrderNotSaved):
			return c.JSON(http.StatusInternalServerError, map[string]string{
				"error": "Payment verified but failed to save order",
			})
		case isOrderValidationErr(err):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// PaymentFailure dispatches a best-effort failure notice. Its own send
// failure is surfaced here and nowhere else.
func (h *PaymentHandler) PaymentFailure(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PaymentFailureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request payload",
		})
	}

	if req.UserEmail == "" || req.ErrorMessage == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "userEmail and errorMessage are required",
		})
	}

	if err := h.notifier.PaymentFailed(ctx, req.UserEmail, req.UserName, req.ErrorMessage, req.OrderData); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func isOrderValidationErr(err error) bool {
	for _, target := range []error{
		service.ErrNoItems,
		service.ErrInvalidQuantity,
		service.ErrNegativeAmount,
		service.ErrTotalMismatch,
		service.ErrSubtotalMismatch,
		service.ErrPriceMismatch,
		service.ErrUnknownProduct,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
