package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/middleware"
	"omshree-backend/internal/service"
)

type AddressHandler struct {
	addressService service.AddressService
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

func (h *AddressHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	var req dto.CreateAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Name == "" || req.Line1 == "" || req.City == "" || req.Country == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, line1, city and country are required")
	}

	address, err := h.addressService.Create(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAddressType) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	addresses, err := h.addressService.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, addresses)
}
