package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"omshree-backend/internal/dto"
	"omshree-backend/internal/model"
	"omshree-backend/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "email and a password of at least 8 characters are required")
	}

	user, token, err := h.userService.Register(ctx, req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return err
	}

	return c.JSON(http.StatusCreated, authResponse(user, token))
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, token, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return err
	}

	return c.JSON(http.StatusOK, authResponse(user, token))
}

func authResponse(user *model.User, token string) *dto.AuthResponse {
	return &dto.AuthResponse{
		Token: token,
		User: dto.User{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}
}
