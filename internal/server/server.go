package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"omshree-backend/internal/handler"
	"omshree-backend/internal/middleware"
	"omshree-backend/internal/service"
)

type Server struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
	userHandler    *handler.UserHandler
	addressHandler *handler.AddressHandler
	productHandler *handler.ProductHandler
	orderHandler   *handler.OrderHandler
	userService    service.UserService
}

func NewServer(
	log *slog.Logger,
	paymentHandler *handler.PaymentHandler,
	userHandler *handler.UserHandler,
	addressHandler *handler.AddressHandler,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	userService service.UserService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"error", v.Error,
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		paymentHandler: paymentHandler,
		userHandler:    userHandler,
		addressHandler: addressHandler,
		productHandler: productHandler,
		orderHandler:   orderHandler,
		userService:    userService,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.POST("/user/register", s.userHandler.Register)
	api.POST("/user/login", s.userHandler.Login)

	api.GET("/products", s.productHandler.List)
	api.GET("/products/:id", s.productHandler.Get)

	// -------- payment gateway callbacks --------
	payment := api.Group("/payment")
	payment.POST("/verify", s.paymentHandler.VerifyPayment)
	payment.POST("/failure", s.paymentHandler.PaymentFailure)

	// -------- account --------
	account := api.Group("/user", middleware.JWT(s.userService))
	account.GET("/addresses", s.addressHandler.List)
	account.POST("/addresses", s.addressHandler.Create)
	account.GET("/orders", s.orderHandler.List)
	account.GET("/orders/:number", s.orderHandler.Get)

	// -------- admin --------
	admin := api.Group("/admin", middleware.JWT(s.userService), middleware.RequireAdmin())
	admin.PATCH("/orders/:number/status", s.orderHandler.UpdateStatus)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
