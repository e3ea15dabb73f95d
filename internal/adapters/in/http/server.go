package http

import (
	"context"
	"net/http"

	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/application/usecases/queries"
	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler is a command or query handler as the transport sees it.
type Handler[Req any, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// Handlers are the use cases behind the routes.
type Handlers struct {
	SubmitShipping       Handler[commands.SubmitShippingCommand, *order.Order]
	SetShippingCharge    Handler[commands.SetShippingChargeCommand, *order.Order]
	ConfirmOrder         Handler[commands.ConfirmOrderCommand, *order.Order]
	CancelOrder          Handler[commands.CancelOrderCommand, *order.Order]
	MarkNotificationRead Handler[commands.MarkNotificationReadCommand, *notification.Notification]

	OrdersByStatus Handler[queries.GetOrdersByStatusQuery, []queries.OrderView]
	GetOrder       Handler[queries.GetOrderQuery, *queries.OrderView]
	Notifications  Handler[queries.GetNotificationsQuery, []queries.NotificationView]
}

// Server serves the order review API.
type Server struct {
	handlers    Handlers
	auth        *Authenticator
	homeCountry string
	log         *zap.Logger
}

func NewServer(handlers Handlers, auth *Authenticator, homeCountry string, log *zap.Logger) *Server {
	return &Server{
		handlers:    handlers,
		auth:        auth,
		homeCountry: homeCountry,
		log:         log.With(zap.String("component", "http_server")),
	}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	session := s.auth.RequireSession

	e.POST("/orders", s.SubmitShipping, session)
	e.POST("/guest-orders", s.SubmitGuestShipping)
	e.GET("/orders/pending-review", s.GetPendingReviewOrders, session, RequireAdmin)
	e.GET("/orders/awaiting-confirmation", s.GetAwaitingConfirmationOrders, session, RequireAdmin)
	e.GET("/orders/:id", s.GetOrder, session)
	e.PUT("/orders/:id/shipping-price", s.SetShippingPrice, session, RequireAdmin)

	review := e.Group("/order-review")
	review.POST("/:id/confirm", s.ConfirmOrder, session)
	review.POST("/:id/cancel-request", s.CancelOrder, session)
	review.Match([]string{http.MethodGet, http.MethodPost}, "/customer-confirm/:orderId/:token", s.ConfirmByToken)
	review.Match([]string{http.MethodGet, http.MethodPost}, "/customer-cancel/:orderId/:token", s.CancelByToken)

	e.GET("/notifications", s.GetNotifications, session)
	e.PUT("/notifications/:id/read", s.MarkNotificationRead, session)
}
