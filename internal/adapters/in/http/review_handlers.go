package http

import (
	"errors"
	"net/http"

	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	msgConfirmed        = "Order confirmed successfully"
	msgCancelled        = "Order cancelled successfully"
	msgAlreadyConfirmed = "Order already confirmed"
	msgAlreadyCancelled = "Order already cancelled"
	msgCannotConfirm    = "Order cannot be confirmed in current status"
	msgCannotCancel     = "Cannot cancel order in current status"
)

var (
	errNotAuthorized = &requestError{status: http.StatusUnauthorized, message: "Not authorized, no token"}
	errOrderNotFound = &requestError{status: http.StatusNotFound, message: msgOrderNotFound}

	confirmMessages = messages{
		notFound:   msgOrderNotFound,
		invalid:    "Invalid request",
		transition: msgCannotConfirm,
		processed:  msgAlreadyConfirmed,
		internal:   msgInternal,
	}
	cancelMessages = messages{
		notFound:   msgOrderNotFound,
		invalid:    "Invalid request",
		transition: msgCannotCancel,
		processed:  msgAlreadyCancelled,
		internal:   msgInternal,
	}
)

// ConfirmOrder handles POST /order-review/:id/confirm for the signed-in owner.
func (s *Server) ConfirmOrder(c echo.Context) error {
	orderID, actor, err := sessionActor(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	return s.confirm(c, orderID, actor)
}

// CancelOrder handles POST /order-review/:id/cancel-request for the signed-in owner.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, actor, err := sessionActor(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	return s.cancel(c, orderID, actor)
}

// ConfirmByToken handles the emailed confirm link. No session is needed.
func (s *Server) ConfirmByToken(c echo.Context) error {
	orderID, actor, err := tokenActor(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	return s.confirm(c, orderID, actor)
}

// CancelByToken handles the emailed cancel link. No session is needed.
func (s *Server) CancelByToken(c echo.Context) error {
	orderID, actor, err := tokenActor(c)
	if err != nil {
		return writeRequestError(c, err)
	}
	return s.cancel(c, orderID, actor)
}

func sessionActor(c echo.Context) (kernel.UUID, order.Actor, error) {
	session, err := sessionFrom(c)
	if err != nil {
		return kernel.UUID{}, order.Actor{}, errNotAuthorized
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return kernel.UUID{}, order.Actor{}, errOrderNotFound
	}
	return orderID, order.SessionActor(session.UserID), nil
}

// tokenActor reports a malformed order id or token as not found, like a wrong token.
func tokenActor(c echo.Context) (kernel.UUID, order.Actor, error) {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return kernel.UUID{}, order.Actor{}, errOrderNotFound
	}
	token, err := pathString(c, "token")
	if err != nil {
		return kernel.UUID{}, order.Actor{}, errOrderNotFound
	}
	return orderID, order.TokenActor(token), nil
}

func (s *Server) confirm(c echo.Context, orderID kernel.UUID, actor order.Actor) error {
	cmd, err := commands.NewConfirmOrderCommand(orderID, actor)
	if err != nil {
		return failWithDetail(c, http.StatusBadRequest, confirmMessages.invalid, err)
	}

	o, err := s.handlers.ConfirmOrder.Handle(c.Request().Context(), cmd)
	return s.respondTransition(c, o, err, msgConfirmed, confirmMessages)
}

func (s *Server) cancel(c echo.Context, orderID kernel.UUID, actor order.Actor) error {
	var body reasonBody
	if err := c.Bind(&body); err != nil {
		return failWithDetail(c, http.StatusBadRequest, "Invalid request body", err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor, body.Reason)
	if err != nil {
		return failWithDetail(c, http.StatusBadRequest, cancelMessages.invalid, err)
	}

	o, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	return s.respondTransition(c, o, err, msgCancelled, cancelMessages)
}

// respondTransition answers a confirm or cancel. Repeating a finished action
// is a success that reports the current order.
func (s *Server) respondTransition(c echo.Context, o *order.Order, err error, success string, m messages) error {
	switch {
	case err == nil:
		return ok(c, http.StatusOK, success, newOrderResponse(o))
	case errors.Is(err, errs.ErrAlreadyProcessed):
		if o == nil {
			return c.JSON(http.StatusOK, Envelope{Success: true, Message: m.processed})
		}
		return ok(c, http.StatusOK, m.processed, newOrderResponse(o))
	default:
		return s.respondError(c, err, m)
	}
}
