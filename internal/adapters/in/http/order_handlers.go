package http

import (
	"errors"
	"net/http"

	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/application/usecases/queries"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	msgOrderNotFound    = "Order not found"
	msgInvalidOrder     = "Shipping address and items are required"
	msgSubmitted        = "Shipping address submitted successfully. Waiting for admin to add shipping charges."
	msgChargesRequired  = "Shipping charges are required"
	msgChargesInvalid   = "Shipping charges must be a valid number"
	msgChargesAdded     = "Shipping charges added successfully"
	msgNotPendingReview = "Shipping charges can only be added to orders pending admin review"
	msgInternal         = "Server error"
)

// SubmitShipping handles POST /orders for the signed-in customer.
func (s *Server) SubmitShipping(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Not authorized, no token")
	}
	return s.submit(c, func(submitShippingBody) order.Customer {
		return order.RegisteredCustomer(session.UserID)
	})
}

// SubmitGuestShipping handles POST /guest-orders. The customer is known only by email.
func (s *Server) SubmitGuestShipping(c echo.Context) error {
	return s.submit(c, func(body submitShippingBody) order.Customer {
		return order.GuestCustomer(body.CustomerEmail)
	})
}

func (s *Server) submit(c echo.Context, customerOf func(submitShippingBody) order.Customer) error {
	var body submitShippingBody
	if err := c.Bind(&body); err != nil {
		return failWithDetail(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if body.ShippingAddress == nil || len(body.Items) == 0 {
		return fail(c, http.StatusBadRequest, msgInvalidOrder)
	}

	items, errItems := body.items()
	subtotal, errSubtotal := moneyFromRaw("totalAmount", body.TotalAmount)
	address, errAddress := order.NewShippingAddress(body.ShippingAddress.fields(), s.homeCountry)
	if err := errors.Join(errItems, errSubtotal, errAddress); err != nil {
		return failWithDetail(c, http.StatusBadRequest, msgInvalidOrder, err)
	}

	cmd, err := commands.NewSubmitShippingCommand(kernel.NewUUID(), customerOf(body), items, subtotal, address)
	if err != nil {
		return failWithDetail(c, http.StatusBadRequest, msgInvalidOrder, err)
	}

	o, err := s.handlers.SubmitShipping.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err, messages{
			notFound: msgOrderNotFound,
			invalid:  msgInvalidOrder,
			internal: msgInternal,
		})
	}

	return ok(c, http.StatusCreated, msgSubmitted, newOrderResponse(o))
}

// GetOrder handles GET /orders/:id for the owner or an admin.
func (s *Server) GetOrder(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Not authorized, no token")
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, msgOrderNotFound)
	}

	query, err := queries.NewGetOrderQuery(orderID, queries.Viewer{UserID: session.UserID, IsAdmin: session.IsAdmin()})
	if err != nil {
		return failWithDetail(c, http.StatusBadRequest, "Invalid request", err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err, messages{notFound: msgOrderNotFound, internal: msgInternal})
	}

	return ok(c, http.StatusOK, "Order retrieved successfully", newOrderViewResponse(*view))
}

// SetShippingPrice handles PUT /orders/:id/shipping-price for admins.
func (s *Server) SetShippingPrice(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, http.StatusNotFound, msgOrderNotFound)
	}

	var body setShippingBody
	if err = c.Bind(&body); err != nil {
		return failWithDetail(c, http.StatusBadRequest, "Invalid request body", err)
	}

	cmd, err := commands.NewSetShippingChargeCommand(
		orderID,
		rawAmount(body.ShippingCharges),
		body.AdminNotes,
		rawAmount(body.FinalPrice),
	)
	if err != nil {
		if errors.Is(err, errs.ErrValueIsRequired) {
			return fail(c, http.StatusBadRequest, msgChargesRequired)
		}
		return failWithDetail(c, http.StatusBadRequest, msgChargesInvalid, err)
	}

	o, err := s.handlers.SetShippingCharge.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err, messages{
			notFound:   msgOrderNotFound,
			invalid:    msgChargesInvalid,
			transition: msgNotPendingReview,
			internal:   msgInternal,
		})
	}

	return ok(c, http.StatusOK, msgChargesAdded, shippingPriceResponse{
		OrderID:         o.ID().String(),
		ShippingCharges: optionalAmount(o.ShippingCharge()),
		FinalPrice:      optionalAmount(o.FinalPrice()),
	})
}

// GetPendingReviewOrders handles GET /orders/pending-review.
func (s *Server) GetPendingReviewOrders(c echo.Context) error {
	return s.ordersByStatus(c, order.PendingAdminReview)
}

// GetAwaitingConfirmationOrders handles GET /orders/awaiting-confirmation.
func (s *Server) GetAwaitingConfirmationOrders(c echo.Context) error {
	return s.ordersByStatus(c, order.AwaitingConfirmation)
}

func (s *Server) ordersByStatus(c echo.Context, status order.Status) error {
	query, err := queries.NewGetOrdersByStatusQuery(status)
	if err != nil {
		return s.respondError(c, err, messages{internal: msgInternal})
	}

	views, err := s.handlers.OrdersByStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err, messages{internal: "Failed to retrieve orders"})
	}

	resp := make([]orderResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, newOrderViewResponse(v))
	}

	return okList(c, "Orders retrieved successfully", resp)
}
