package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "orderreview/internal/adapters/in/http"
	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/application/usecases/queries"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type MockHandler[Req any, Resp any] struct {
	mock.Mock
}

func (m *MockHandler[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	args := m.Called(ctx, req)
	var zero Resp
	if args.Get(0) == nil {
		return zero, args.Error(1)
	}
	return args.Get(0).(Resp), args.Error(1)
}

type fixture struct {
	e    *echo.Echo
	auth *httpadapter.Authenticator

	submit        *MockHandler[commands.SubmitShippingCommand, *order.Order]
	setCharge     *MockHandler[commands.SetShippingChargeCommand, *order.Order]
	confirm       *MockHandler[commands.ConfirmOrderCommand, *order.Order]
	cancel        *MockHandler[commands.CancelOrderCommand, *order.Order]
	markRead      *MockHandler[commands.MarkNotificationReadCommand, *notification.Notification]
	byStatus      *MockHandler[queries.GetOrdersByStatusQuery, []queries.OrderView]
	getOrder      *MockHandler[queries.GetOrderQuery, *queries.OrderView]
	notifications *MockHandler[queries.GetNotificationsQuery, []queries.NotificationView]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	auth, err := httpadapter.NewAuthenticator(testSecret)
	require.NoError(t, err)

	f := &fixture{
		e:             echo.New(),
		auth:          auth,
		submit:        new(MockHandler[commands.SubmitShippingCommand, *order.Order]),
		setCharge:     new(MockHandler[commands.SetShippingChargeCommand, *order.Order]),
		confirm:       new(MockHandler[commands.ConfirmOrderCommand, *order.Order]),
		cancel:        new(MockHandler[commands.CancelOrderCommand, *order.Order]),
		markRead:      new(MockHandler[commands.MarkNotificationReadCommand, *notification.Notification]),
		byStatus:      new(MockHandler[queries.GetOrdersByStatusQuery, []queries.OrderView]),
		getOrder:      new(MockHandler[queries.GetOrderQuery, *queries.OrderView]),
		notifications: new(MockHandler[queries.GetNotificationsQuery, []queries.NotificationView]),
	}

	server := httpadapter.NewServer(httpadapter.Handlers{
		SubmitShipping:       f.submit,
		SetShippingCharge:    f.setCharge,
		ConfirmOrder:         f.confirm,
		CancelOrder:          f.cancel,
		MarkNotificationRead: f.markRead,
		OrdersByStatus:       f.byStatus,
		GetOrder:             f.getOrder,
		Notifications:        f.notifications,
	}, auth, "India", zap.NewNop())
	f.e.Use(httpadapter.Middleware(zap.NewNop(), 5*time.Second)...)
	server.Register(f.e)

	return f
}

func (f *fixture) token(t *testing.T, userID kernel.UUID, role string) string {
	t.Helper()
	token, err := f.auth.Issue(userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, httpadapter.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	var env httpadapter.Envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func testOrder(t *testing.T, customer order.Customer) *order.Order {
	t.Helper()
	address, err := order.NewShippingAddress(order.AddressFields{
		FullName:     "Asha Rao",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "KA",
		PostalCode:   "560001",
		Phone:        "9000000000",
	}, "India")
	require.NoError(t, err)
	price, err := kernel.MoneyFromString("500")
	require.NoError(t, err)
	item, err := order.NewItem("Brass Lamp", 2, price, "sku-1")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), customer, []order.Item{item}, nil, address, time.Now())
	require.NoError(t, err)
	return o
}

func pricedOrder(t *testing.T, customer order.Customer) *order.Order {
	t.Helper()
	o := testOrder(t, customer)
	charge, err := kernel.MoneyFromString("500")
	require.NoError(t, err)
	token, err := order.NewConfirmationToken(strings.Repeat("ab", 20))
	require.NoError(t, err)
	require.NoError(t, o.SetShippingCharge(charge, "", nil, token, time.Now()))
	return o
}

const submitBody = `{
	"items": [{"name": "Brass Lamp", "quantity": 2, "price": 500, "productId": "sku-1"}],
	"shippingAddress": {
		"fullName": "Asha Rao", "addressLine1": "12 MG Road", "city": "Bengaluru",
		"state": "KA", "postalCode": "560001", "phone": "9000000000"
	}
}`

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSubmitShipping(t *testing.T) {
	f := newFixture(t)
	userID := kernel.NewUUID()

	var got commands.SubmitShippingCommand
	f.submit.On("Handle", mock.Anything, mock.AnythingOfType("commands.SubmitShippingCommand")).
		Run(func(args mock.Arguments) { got = args.Get(1).(commands.SubmitShippingCommand) }).
		Return(testOrder(t, order.RegisteredCustomer(userID)), nil).Once()

	rec, env := f.do(t, http.MethodPost, "/orders", submitBody, f.token(t, userID, "user"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Shipping address submitted successfully. Waiting for admin to add shipping charges.", env.Message)
	assert.Contains(t, rec.Body.String(), `"status":"pending_admin_review"`)
	assert.NotContains(t, rec.Body.String(), "confirmationToken")
	require.NoError(t, got.Validate())
	assert.Len(t, got.Items(), 1)
	assert.Equal(t, "India", got.Address().Fields().Country)
	f.submit.AssertExpectations(t)
}

func TestSubmitShipping_RequiresSession(t *testing.T) {
	f := newFixture(t)

	rec, env := f.do(t, http.MethodPost, "/orders", submitBody, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = f.do(t, http.MethodPost, "/orders", submitBody, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.submit.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSubmitShipping_InvalidInput(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, kernel.NewUUID(), "user")

	cases := map[string]string{
		"no items":       `{"items": [], "shippingAddress": {"fullName": "A"}}`,
		"no address":     `{"items": [{"name": "Lamp", "quantity": 1, "price": 5}]}`,
		"missing city":   strings.Replace(submitBody, `"city": "Bengaluru",`, "", 1),
		"bad price":      strings.Replace(submitBody, `"price": 500`, `"price": "cheap"`, 1),
		"zero quantity":  strings.Replace(submitBody, `"quantity": 2`, `"quantity": 0`, 1),
		"negative total": strings.Replace(submitBody, `"items"`, `"totalAmount": -5, "items"`, 1),
		"malformed json": `{"items": [`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, env := f.do(t, http.MethodPost, "/orders", body, token)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}
	f.submit.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSubmitGuestShipping(t *testing.T) {
	f := newFixture(t)

	t.Run("requires customer email", func(t *testing.T) {
		rec, _ := f.do(t, http.MethodPost, "/guest-orders", submitBody, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("accepted with email", func(t *testing.T) {
		f.submit.On("Handle", mock.Anything, mock.AnythingOfType("commands.SubmitShippingCommand")).
			Return(testOrder(t, order.GuestCustomer("guest@example.com")), nil).Once()
		body := strings.Replace(submitBody, `"items"`, `"customerEmail": "guest@example.com", "items"`, 1)

		rec, env := f.do(t, http.MethodPost, "/guest-orders", body, "")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, env.Success)
	})
}

func TestSubmitGuestShipping_RejectsUnstorableInput(t *testing.T) {
	f := newFixture(t)
	guest := strings.Replace(submitBody, `"items"`, `"customerEmail": "guest@example.com", "items"`, 1)

	cases := map[string]string{
		"tiny exponent":        strings.Replace(guest, `"price": 500`, `"price": "1e-9999999"`, 1),
		"huge exponent":        strings.Replace(guest, `"price": 500`, `"price": 1e1000000`, 1),
		"million digits":       strings.Replace(guest, `"price": 500`, `"price": `+strings.Repeat("9", 1_000_000), 1),
		"above column maximum": strings.Replace(guest, `"price": 500`, `"price": "1000000000000"`, 1),
		"subtotal overflow":    strings.Replace(guest, `"price": 500`, `"price": "999999999999.99"`, 1),
		"over-long city":       strings.Replace(guest, `"Bengaluru"`, `"`+strings.Repeat("B", 129)+`"`, 1),
		"over-long item name":  strings.Replace(guest, `"Brass Lamp"`, `"`+strings.Repeat("L", 256)+`"`, 1),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			start := time.Now()

			rec, env := f.do(t, http.MethodPost, "/guest-orders", body, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.Less(t, time.Since(start), time.Second)
		})
	}
	f.submit.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := newFixture(t)
	customer := f.token(t, kernel.NewUUID(), "user")

	for _, path := range []string{"/orders/pending-review", "/orders/awaiting-confirmation"} {
		rec, env := f.do(t, http.MethodGet, path, "", customer)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.False(t, env.Success)

		rec, _ = f.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec, _ := f.do(t, http.MethodPut, "/orders/"+kernel.NewUUID().String()+"/shipping-price",
		`{"shippingCharges": 500}`, customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetPendingReviewOrders(t *testing.T) {
	f := newFixture(t)
	o := testOrder(t, order.GuestCustomer("guest@example.com"))
	view := queries.OrderView{
		ID:            o.ID(),
		CustomerEmail: "guest@example.com",
		Subtotal:      o.Subtotal(),
		Status:        order.PendingAdminReview,
	}
	f.byStatus.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrdersByStatusQuery) bool {
		return q.Status() == order.PendingAdminReview
	})).Return([]queries.OrderView{view}, nil).Once()

	rec, env := f.do(t, http.MethodGet, "/orders/pending-review", "", f.token(t, kernel.NewUUID(), "admin"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	assert.Contains(t, rec.Body.String(), o.ID().String())
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	userID := kernel.NewUUID()
	o := testOrder(t, order.RegisteredCustomer(userID))

	f.getOrder.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID().IsEqual(o.ID()) && q.Viewer().UserID.IsEqual(userID) && !q.Viewer().IsAdmin
	})).Return(&queries.OrderView{ID: o.ID(), Subtotal: o.Subtotal(), Status: o.Status()}, nil).Once()
	f.getOrder.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("order", "x")).Once()

	rec, env := f.do(t, http.MethodGet, "/orders/"+o.ID().String(), "", f.token(t, userID, "user"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = f.do(t, http.MethodGet, "/orders/"+o.ID().String(), "", f.token(t, kernel.NewUUID(), "user"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", env.Message)

	rec, _ = f.do(t, http.MethodGet, "/orders/not-a-uuid", "", f.token(t, userID, "user"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetShippingPrice(t *testing.T) {
	admin := kernel.NewUUID()

	t.Run("numeric string accepted", func(t *testing.T) {
		f := newFixture(t)
		o := pricedOrder(t, order.GuestCustomer("guest@example.com"))
		var got commands.SetShippingChargeCommand
		f.setCharge.On("Handle", mock.Anything, mock.AnythingOfType("commands.SetShippingChargeCommand")).
			Run(func(args mock.Arguments) { got = args.Get(1).(commands.SetShippingChargeCommand) }).
			Return(o, nil).Once()

		rec, env := f.do(t, http.MethodPut, "/orders/"+o.ID().String()+"/shipping-price",
			`{"shippingCharges": "500", "adminNotes": "fragile"}`, f.token(t, admin, "admin"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Shipping charges added successfully", env.Message)
		assert.JSONEq(t,
			`{"orderId":"`+o.ID().String()+`","shippingCharges":500,"finalPrice":1500}`,
			string(mustMarshal(t, env.Data)))
		assert.Equal(t, "500.00", got.Charge().String())
		assert.Equal(t, "fragile", got.Notes())
	})

	rejections := []struct {
		name    string
		body    string
		message string
	}{
		{"missing", `{"adminNotes": "x"}`, "Shipping charges are required"},
		{"blank", `{"shippingCharges": ""}`, "Shipping charges are required"},
		{"not a number", `{"shippingCharges": "abc"}`, "Shipping charges must be a valid number"},
		{"boolean", `{"shippingCharges": true}`, "Shipping charges must be a valid number"},
		{"negative", `{"shippingCharges": -1}`, "Shipping charges must be a valid number"},
		{"above column maximum", `{"shippingCharges": 1e12}`, "Shipping charges must be a valid number"},
		{"extreme exponent", `{"shippingCharges": "5e-9999999"}`, "Shipping charges must be a valid number"},
	}
	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			rec, env := f.do(t, http.MethodPut, "/orders/"+kernel.NewUUID().String()+"/shipping-price",
				tc.body, f.token(t, admin, "admin"))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, env.Message)
			f.setCharge.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}

	handlerErrors := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound},
		{"wrong status", errs.NewTransitionIsInvalidError("add shipping charges to order", "confirmed"), http.StatusBadRequest},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range handlerErrors {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.setCharge.On("Handle", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec, env := f.do(t, http.MethodPut, "/orders/"+kernel.NewUUID().String()+"/shipping-price",
				`{"shippingCharges": 500}`, f.token(t, admin, "admin"))

			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, env.Success)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestConfirmByToken(t *testing.T) {
	token := strings.Repeat("ab", 20)

	t.Run("confirms", func(t *testing.T) {
		f := newFixture(t)
		o := pricedOrder(t, order.GuestCustomer("guest@example.com"))
		require.NoError(t, o.Confirm(order.TokenActor(token), time.Now()))
		f.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmOrderCommand) bool {
			return cmd.OrderID().IsEqual(o.ID()) && cmd.Actor().IsToken()
		})).Return(o, nil).Once()

		rec, env := f.do(t, http.MethodGet, "/order-review/customer-confirm/"+o.ID().String()+"/"+token, "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Order confirmed successfully", env.Message)
		assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
		f.confirm.AssertExpectations(t)
	})

	t.Run("replay is already processed", func(t *testing.T) {
		f := newFixture(t)
		o := pricedOrder(t, order.GuestCustomer("guest@example.com"))
		f.confirm.On("Handle", mock.Anything, mock.Anything).
			Return(o, errs.NewAlreadyProcessedError("order", "confirmed")).Once()

		rec, env := f.do(t, http.MethodPost, "/order-review/customer-confirm/"+o.ID().String()+"/"+token, "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "Order already confirmed", env.Message)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t)
		f.confirm.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewObjectNotFoundError("order", "x")).Once()

		rec, env := f.do(t, http.MethodGet, "/order-review/customer-confirm/"+kernel.NewUUID().String()+"/nope", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Order not found", env.Message)
	})

	t.Run("malformed order id", func(t *testing.T) {
		f := newFixture(t)

		rec, env := f.do(t, http.MethodGet, "/order-review/customer-confirm/123/"+token, "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Order not found", env.Message)
		f.confirm.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestCancelByToken_ReadsReason(t *testing.T) {
	f := newFixture(t)
	o := pricedOrder(t, order.GuestCustomer("guest@example.com"))
	var got commands.CancelOrderCommand
	f.cancel.On("Handle", mock.Anything, mock.AnythingOfType("commands.CancelOrderCommand")).
		Run(func(args mock.Arguments) { got = args.Get(1).(commands.CancelOrderCommand) }).
		Return(o, nil).Twice()

	rec, env := f.do(t, http.MethodGet,
		"/order-review/customer-cancel/"+o.ID().String()+"/"+strings.Repeat("ab", 20)+"?reason=too+slow", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order cancelled successfully", env.Message)
	assert.Equal(t, "too slow", got.Reason())

	rec, _ = f.do(t, http.MethodPost,
		"/order-review/customer-cancel/"+o.ID().String()+"/"+strings.Repeat("ab", 20), `{"reason": "changed mind"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "changed mind", got.Reason())
}

func TestSessionConfirmAndCancel(t *testing.T) {
	f := newFixture(t)
	userID := kernel.NewUUID()
	o := pricedOrder(t, order.RegisteredCustomer(userID))
	token := f.token(t, userID, "user")

	f.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmOrderCommand) bool {
		return cmd.Actor().IsSession()
	})).Return(nil, errs.NewTransitionIsInvalidError("confirm order", "cancelled")).Once()
	f.cancel.On("Handle", mock.Anything, mock.Anything).
		Return(o, errs.NewAlreadyProcessedError("order", "cancelled")).Once()

	rec, env := f.do(t, http.MethodPost, "/order-review/"+o.ID().String()+"/confirm", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order cannot be confirmed in current status", env.Message)

	rec, env = f.do(t, http.MethodPost, "/order-review/"+o.ID().String()+"/cancel-request", `{"reason": "x"}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order already cancelled", env.Message)

	rec, _ = f.do(t, http.MethodPost, "/order-review/"+o.ID().String()+"/confirm", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	userID := kernel.NewUUID()
	token := f.token(t, userID, "admin")
	view := queries.NotificationView{
		ID:        kernel.NewUUID(),
		Broadcast: true,
		Type:      notification.TypeOrder,
		Title:     "New Order Received",
		Message:   "A new order has been received.",
		CreatedAt: time.Now(),
	}
	f.notifications.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetNotificationsQuery) bool {
		return q.Reader().UserID.IsEqual(userID) && q.Reader().IsAdmin
	})).Return([]queries.NotificationView{view}, nil).Once()

	rec, env := f.do(t, http.MethodGet, "/notifications", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
	assert.Contains(t, rec.Body.String(), "New Order Received")

	f.markRead.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("notification", "x")).Once()
	rec, env = f.do(t, http.MethodPut, "/notifications/"+kernel.NewUUID().String()+"/read", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found", env.Message)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
