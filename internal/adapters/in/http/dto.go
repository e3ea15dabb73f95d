package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderreview/internal/core/application/usecases/queries"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"
)

type addressBody struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

func (a addressBody) fields() order.AddressFields {
	return order.AddressFields{
		FullName:     a.FullName,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}

func newAddressBody(f order.AddressFields) addressBody {
	return addressBody{
		FullName:     f.FullName,
		AddressLine1: f.AddressLine1,
		AddressLine2: f.AddressLine2,
		City:         f.City,
		State:        f.State,
		PostalCode:   f.PostalCode,
		Country:      f.Country,
		Phone:        f.Phone,
	}
}

type itemBody struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     json.RawMessage `json:"price"`
	ProductID string          `json:"productId,omitempty"`
}

// submitShippingBody is the checkout payload. totalAmount is optional; when
// absent the subtotal is the sum of the items.
type submitShippingBody struct {
	Items           []itemBody      `json:"items"`
	ShippingAddress *addressBody    `json:"shippingAddress"`
	TotalAmount     json.RawMessage `json:"totalAmount"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
}

func (b submitShippingBody) items() ([]order.Item, error) {
	if len(b.Items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	items := make([]order.Item, 0, len(b.Items))
	var problems []error
	for i, raw := range b.Items {
		price, err := moneyFromRaw("price", raw.Price)
		if err != nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if price == nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, errs.NewValueIsRequiredError("price")))
			continue
		}
		item, err := order.NewItem(raw.Name, raw.Quantity, *price, raw.ProductID)
		if err != nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return items, nil
}

type setShippingBody struct {
	ShippingCharges json.RawMessage `json:"shippingCharges"`
	AdminNotes      string          `json:"adminNotes"`
	FinalPrice      json.RawMessage `json:"finalPrice"`
}

type reasonBody struct {
	Reason string `json:"reason" query:"reason" form:"reason"`
}

type customerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type itemResponse struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ProductID string  `json:"productId,omitempty"`
}

// orderResponse is the order as clients see it. The confirmation token is
// never serialized.
type orderResponse struct {
	ID              string            `json:"id"`
	CustomerID      *string           `json:"customerId,omitempty"`
	CustomerEmail   string            `json:"customerEmail,omitempty"`
	Customer        *customerResponse `json:"customer,omitempty"`
	Items           []itemResponse    `json:"items"`
	Subtotal        float64           `json:"subtotal"`
	ShippingAddress addressBody       `json:"shippingAddress"`
	ShippingCharges *float64          `json:"shippingCharges"`
	FinalPrice      *float64          `json:"finalPrice"`
	AdminNotes      string            `json:"adminNotes,omitempty"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func optionalAmount(m *kernel.Money) *float64 {
	if m == nil {
		return nil
	}
	f := m.Float64()
	return &f
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newOrderResponse(o *order.Order) orderResponse {
	items := make([]itemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemResponse{
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			Price:     item.UnitPrice().Float64(),
			ProductID: item.ProductID(),
		})
	}

	return orderResponse{
		ID:              o.ID().String(),
		CustomerID:      optionalID(o.CustomerID()),
		CustomerEmail:   o.CustomerEmail(),
		Items:           items,
		Subtotal:        o.Subtotal().Float64(),
		ShippingAddress: newAddressBody(o.ShippingAddress().Fields()),
		ShippingCharges: optionalAmount(o.ShippingCharge()),
		FinalPrice:      optionalAmount(o.FinalPrice()),
		AdminNotes:      o.AdminNotes(),
		Status:          o.Status().String(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func newOrderViewResponse(v queries.OrderView) orderResponse {
	items := make([]itemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, itemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice.Float64(),
			ProductID: item.ProductID,
		})
	}

	resp := orderResponse{
		ID:              v.ID.String(),
		CustomerID:      optionalID(v.CustomerID),
		CustomerEmail:   v.CustomerEmail,
		Items:           items,
		Subtotal:        v.Subtotal.Float64(),
		ShippingAddress: newAddressBody(v.ShippingAddress),
		ShippingCharges: optionalAmount(v.ShippingCharge),
		FinalPrice:      optionalAmount(v.FinalPrice),
		AdminNotes:      v.AdminNotes,
		Status:          v.Status.String(),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if v.Customer != nil {
		resp.Customer = &customerResponse{Name: v.Customer.Name, Email: v.Customer.Email, Phone: v.Customer.Phone}
	}
	return resp
}

type shippingPriceResponse struct {
	OrderID         string   `json:"orderId"`
	ShippingCharges *float64 `json:"shippingCharges"`
	FinalPrice      *float64 `json:"finalPrice"`
}

type notificationResponse struct {
	ID          string     `json:"id"`
	Broadcast   bool       `json:"broadcast"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ReferenceID *string    `json:"referenceId,omitempty"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newNotificationResponse(v queries.NotificationView) notificationResponse {
	return notificationResponse{
		ID:          v.ID.String(),
		Broadcast:   v.Broadcast,
		Type:        string(v.Type),
		Title:       v.Title,
		Message:     v.Message,
		ReferenceID: optionalID(v.ReferenceID),
		Read:        v.Read,
		ReadAt:      v.ReadAt,
		CreatedAt:   v.CreatedAt,
	}
}
