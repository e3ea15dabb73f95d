// Package orderrepo persists the order aggregate in two tables: orders holds
// the status machine, pricing and token columns; order_items holds the basket
// lines in their submitted order.
package orderrepo

import (
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Created and updated times come from the
// aggregate, never from GORM.
type OrderDTO struct {
	ID                  uuid.UUID           `gorm:"type:uuid;primaryKey"`
	CustomerID          *uuid.UUID          `gorm:"type:uuid;index"`
	CustomerEmail       string              `gorm:"type:varchar(320)"`
	Items               []OrderItemDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal            decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	ShippingAddress     AddressDTO          `gorm:"embedded;embeddedPrefix:shipping_"`
	ShippingCharge      decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	FinalPrice          decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	AdminNotes          string              `gorm:"type:text;not null;default:''"`
	Status              int                 `gorm:"type:smallint;not null;index:idx_orders_status_created,priority:1"`
	ConfirmationToken   *string             `gorm:"type:varchar(64)"`
	ConsumedTokenDigest string              `gorm:"type:varchar(64);not null;default:''"`
	CreatedAt           time.Time           `gorm:"not null;autoCreateTime:false;index:idx_orders_status_created,priority:2"`
	UpdatedAt           time.Time           `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is embedded into orders with the shipping_ prefix.
type AddressDTO struct {
	FullName     string `gorm:"type:varchar(255);not null"`
	AddressLine1 string `gorm:"type:varchar(255);not null"`
	AddressLine2 string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(128);not null"`
	State        string `gorm:"type:varchar(128);not null"`
	PostalCode   string `gorm:"type:varchar(32);not null"`
	Country      string `gorm:"type:varchar(128);not null"`
	Phone        string `gorm:"type:varchar(32);not null"`
}

// OrderItemDTO is one basket line. Position keeps the submitted order.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey;autoIncrement:false"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ProductID string          `gorm:"type:varchar(64)"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	var customerID *uuid.UUID
	if id := o.CustomerID(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   o.ID().Bytes(),
			Position:  i,
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Amount(),
			ProductID: item.ProductID(),
		})
	}

	address := o.ShippingAddress().Fields()

	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    customerID,
		CustomerEmail: o.CustomerEmail(),
		Items:         items,
		Subtotal:      o.Subtotal().Amount(),
		ShippingAddress: AddressDTO{
			FullName:     address.FullName,
			AddressLine1: address.AddressLine1,
			AddressLine2: address.AddressLine2,
			City:         address.City,
			State:        address.State,
			PostalCode:   address.PostalCode,
			Country:      address.Country,
			Phone:        address.Phone,
		},
		ShippingCharge:      nullDecimal(o.ShippingCharge()),
		FinalPrice:          nullDecimal(o.FinalPrice()),
		AdminNotes:          o.AdminNotes(),
		Status:              int(o.Status()),
		ConsumedTokenDigest: o.ConsumedTokenDigest(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
	}
	if token := o.ConfirmationToken(); token != nil {
		value := token.Value()
		dto.ConfirmationToken = &value
	}
	return dto
}

// updateColumns lists every column a transition may touch. A map is used so
// that cleared values are written as NULL.
func updateColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"shipping_charge":       dto.ShippingCharge,
		"final_price":           dto.FinalPrice,
		"admin_notes":           dto.AdminNotes,
		"status":                dto.Status,
		"confirmation_token":    dto.ConfirmationToken,
		"consumed_token_digest": dto.ConsumedTokenDigest,
		"updated_at":            dto.UpdatedAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer := order.GuestCustomer(dto.CustomerEmail)
	if dto.CustomerID != nil {
		customerID, idErr := kernel.UUIDFromBytes((*dto.CustomerID)[:])
		if idErr != nil {
			return nil, idErr
		}
		customer = order.RegisteredCustomer(customerID)
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		unitPrice, priceErr := kernel.NewMoney(itemDTO.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		item, itemErr := order.NewItem(itemDTO.Name, itemDTO.Quantity, unitPrice, itemDTO.ProductID)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return nil, err
	}

	address, err := order.NewShippingAddress(order.AddressFields{
		FullName:     dto.ShippingAddress.FullName,
		AddressLine1: dto.ShippingAddress.AddressLine1,
		AddressLine2: dto.ShippingAddress.AddressLine2,
		City:         dto.ShippingAddress.City,
		State:        dto.ShippingAddress.State,
		PostalCode:   dto.ShippingAddress.PostalCode,
		Country:      dto.ShippingAddress.Country,
		Phone:        dto.ShippingAddress.Phone,
	}, "")
	if err != nil {
		return nil, err
	}

	shippingCharge, err := money(dto.ShippingCharge)
	if err != nil {
		return nil, err
	}
	finalPrice, err := money(dto.FinalPrice)
	if err != nil {
		return nil, err
	}

	var token *order.ConfirmationToken
	if dto.ConfirmationToken != nil {
		t, tokenErr := order.NewConfirmationToken(*dto.ConfirmationToken)
		if tokenErr != nil {
			return nil, tokenErr
		}
		token = &t
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:                  id,
		Customer:            customer,
		Items:               items,
		Subtotal:            subtotal,
		ShippingAddress:     address,
		ShippingCharge:      shippingCharge,
		FinalPrice:          finalPrice,
		AdminNotes:          dto.AdminNotes,
		Status:              order.Status(dto.Status),
		Token:               token,
		ConsumedTokenDigest: dto.ConsumedTokenDigest,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
	})
}

func nullDecimal(m *kernel.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: m.Amount(), Valid: true}
}

func money(d decimal.NullDecimal) (*kernel.Money, error) {
	if !d.Valid {
		return nil, nil
	}
	m, err := kernel.NewMoney(d.Decimal)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
