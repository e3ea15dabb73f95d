package queries

import (
	"context"
	"database/sql"
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomerView is the registered customer's profile as shown to admins.
type CustomerView struct {
	Name  string
	Email string
	Phone string
}

type ItemView struct {
	Name      string
	Quantity  int
	UnitPrice kernel.Money
	ProductID string
}

// OrderView is the read model of an order. The confirmation token is never part of it.
type OrderView struct {
	ID              kernel.UUID
	CustomerID      *kernel.UUID
	Customer        *CustomerView
	CustomerEmail   string
	Items           []ItemView
	Subtotal        kernel.Money
	ShippingAddress order.AddressFields
	ShippingCharge  *kernel.Money
	FinalPrice      *kernel.Money
	AdminNotes      string
	Status          order.Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const orderViewSelect = `
	SELECT
		o.id,
		o.customer_id,
		o.customer_email,
		o.subtotal,
		o.shipping_full_name,
		o.shipping_address_line1,
		o.shipping_address_line2,
		o.shipping_city,
		o.shipping_state,
		o.shipping_postal_code,
		o.shipping_country,
		o.shipping_phone,
		o.shipping_charge,
		o.final_price,
		o.admin_notes,
		o.status,
		o.created_at,
		o.updated_at,
		u.name,
		u.email,
		u.phone
	FROM orders o
	LEFT JOIN users u ON u.id = o.customer_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrderView(row scanner) (OrderView, error) {
	var (
		view                           OrderView
		id                             uuid.UUID
		customerID                     uuid.NullUUID
		subtotal                       decimal.Decimal
		charge, finalPrice             decimal.NullDecimal
		status                         int
		userName, userEmail, userPhone sql.NullString
		address                        order.AddressFields
	)

	if err := row.Scan(
		&id,
		&customerID,
		&view.CustomerEmail,
		&subtotal,
		&address.FullName,
		&address.AddressLine1,
		&address.AddressLine2,
		&address.City,
		&address.State,
		&address.PostalCode,
		&address.Country,
		&address.Phone,
		&charge,
		&finalPrice,
		&view.AdminNotes,
		&status,
		&view.CreatedAt,
		&view.UpdatedAt,
		&userName,
		&userEmail,
		&userPhone,
	); err != nil {
		return OrderView{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderView{}, err
	}
	view.ID = orderID

	if customerID.Valid {
		cid, idErr := kernel.UUIDFromBytes(customerID.UUID[:])
		if idErr != nil {
			return OrderView{}, idErr
		}
		view.CustomerID = &cid
	}
	// The users row can be gone while the order stays.
	if userEmail.Valid {
		view.Customer = &CustomerView{Name: userName.String, Email: userEmail.String, Phone: userPhone.String}
	}

	if view.Subtotal, err = kernel.NewMoney(subtotal); err != nil {
		return OrderView{}, err
	}
	if view.ShippingCharge, err = nullMoney(charge); err != nil {
		return OrderView{}, err
	}
	if view.FinalPrice, err = nullMoney(finalPrice); err != nil {
		return OrderView{}, err
	}

	view.Status = order.Status(status)
	if err = view.Status.Validate(); err != nil {
		return OrderView{}, err
	}
	view.ShippingAddress = address
	view.CreatedAt = view.CreatedAt.UTC()
	view.UpdatedAt = view.UpdatedAt.UTC()

	return view, nil
}

func nullMoney(d decimal.NullDecimal) (*kernel.Money, error) {
	if !d.Valid {
		return nil, nil //nolint:nilnil // absent amount
	}
	m, err := kernel.NewMoney(d.Decimal)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// attachItems loads the basket lines of views by order id and puts them on
// views in their submitted order. Items are written once at submit, so they
// match the order rows already read even if the status has moved since.
func attachItems(ctx context.Context, db *gorm.DB, views []OrderView) error {
	if len(views) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*OrderView, len(views))
	ids := make([]uuid.UUID, 0, len(views))
	for i := range views {
		views[i].Items = make([]ItemView, 0)
		byID[views[i].ID.Bytes()] = &views[i]
		ids = append(ids, views[i].ID.Bytes())
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			i.order_id,
			i.name,
			i.quantity,
			i.unit_price,
			i.product_id
		FROM order_items i
		WHERE i.order_id IN ?
		ORDER BY i.order_id, i.position
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID   uuid.UUID
			item      ItemView
			unitPrice decimal.Decimal
			productID sql.NullString
		)
		if err = rows.Scan(&orderID, &item.Name, &item.Quantity, &unitPrice, &productID); err != nil {
			return err
		}
		view, ok := byID[orderID]
		if !ok {
			continue
		}
		if item.UnitPrice, err = kernel.NewMoney(unitPrice); err != nil {
			return err
		}
		item.ProductID = productID.String
		view.Items = append(view.Items, item)
	}

	return rows.Err()
}
