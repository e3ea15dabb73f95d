package queries

import (
	"context"
	"database/sql"
	"errors"

	"orderreview/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order when the viewer owns it or is an admin. Anyone else
// gets the same not found error as for a missing order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notFound := errs.NewObjectNotFoundError("order", query.orderID.String())

	row := h.db.WithContext(ctx).Raw(orderViewSelect+`
		WHERE o.id = ?
	`, query.orderID.Bytes()).Row()
	view, err := scanOrderView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}

	if !query.viewer.IsAdmin && (view.CustomerID == nil || !view.CustomerID.IsEqual(query.viewer.UserID)) {
		return nil, notFound
	}

	views := []OrderView{view}
	if err = attachItems(ctx, h.db, views); err != nil {
		return nil, err
	}

	return &views[0], nil
}
