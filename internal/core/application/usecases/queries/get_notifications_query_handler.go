package queries

import (
	"context"
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationView is one entry of the notification list.
type NotificationView struct {
	ID          kernel.UUID
	Broadcast   bool
	Type        notification.Type
	Title       string
	Message     string
	ReferenceID *kernel.UUID
	Read        bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

type GetNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewGetNotificationsQueryHandler(db *gorm.DB) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{db: db}
}

// Handle returns the notifications newest first.
func (h GetNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetNotificationsQuery,
) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			recipient_kind,
			type,
			title,
			message,
			reference_id,
			read_at,
			created_at
		FROM notifications
		WHERE (recipient_kind = ? AND recipient_id = ?)
			OR (recipient_kind = ? AND ?)
		ORDER BY created_at DESC, id DESC
	`,
		notification.UserRecipient.String(), query.reader.UserID.Bytes(),
		notification.AdminRecipient.String(), query.reader.IsAdmin,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]NotificationView, 0)
	for rows.Next() {
		var (
			view        NotificationView
			id          uuid.UUID
			kind        string
			typ         string
			referenceID uuid.NullUUID
		)
		if err = rows.Scan(
			&id,
			&kind,
			&typ,
			&view.Title,
			&view.Message,
			&referenceID,
			&view.ReadAt,
			&view.CreatedAt,
		); err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if referenceID.Valid {
			ref, refErr := kernel.UUIDFromBytes(referenceID.UUID[:])
			if refErr != nil {
				return nil, refErr
			}
			view.ReferenceID = &ref
		}
		view.Broadcast = kind == notification.AdminRecipient.String()
		view.Type = notification.Type(typ)
		view.Read = view.ReadAt != nil
		view.CreatedAt = view.CreatedAt.UTC()

		views = append(views, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
