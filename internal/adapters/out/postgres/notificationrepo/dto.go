// Package notificationrepo stores in-app notifications.
package notificationrepo

import (
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/pkg/errs"

	"github.com/google/uuid"
)

// NotificationDTO is the notifications row. RecipientID is NULL for admin
// broadcasts.
type NotificationDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RecipientKind string     `gorm:"type:varchar(16);not null;index:idx_notifications_recipient,priority:1"`
	RecipientID   *uuid.UUID `gorm:"type:uuid;index:idx_notifications_recipient,priority:2"`
	Type          string     `gorm:"type:varchar(16);not null"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Message       string     `gorm:"type:text;not null"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid"`
	ReadAt        *time.Time
	CreatedAt     time.Time `gorm:"not null;autoCreateTime:false;index"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID().Bytes(),
		RecipientKind: n.Recipient().Kind().String(),
		RecipientID:   rawUUID(n.Recipient().UserID()),
		Type:          string(n.Type()),
		Title:         n.Title(),
		Message:       n.Message(),
		ReferenceID:   rawUUID(n.ReferenceID()),
		ReadAt:        n.ReadAt(),
		CreatedAt:     n.CreatedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kind, err := notification.ParseRecipientKind(dto.RecipientKind)
	if err != nil {
		return nil, err
	}

	recipient := notification.Admins()
	if kind == notification.UserRecipient {
		if dto.RecipientID == nil {
			return nil, errs.NewValueIsRequiredError("recipientId")
		}
		userID, idErr := kernel.UUIDFromBytes(dto.RecipientID[:])
		if idErr != nil {
			return nil, idErr
		}
		recipient = notification.User(userID)
	}

	var referenceID *kernel.UUID
	if dto.ReferenceID != nil {
		ref, refErr := kernel.UUIDFromBytes(dto.ReferenceID[:])
		if refErr != nil {
			return nil, refErr
		}
		referenceID = &ref
	}

	return notification.RestoreNotification(
		id,
		recipient,
		notification.Type(dto.Type),
		dto.Title,
		dto.Message,
		referenceID,
		dto.ReadAt,
		dto.CreatedAt,
	)
}

func rawUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
