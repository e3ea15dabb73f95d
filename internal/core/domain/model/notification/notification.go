// Package notification holds the in-app notification entity.
//
// A notification targets either a single user or the admin broadcast channel.
// It can only be marked read by its recipient, and marking it twice is a no-op.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// RecipientKind tells admin broadcasts apart from personal notifications.
type RecipientKind int

const (
	UnknownRecipient RecipientKind = iota
	AdminRecipient
	UserRecipient
)

func (k RecipientKind) String() string {
	switch k {
	case AdminRecipient:
		return "admin"
	case UserRecipient:
		return "user"
	default:
		return "unknown"
	}
}

// ParseRecipientKind maps the stored name back to a RecipientKind.
func ParseRecipientKind(s string) (RecipientKind, error) {
	switch s {
	case "admin":
		return AdminRecipient, nil
	case "user":
		return UserRecipient, nil
	default:
		return UnknownRecipient, errs.NewValueIsInvalidErrorWithCause(
			"recipientKind", fmt.Errorf("%q is not a valid recipient kind", s))
	}
}

// Type groups notifications for display.
type Type string

const (
	TypeOrder  Type = "order"
	TypeSystem Type = "system"
)

// Recipient addresses a notification.
type Recipient struct {
	kind   RecipientKind
	userID *kernel.UUID
}

// Admins is the broadcast recipient every admin reads. A broadcast holds one
// read state for the whole admin team: the first admin to mark it read marks
// it read for every admin.
func Admins() Recipient {
	return Recipient{kind: AdminRecipient}
}

func User(userID kernel.UUID) Recipient {
	return Recipient{kind: UserRecipient, userID: &userID}
}

func (r Recipient) Kind() RecipientKind { return r.kind }

// UserID is nil for the admin broadcast.
func (r Recipient) UserID() *kernel.UUID { return r.userID }

func (r Recipient) Validate() error {
	switch r.kind {
	case AdminRecipient:
		return nil
	case UserRecipient:
		if r.userID == nil {
			return errs.NewValueIsRequiredError("recipientId")
		}
		return r.userID.Validate()
	default:
		return errs.NewValueIsRequiredError("recipient")
	}
}

// Reader is the signed-in user listing or acknowledging notifications.
type Reader struct {
	UserID  kernel.UUID
	IsAdmin bool
}

// Notification is one in-app message.
type Notification struct {
	id          kernel.UUID
	recipient   Recipient
	typ         Type
	title       string
	message     string
	referenceID *kernel.UUID
	read        bool
	readAt      *time.Time
	createdAt   time.Time

	isConstructed bool
}

// NewNotification creates an unread notification. An empty typ defaults to TypeSystem.
func NewNotification(
	id kernel.UUID,
	recipient Recipient,
	typ Type,
	title, message string,
	referenceID *kernel.UUID,
	now time.Time,
) (*Notification, error) {
	if typ == "" {
		typ = TypeSystem
	}
	n := &Notification{
		id:            id,
		recipient:     recipient,
		typ:           typ,
		title:         strings.TrimSpace(title),
		message:       strings.TrimSpace(message),
		referenceID:   referenceID,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	var errTitle, errMessage, errType error
	if n.title == "" {
		errTitle = errs.NewValueIsRequiredError("title")
	}
	if n.message == "" {
		errMessage = errs.NewValueIsRequiredError("message")
	}
	if typ != TypeOrder && typ != TypeSystem {
		errType = errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a notification type", typ))
	}
	if err := errors.Join(id.Validate(), recipient.Validate(), errTitle, errMessage, errType); err != nil {
		return nil, err
	}

	return n, nil
}

// RestoreNotification rebuilds a stored notification.
func RestoreNotification(
	id kernel.UUID,
	recipient Recipient,
	typ Type,
	title, message string,
	referenceID *kernel.UUID,
	readAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, recipient, typ, title, message, referenceID, createdAt)
	if err != nil {
		return nil, err
	}
	n.createdAt = createdAt
	if readAt != nil {
		at := *readAt
		n.read = true
		n.readAt = &at
	}
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID { return n.id }

func (n *Notification) Recipient() Recipient { return n.recipient }

func (n *Notification) Type() Type { return n.typ }

func (n *Notification) Title() string { return n.title }

func (n *Notification) Message() string { return n.message }

func (n *Notification) ReferenceID() *kernel.UUID { return n.referenceID }

func (n *Notification) IsRead() bool { return n.read }

func (n *Notification) ReadAt() *time.Time { return n.readAt }

func (n *Notification) CreatedAt() time.Time { return n.createdAt }

// IsVisibleTo reports whether reader may see the notification.
func (n *Notification) IsVisibleTo(reader Reader) bool {
	switch n.recipient.kind {
	case AdminRecipient:
		return reader.IsAdmin
	case UserRecipient:
		return n.recipient.userID != nil && n.recipient.userID.IsEqual(reader.UserID)
	default:
		return false
	}
}

// MarkRead records the first read. Someone who cannot see the notification gets not found.
// For an admin broadcast the read state is shared by all admins.
func (n *Notification) MarkRead(reader Reader, now time.Time) error {
	if !n.IsVisibleTo(reader) {
		return errs.NewObjectNotFoundError("notification", n.id.String())
	}
	if n.read {
		return nil
	}
	at := now.UTC()
	n.read = true
	n.readAt = &at
	return nil
}
