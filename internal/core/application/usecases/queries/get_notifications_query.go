package queries

import (
	"errors"

	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/pkg/guard"
)

var (
	ErrGetNotificationsQueryIsNotConstructed = errors.New(
		"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
	)
)

// GetNotificationsQuery lists what reader may see: their own notifications and,
// for admins, the admin broadcasts.
//
//nolint:recvcheck //using for validation
type GetNotificationsQuery struct {
	reader notification.Reader

	guard guard.ConstructorGuard
}

func NewGetNotificationsQuery(reader notification.Reader) (GetNotificationsQuery, error) {
	if err := reader.UserID.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}

	return GetNotificationsQuery{reader: reader, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

func (q GetNotificationsQuery) Reader() notification.Reader {
	return q.reader
}
