// Package user is a read-only view of accounts owned by the authentication system.
package user

import (
	"errors"
	"strings"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"
)

// Role decides which routes a session may call.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is a customer or admin profile used to address emails and to show the
// customer next to an order.
type User struct {
	id    kernel.UUID
	name  string
	email string
	phone string
	role  Role
}

func NewUser(id kernel.UUID, name, email, phone string, role Role) (User, error) {
	var errEmail, errRole error
	if strings.TrimSpace(email) == "" {
		errEmail = errs.NewValueIsRequiredError("email")
	}
	if role != RoleAdmin && role != RoleCustomer {
		errRole = errs.NewValueIsInvalidError("role")
	}
	if err := errors.Join(id.Validate(), errEmail, errRole); err != nil {
		return User{}, err
	}
	return User{id: id, name: strings.TrimSpace(name), email: strings.TrimSpace(email), phone: strings.TrimSpace(phone), role: role}, nil
}

func (u User) ID() kernel.UUID { return u.id }

func (u User) Name() string { return u.name }

func (u User) Email() string { return u.email }

func (u User) Phone() string { return u.phone }

func (u User) Role() Role { return u.role }

func (u User) IsAdmin() bool { return u.role == RoleAdmin }
