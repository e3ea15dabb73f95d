// Package userrepo reads accounts from the users table owned by the
// authentication service. It never writes.
package userrepo

import (
	"context"
	"errors"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/user"
	"orderreview/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO mirrors the columns this service reads from users.
type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"type:varchar(255)"`
	Email string    `gorm:"type:varchar(320);not null;uniqueIndex"`
	Phone string    `gorm:"type:varchar(32)"`
	Role  string    `gorm:"type:varchar(16);not null;index"`
}

func (UserDTO) TableName() string {
	return "users"
}

func toDomain(dto UserDTO) (user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return user.User{}, err
	}
	// Anything but admin is a shopper; the auth service also calls them "user".
	role := user.RoleCustomer
	if user.Role(dto.Role) == user.RoleAdmin {
		role = user.RoleAdmin
	}
	return user.NewUser(id, dto.Name, dto.Email, dto.Phone, role)
}

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (user.User, error) {
	if err := id.Validate(); err != nil {
		return user.User{}, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, errs.NewObjectNotFoundError("user", id.String())
		}
		return user.User{}, err
	}

	return toDomain(dto)
}

// ListAdmins reads the admins on every call. Rows that fail validation, for
// example an admin without an email, are skipped rather than failing the list.
func (r *GormUserRepository) ListAdmins(ctx context.Context) ([]user.User, error) {
	var dtos []UserDTO
	if err := r.db.WithContext(ctx).Where("role = ?", string(user.RoleAdmin)).Order("email").Find(&dtos).Error; err != nil {
		return nil, err
	}

	admins := make([]user.User, 0, len(dtos))
	for _, dto := range dtos {
		u, err := toDomain(dto)
		if err != nil {
			continue
		}
		admins = append(admins, u)
	}

	return admins, nil
}
