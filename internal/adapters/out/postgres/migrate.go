package postgres

import (
	"context"
	"fmt"

	"orderreview/internal/adapters/out/postgres/notificationrepo"
	"orderreview/internal/adapters/out/postgres/orderrepo"
	"orderreview/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Migrate creates or extends the tables this service reads and writes. The
// users table belongs to the auth service; it is only created when missing so
// a fresh database can boot.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}, &notificationrepo.NotificationDTO{}); err != nil {
		return fmt.Errorf("migrate order tables: %w", err)
	}

	if !db.Migrator().HasTable(&userrepo.UserDTO{}) {
		if err := db.Migrator().CreateTable(&userrepo.UserDTO{}); err != nil {
			return fmt.Errorf("create users table: %w", err)
		}
	}

	return nil
}
