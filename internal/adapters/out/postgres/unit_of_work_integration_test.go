package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "orderreview/internal/adapters/out/postgres"
	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/core/ports"
	"orderreview/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testToken = "0123456789abcdef0123456789abcdef01234567"

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))
	// A second run must be a no-op.
	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, nil)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, notifications").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.NotificationRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitSpansBothRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o := createTestOrder(suite)
	n := createTestNotification(suite, o.ID())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, n))
	suite.Require().NoError(uow.Commit(ctx))

	tracked := uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs()
	suite.Equal([]kernel.UUID{o.ID()}, tracked)

	fresh := suite.factory.Create()
	_, err := fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	_, err = fresh.NotificationRepository().Get(ctx, n.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitLogsWrittenAggregates() {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	uow := postgres_adapter.NewGormUnitOfWorkFactory(suite.db, zap.New(core)).Create()
	o := createTestOrder(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	entries := logs.FilterMessage("unit of work committed").All()
	suite.Require().Len(entries, 1)
	suite.Equal([]any{o.ID().String()}, entries[0].ContextMap()["aggregates"])

	// Nothing written, nothing logged; the next transaction starts with no ids.
	suite.Require().NoError(uow.Begin(ctx))
	suite.Empty(uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs())
	suite.Require().NoError(uow.Commit(ctx))
	suite.Equal(1, logs.FilterMessage("unit of work committed").Len())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o := createTestOrder(suite)
	n := createTestNotification(suite, o.ID())

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, n))
	_, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Empty(uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs())

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = fresh.NotificationRepository().Get(ctx, n.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	order1 := createTestOrder(suite)
	order2 := createTestOrder(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.OrderRepository().Add(ctx, order1))
	suite.Require().NoError(uow2.OrderRepository().Add(ctx, order2))

	_, err := uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")
	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err)
	_, err = fresh.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err)
}

// Two customers racing on one order: the row lock lets exactly one transition win.
func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentConfirmAndCancel_ExactlyOneWins() {
	ctx := context.Background()

	for range 5 {
		o := createTestOrder(suite)
		charge, _ := kernel.MoneyFromString("500")
		token, _ := order.NewConfirmationToken(testToken)
		suite.Require().NoError(o.SetShippingCharge(charge, "", nil, token, time.Now()))
		suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

		uowFactory := orderUoWFactory(func() commands.OrderUoW { return suite.factory.Create() })
		confirm := commands.NewConfirmOrderCommandHandler(uowFactory, discardEvents{})
		cancel := commands.NewCancelOrderCommandHandler(uowFactory, discardEvents{})

		confirmCmd, err := commands.NewConfirmOrderCommand(o.ID(), order.TokenActor(testToken))
		suite.Require().NoError(err)
		cancelCmd, err := commands.NewCancelOrderCommand(o.ID(), order.TokenActor(testToken), "race")
		suite.Require().NoError(err)

		var (
			wg         sync.WaitGroup
			confirmErr error
			cancelErr  error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, confirmErr = confirm.Handle(ctx, confirmCmd)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = cancel.Handle(ctx, cancelCmd)
		}()
		wg.Wait()

		suite.True((confirmErr == nil) != (cancelErr == nil),
			"exactly one must succeed: confirm=%v cancel=%v", confirmErr, cancelErr)

		stored, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
		suite.Require().NoError(err)
		suite.Nil(stored.ConfirmationToken())

		loserErr := cancelErr
		wantStatus := order.Confirmed
		if confirmErr != nil {
			loserErr = confirmErr
			wantStatus = order.Cancelled
		}
		suite.Equal(wantStatus, stored.Status())
		suite.True(errors.Is(loserErr, errs.ErrTransitionIsInvalid), "loser got %v", loserErr)
	}
}

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type discardEvents struct{}

func (discardEvents) Publish(context.Context, fanout.Event) {}

func createTestOrder(suite *UnitOfWorkIntegrationTestSuite) *order.Order {
	price, err := kernel.MoneyFromString("1000")
	suite.Require().NoError(err)
	item, err := order.NewItem("Brass Lamp", 1, price, "")
	suite.Require().NoError(err)
	address, err := order.NewShippingAddress(order.AddressFields{
		FullName:     "Asha Rao",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "KA",
		PostalCode:   "560001",
		Phone:        "900",
	}, "India")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), order.GuestCustomer("guest@example.com"), []order.Item{item}, nil, address, time.Now())
	suite.Require().NoError(err)
	return o
}

func createTestNotification(suite *UnitOfWorkIntegrationTestSuite, orderID kernel.UUID) *notification.Notification {
	n, err := notification.NewNotification(kernel.NewUUID(), notification.Admins(), notification.TypeOrder,
		"New Order Received", "A new order has been received.", &orderID, time.Now())
	suite.Require().NoError(err)
	return n
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
