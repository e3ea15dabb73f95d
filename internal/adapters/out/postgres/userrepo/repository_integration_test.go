package userrepo_test

import (
	"context"
	"testing"
	"time"

	"orderreview/internal/adapters/out/postgres/userrepo"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/user"
	"orderreview/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type UserRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *userrepo.GormUserRepository
}

func (suite *UserRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&userrepo.UserDTO{}))
	suite.repository = userrepo.NewGormUserRepository(db)
}

func (suite *UserRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE users").Error)
}

func (suite *UserRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UserRepositoryIntegrationTestSuite) seed(name, email, role string) uuid.UUID {
	id := uuid.New()
	suite.Require().NoError(suite.db.Create(&userrepo.UserDTO{ID: id, Name: name, Email: email, Role: role}).Error)
	return id
}

func (suite *UserRepositoryIntegrationTestSuite) TestGet() {
	id := suite.seed("Asha", "asha@example.com", "user")
	userID, err := kernel.UUIDFromBytes(id[:])
	suite.Require().NoError(err)

	u, err := suite.repository.Get(context.Background(), userID)

	suite.Require().NoError(err)
	suite.Equal("Asha", u.Name())
	suite.Equal(user.RoleCustomer, u.Role())
}

func (suite *UserRepositoryIntegrationTestSuite) TestGet_Missing() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UserRepositoryIntegrationTestSuite) TestListAdmins_ReadsFreshEveryTime() {
	ctx := context.Background()
	suite.seed("Ops", "ops@example.com", "admin")
	suite.seed("Asha", "asha@example.com", "customer")

	admins, err := suite.repository.ListAdmins(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(admins, 1)
	suite.Equal("ops@example.com", admins[0].Email())

	suite.seed("Owner", "owner@example.com", "admin")

	admins, err = suite.repository.ListAdmins(ctx)
	suite.Require().NoError(err)
	suite.Len(admins, 2)
}

func TestUserRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryIntegrationTestSuite))
}
