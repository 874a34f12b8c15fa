package auditrepo_test

import (
	"context"
	"testing"
	"time"

	"cafe/internal/adapters/out/postgres/auditrepo"
	"cafe/internal/core/domain/model/item"
	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AuditLogIntegrationTestSuite provides integration tests for GormAuditLog
// using PostgreSQL containers to verify database persistence behavior.
type AuditLogIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	auditLog  *auditrepo.GormAuditLog
}

func (suite *AuditLogIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
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

	suite.auditLog = auditrepo.NewGormAuditLog(db)
	suite.Require().NoError(suite.auditLog.Migrate())
}

func (suite *AuditLogIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE cafe_snapshot_counts, cafe_snapshots").Error)
}

func (suite *AuditLogIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		_ = suite.container.Terminate(context.Background())
	}
}

func (suite *AuditLogIntegrationTestSuite) TestAppendAndReadBack() {
	ctx := context.Background()
	snapshot := ports.CafeSnapshot{
		TakenAt:      time.Now().UTC().Truncate(time.Microsecond),
		Presence:     ports.PresenceCounts{InCafe: 3, WaitingOrders: 2},
		ActiveOrders: 2,
		Counts: map[item.Type]ports.TypeSnapshot{
			item.Tea: {
				StateTally:    order.StateTally{Waiting: 1, Preparing: 2, Ready: 3},
				SlotsOccupied: 2,
			},
			item.Coffee: {
				StateTally:    order.StateTally{Waiting: 4},
				SlotsOccupied: 0,
			},
		},
	}

	suite.Require().NoError(suite.auditLog.Append(ctx, snapshot))

	recent, err := suite.auditLog.Recent(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(recent, 1)

	suite.Equal(snapshot.Presence, recent[0].Presence)
	suite.Equal(snapshot.ActiveOrders, recent[0].ActiveOrders)
	suite.Equal(snapshot.Counts[item.Tea], recent[0].Counts[item.Tea])
	suite.Equal(snapshot.Counts[item.Coffee], recent[0].Counts[item.Coffee])
	suite.WithinDuration(snapshot.TakenAt, recent[0].TakenAt, time.Millisecond)
}

func (suite *AuditLogIntegrationTestSuite) TestRecentOrdersNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 3; i++ {
		snapshot := ports.CafeSnapshot{
			TakenAt:      base.Add(time.Duration(i) * time.Second),
			ActiveOrders: i,
			Counts:       map[item.Type]ports.TypeSnapshot{},
		}
		suite.Require().NoError(suite.auditLog.Append(ctx, snapshot))
	}

	recent, err := suite.auditLog.Recent(ctx, 2)
	suite.Require().NoError(err)
	suite.Require().Len(recent, 2)
	suite.Equal(2, recent[0].ActiveOrders)
	suite.Equal(1, recent[1].ActiveOrders)
}

func (suite *AuditLogIntegrationTestSuite) TestEmptyTrail() {
	recent, err := suite.auditLog.Recent(context.Background(), 10)
	suite.Require().NoError(err)
	suite.Empty(recent)
}

func TestAuditLogIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(AuditLogIntegrationTestSuite))
}
