package repos

import (
	"context"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db           *gorm.DB
	ctx          context.Context
	jobRepo      *JobRepository
	propertyRepo *PropertyRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Create new in-memory database with JSON support
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Run migrations
	err = db.AutoMigrate(&models.Job{}, &models.Property{}, &models.Unit{}, &models.User{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.ctx = context.Background()
	s.jobRepo = NewJobRepository(db)
	s.propertyRepo = NewPropertyRepository(db)
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	require.NoError(s.T(), err)
	require.NoError(s.T(), sqlDB.Close())
}

// createTestProperty inserts a property managed by manager 7, owned by 100
func (s *DBRepositoryTestSuite) createTestProperty() *models.Property {
	property := &models.Property{
		Name:      "Riverside House",
		Address:   "1 River Road",
		ManagerID: 7,
		OwnerIDs:  []uint{100},
	}
	s.Require().NoError(s.propertyRepo.Create(s.ctx, property))
	return property
}

// createTestJob inserts an OPEN job on the given property
func (s *DBRepositoryTestSuite) createTestJob(propertyID uint) *models.Job {
	job := &models.Job{
		Title:       "Fix boiler",
		Status:      models.JobStatusOpen,
		Priority:    models.JobPriorityMedium,
		PropertyID:  propertyID,
		CreatedByID: 7,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}

// createScheduledJob inserts an assigned job with a scheduled date
func (s *DBRepositoryTestSuite) createScheduledJob(propertyID, technicianID uint, status models.JobStatus, date time.Time) *models.Job {
	job := &models.Job{
		Title:         "Scheduled work",
		Status:        status,
		Priority:      models.JobPriorityMedium,
		PropertyID:    propertyID,
		CreatedByID:   7,
		AssignedToID:  &technicianID,
		ScheduledDate: &date,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}
