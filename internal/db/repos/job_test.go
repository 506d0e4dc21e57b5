package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

type JobRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestJobRepository(t *testing.T) {
	suite.Run(t, new(JobRepositoryTestSuite))
}

func (s *JobRepositoryTestSuite) TestCreateAndFindByID() {
	property := s.createTestProperty()
	job := s.createTestJob(property.ID)
	s.NotZero(job.ID)

	found, err := s.jobRepo.FindByID(s.ctx, job.ID)
	s.NoError(err)
	s.Require().NotNil(found)
	s.Equal(job.Title, found.Title)
	s.Equal(models.JobStatusOpen, found.Status)

	// Missing job resolves to nil, not an error
	missing, err := s.jobRepo.FindByID(s.ctx, 9999)
	s.NoError(err)
	s.Nil(missing)
}

func (s *JobRepositoryTestSuite) TestFindByIDs() {
	property := s.createTestProperty()
	first := s.createTestJob(property.ID)
	second := s.createTestJob(property.ID)

	jobs, err := s.jobRepo.FindByIDs(s.ctx, []uint{first.ID, second.ID, 9999})
	s.NoError(err)
	s.Len(jobs, 2)
	s.Equal(first.ID, jobs[0].ID)
	s.Equal(second.ID, jobs[1].ID)
}

func (s *JobRepositoryTestSuite) TestWriteAtomic() {
	property := s.createTestProperty()
	job := s.createTestJob(property.ID)

	technicianID := uint(42)
	err := s.jobRepo.WriteAtomic(s.ctx, []JobWrite{
		{ID: job.ID, Patch: map[string]interface{}{
			"status":         models.JobStatusAssigned,
			"assigned_to_id": technicianID,
		}},
	})
	s.NoError(err)

	updated, err := s.jobRepo.FindByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.JobStatusAssigned, updated.Status)
	s.Require().NotNil(updated.AssignedToID)
	s.Equal(technicianID, *updated.AssignedToID)
}

func (s *JobRepositoryTestSuite) TestWriteAtomic_RollsBackOnMissingRow() {
	property := s.createTestProperty()
	job := s.createTestJob(property.ID)

	// Second write targets a job that does not exist; the first must not stick.
	err := s.jobRepo.WriteAtomic(s.ctx, []JobWrite{
		{ID: job.ID, Patch: map[string]interface{}{"status": models.JobStatusCancelled}},
		{ID: 9999, Patch: map[string]interface{}{"status": models.JobStatusCancelled}},
	})
	s.Error(err)

	unchanged, err := s.jobRepo.FindByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.JobStatusOpen, unchanged.Status)
}

func (s *JobRepositoryTestSuite) TestWriteAtomic_Delete() {
	property := s.createTestProperty()
	job := s.createTestJob(property.ID)

	err := s.jobRepo.WriteAtomic(s.ctx, []JobWrite{
		{ID: job.ID, Delete: true},
	})
	s.NoError(err)

	gone, err := s.jobRepo.FindByID(s.ctx, job.ID)
	s.NoError(err)
	s.Nil(gone)
}

func (s *JobRepositoryTestSuite) TestFindScheduledForTechnician() {
	property := s.createTestProperty()
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	inWindow := s.createScheduledJob(property.ID, 42, models.JobStatusAssigned, day)
	s.createScheduledJob(property.ID, 42, models.JobStatusCompleted, day)            // terminal
	s.createScheduledJob(property.ID, 43, models.JobStatusAssigned, day)             // other tech
	s.createScheduledJob(property.ID, 42, models.JobStatusAssigned, day.AddDate(0, 0, 10)) // outside window
	excluded := s.createScheduledJob(property.ID, 42, models.JobStatusAssigned, day)

	jobs, err := s.jobRepo.FindScheduledForTechnician(s.ctx, 42,
		day.Add(-24*time.Hour), day.Add(24*time.Hour), []uint{excluded.ID})
	s.NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(inWindow.ID, jobs[0].ID)
}

func (s *JobRepositoryTestSuite) TestListForProperty() {
	property := s.createTestProperty()
	other := s.createTestProperty()
	s.createTestJob(property.ID)
	s.createTestJob(property.ID)
	s.createTestJob(other.ID)

	status := models.JobStatusOpen
	jobs, err := s.jobRepo.ListForProperty(s.ctx, property.ID, &models.ListOptions{
		Limit:  10,
		Status: &status,
	})
	s.NoError(err)
	s.Len(jobs, 2)
}
