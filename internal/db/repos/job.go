package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// JobWrite is one element of an atomic multi-row write: either a field
// patch or a delete marker, keyed by job id.
type JobWrite struct {
	ID     uint
	Patch  map[string]interface{}
	Delete bool
}

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by its ID, nil when no such job exists
func (r *JobRepository) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).Where(&models.Job{Model: gorm.Model{ID: id}}).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// FindByIDs retrieves the jobs with the given ids, in id order. Missing ids
// simply shrink the result; callers compare counts.
func (r *JobRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs: %w", err)
	}
	return jobs, nil
}

// WriteAtomic applies every patch and delete marker inside one transaction.
// A write that touches no row aborts the whole batch, so the caller never
// observes a partial application.
func (r *JobRepository) WriteAtomic(ctx context.Context, writes []JobWrite) error {
	if len(writes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, write := range writes {
			var result *gorm.DB
			if write.Delete {
				result = tx.Delete(&models.Job{}, write.ID)
			} else {
				result = tx.Model(&models.Job{}).
					Where("id = ?", write.ID).
					Updates(write.Patch)
			}
			if result.Error != nil {
				return fmt.Errorf("failed to write job %d: %w", write.ID, result.Error)
			}
			if result.RowsAffected != 1 {
				return fmt.Errorf("job %d vanished during write", write.ID)
			}
		}
		return nil
	})
}

// FindScheduledForTechnician returns the technician's non-terminal jobs
// whose scheduled date falls inside [from, to], excluding the given ids.
// This is the scheduling.JobSource query.
func (r *JobRepository) FindScheduledForTechnician(ctx context.Context, technicianID uint, from, to time.Time, excludeIDs []uint) ([]models.Job, error) {
	query := r.db.WithContext(ctx).
		Where(models.JobAssignedToField+" = ?", technicianID).
		Where(models.JobScheduledDateField+" BETWEEN ? AND ?", from, to).
		Where(models.JobStatusField+" NOT IN ?", []models.JobStatus{
			models.JobStatusCompleted,
			models.JobStatusCancelled,
		})
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var jobs []models.Job
	if err := query.Order(models.JobScheduledDateField).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to query technician schedule: %w", err)
	}
	return jobs, nil
}

// ListForProperty returns a page of a property's jobs, newest first
func (r *JobRepository) ListForProperty(ctx context.Context, propertyID uint, opts *models.ListOptions) ([]models.Job, error) {
	query := r.db.WithContext(ctx).Where(&models.Job{PropertyID: propertyID})
	if opts != nil {
		if opts.Status != nil {
			query = query.Where(models.JobStatusField+" = ?", *opts.Status)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Offset(opts.Offset)
		}
	}

	var jobs []models.Job
	err := query.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}
