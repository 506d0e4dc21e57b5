package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
)

// PropertyRepository provides access to property-related database operations
type PropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository instance
func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create creates a new property in the database
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// FindByID retrieves a property by its ID, nil when no such property exists
func (r *PropertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).Where(&models.Property{Model: gorm.Model{ID: id}}).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

// FindByIDs retrieves the properties with the given ids
func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get properties: %w", err)
	}
	return properties, nil
}
