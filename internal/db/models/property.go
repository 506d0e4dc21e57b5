package models

import (
	"time"

	"gorm.io/gorm"
)

// Property represents a managed property
type Property struct {
	gorm.Model
	Name      string    `json:"name" gorm:"not null;index"`
	Address   string    `json:"address" gorm:"type:text"`
	ManagerID uint      `json:"manager_id" gorm:"not null;index"`
	OwnerIDs  []uint    `json:"owner_ids" gorm:"type:jsonb;serializer:json"`
	Units     []Unit    `json:"units,omitempty" gorm:"foreignKey:PropertyID"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// OwnedBy reports whether the given user is one of the property's owners
func (p *Property) OwnedBy(userID uint) bool {
	for _, id := range p.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Unit represents a rentable unit within a property
type Unit struct {
	gorm.Model
	PropertyID uint   `json:"property_id" gorm:"not null;index"`
	Label      string `json:"label" gorm:"not null"`
}
