package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// UserRole represents the role of a user in the system
type UserRole string

// User role constants
const (
	// UserRoleManager manages properties and owns the jobs on them
	UserRoleManager UserRole = "MANAGER"
	// UserRoleTechnician performs maintenance work assigned to them
	UserRoleTechnician UserRole = "TECHNICIAN"
	// UserRoleOwner holds read-only visibility through property ownership
	UserRoleOwner UserRole = "OWNER"
	// UserRoleTenant occupies a unit; tenants have no direct job access
	UserRoleTenant UserRole = "TENANT"
)

var userRoles = []UserRole{
	UserRoleManager,
	UserRoleTechnician,
	UserRoleOwner,
	UserRoleTenant,
}

// ParseUserRole converts a string representation of a user role to UserRole type
func ParseUserRole(str string) (UserRole, error) {
	for _, role := range userRoles {
		if string(role) == str {
			return role, nil
		}
	}
	return "", fmt.Errorf("invalid user role: %s", str)
}

// UnmarshalJSON implements the json.Unmarshaler interface for UserRole
func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	role, err := ParseUserRole(str)
	if err != nil {
		return err
	}

	*r = role
	return nil
}

// User represents a platform user
type User struct {
	gorm.Model
	Name  string   `json:"name" gorm:"not null"`
	Email string   `json:"email" gorm:"not null;unique"`
	Role  UserRole `json:"role" gorm:"type:varchar(16);not null;index"`
}
