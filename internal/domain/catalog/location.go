package catalog

import (
	"strings"
	"time"

	"github.com/mfgops/backend/internal/domain/shared"
)

// Location represents a named storage place referenced by stock movements
type Location struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_locations_name"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new storage location
func NewLocation(name string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 100 characters")
	}

	return &Location{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
	}, nil
}

// SetDescription sets the free-text description
func (l *Location) SetDescription(description string) {
	l.Description = description
	l.UpdatedAt = time.Now()
}
