package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/shared"
)

// Batch represents a traceable lot of material. Movements may
// optionally reference a batch.
type Batch struct {
	shared.BaseEntity
	BatchNumber string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_batches_number"`
	ItemID      *uuid.UUID `gorm:"type:uuid;index"`
	ExpiryDate  *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new batch
func NewBatch(batchNumber string) (*Batch, error) {
	if strings.TrimSpace(batchNumber) == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}

	return &Batch{
		BaseEntity:  shared.NewBaseEntity(),
		BatchNumber: strings.TrimSpace(batchNumber),
	}, nil
}

// AssignItem associates the batch with a specific item
func (b *Batch) AssignItem(itemID uuid.UUID) {
	b.ItemID = &itemID
	b.UpdatedAt = time.Now()
}

// SetExpiryDate sets the batch expiry date
func (b *Batch) SetExpiryDate(date time.Time) {
	b.ExpiryDate = &date
	b.UpdatedAt = time.Now()
}
