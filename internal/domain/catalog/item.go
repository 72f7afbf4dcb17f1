package catalog

import (
	"strings"
	"time"

	"github.com/mfgops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item represents a stocked or orderable part in the catalog.
// Its identity is immutable; an item is never deleted while movements
// or order components still reference it.
type Item struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_items_sku"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`             // Unit of measure (e.g., "pcs", "kg")
	MinStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Minimum stock level for alerts
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new catalog item
func NewItem(sku, name, unit string) (*Item, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Name:              name,
		Unit:              unit,
		MinStock:          decimal.Zero,
	}, nil
}

// SetMinStock sets the minimum stock threshold for alerts
func (i *Item) SetMinStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}
	i.MinStock = quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// SetDescription sets the free-text description
func (i *Item) SetDescription(description string) {
	i.Description = description
	i.UpdatedAt = time.Now()
}

// HasMinStock returns true if a minimum stock threshold is configured
func (i *Item) HasMinStock() bool {
	return i.MinStock.GreaterThan(decimal.Zero)
}
