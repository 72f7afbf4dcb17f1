package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/catalog"
)

// CreateItemRequest creates a catalog item
type CreateItemRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	Description string `json:"description,omitempty"`
	MinStock    string `json:"min_stock,omitempty"`
}

// UpdateItemRequest updates a catalog item's mutable fields
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	MinStock    *string `json:"min_stock,omitempty"`
}

// ItemResponse represents an item in responses
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit"`
	Description string    `json:"description,omitempty"`
	MinStock    string    `json:"min_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateLocationRequest creates a stock location
type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
}

// LocationResponse represents a location in responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBatchRequest creates a batch
type CreateBatchRequest struct {
	BatchNumber string     `json:"batch_number" binding:"required"`
	ItemID      *uuid.UUID `json:"item_id,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// BatchResponse represents a batch in responses
type BatchResponse struct {
	ID          uuid.UUID  `json:"id"`
	BatchNumber string     `json:"batch_number"`
	ItemID      *uuid.UUID `json:"item_id,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToItemResponse converts an Item to an ItemResponse
func ToItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Unit:        item.Unit,
		Description: item.Description,
		MinStock:    item.MinStock.String(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

// ToLocationResponse converts a Location to a LocationResponse
func ToLocationResponse(location *catalog.Location) LocationResponse {
	return LocationResponse{
		ID:        location.ID,
		Name:      location.Name,
		CreatedAt: location.CreatedAt,
	}
}

// ToBatchResponse converts a Batch to a BatchResponse
func ToBatchResponse(batch *catalog.Batch) BatchResponse {
	return BatchResponse{
		ID:          batch.ID,
		BatchNumber: batch.BatchNumber,
		ItemID:      batch.ItemID,
		ExpiryDate:  batch.ExpiryDate,
		CreatedAt:   batch.CreatedAt,
	}
}
