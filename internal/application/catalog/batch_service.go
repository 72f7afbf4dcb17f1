package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/shared"
)

// BatchService manages stock batches
type BatchService struct {
	batchRepo catalog.BatchRepository
	itemRepo  catalog.ItemRepository
}

// NewBatchService creates a new BatchService
func NewBatchService(batchRepo catalog.BatchRepository, itemRepo catalog.ItemRepository) *BatchService {
	return &BatchService{batchRepo: batchRepo, itemRepo: itemRepo}
}

// Create creates a new batch
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	existing, err := s.batchRepo.FindByNumber(ctx, req.BatchNumber)
	if err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	batch, err := catalog.NewBatch(req.BatchNumber)
	if err != nil {
		return nil, err
	}
	if req.ItemID != nil {
		if _, err := s.itemRepo.FindByID(ctx, *req.ItemID); err != nil {
			return nil, err
		}
		batch.AssignItem(*req.ItemID)
	}
	if req.ExpiryDate != nil {
		batch.SetExpiryDate(*req.ExpiryDate)
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetByID retrieves a batch by ID
func (s *BatchService) GetByID(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// List retrieves all batches matching the filter
func (s *BatchService) List(ctx context.Context, filter shared.Filter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]BatchResponse, 0, len(batches))
	for idx := range batches {
		responses = append(responses, ToBatchResponse(&batches[idx]))
	}
	return responses, nil
}

// Delete deletes a batch
func (s *BatchService) Delete(ctx context.Context, batchID uuid.UUID) error {
	if _, err := s.batchRepo.FindByID(ctx, batchID); err != nil {
		return err
	}
	return s.batchRepo.Delete(ctx, batchID)
}
