package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfgops/backend/internal/domain/catalog"
	"github.com/mfgops/backend/internal/domain/shared"
)

// LocationService manages stock locations
type LocationService struct {
	locationRepo catalog.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo catalog.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// Create creates a new location
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	existing, err := s.locationRepo.FindByName(ctx, req.Name)
	if err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	location, err := catalog.NewLocation(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	resp := ToLocationResponse(location)
	return &resp, nil
}

// GetByID retrieves a location by ID
func (s *LocationService) GetByID(ctx context.Context, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(location)
	return &resp, nil
}

// List retrieves all locations matching the filter
func (s *LocationService) List(ctx context.Context, filter shared.Filter) ([]LocationResponse, error) {
	locations, err := s.locationRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]LocationResponse, 0, len(locations))
	for idx := range locations {
		responses = append(responses, ToLocationResponse(&locations[idx]))
	}
	return responses, nil
}

// Delete deletes a location
func (s *LocationService) Delete(ctx context.Context, locationID uuid.UUID) error {
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, locationID)
}
