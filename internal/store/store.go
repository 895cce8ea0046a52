// Package store persists facility records behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/terralode/facility-cli/internal/model"
)

// FacilityFilter specifies criteria for listing facilities.
type FacilityFilter struct {
	CountryCode string `json:"country_code,omitempty"`
	Commodity   string `json:"commodity,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for facility records. The core
// never deletes records; deletion is an external policy decision.
type Store interface {
	CreateFacility(ctx context.Context, f *model.FacilityRecord) error
	UpdateFacility(ctx context.Context, f *model.FacilityRecord) error
	// UpdateCoordinate sets or clears a facility's coordinate pair. A nil
	// coordinate clears both values; partial pairs cannot be stored.
	UpdateCoordinate(ctx context.Context, id string, coord *model.Coordinate) error
	GetFacility(ctx context.Context, id string) (*model.FacilityRecord, error)
	ListFacilities(ctx context.Context, filter FacilityFilter) ([]model.FacilityRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
