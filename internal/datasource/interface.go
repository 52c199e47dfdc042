// Package datasource provides clients for fetching race cards, entrants and
// results from the external race data service.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

// RaceDataSource defines the interface for fetching racing data
type RaceDataSource interface {
	// ListUpcomingRaces retrieves races scheduled within the next `days` days
	ListUpcomingRaces(ctx context.Context, days int) ([]models.Race, error)

	// ListPastRaces retrieves finished races from the last `days` days
	ListPastRaces(ctx context.Context, days int) ([]models.Race, error)

	// FetchEntrants retrieves the race card with odds and form history
	FetchEntrants(ctx context.Context, raceID string) ([]models.Horse, error)

	// FetchResult retrieves the final order and payout tables for a finished race
	FetchResult(ctx context.Context, raceID string) (*models.RaceResult, error)

	// Name returns the name of the data source
	Name() string

	// HealthCheck verifies the data source is reachable
	HealthCheck(ctx context.Context) error
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes the sentinel chain so callers can map failures onto the
// shared error taxonomy with errors.Is.
func (e DataSourceError) Unwrap() error {
	if e.Code == ErrCodeNotFound {
		return models.ErrRaceNotFound
	}
	if e.Err != nil && errors.Is(e.Err, models.ErrRaceNotFound) {
		return models.ErrRaceNotFound
	}
	return models.ErrDataUnavailable
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
