package models

import "errors"

var (
	// ErrRaceNotFound indicates the requested race does not exist upstream
	ErrRaceNotFound = errors.New("race not found")

	// ErrDataUnavailable indicates the race data source could not be reached
	ErrDataUnavailable = errors.New("race data unavailable")

	// ErrOptimizerUnavailable indicates the budget optimizer service failed
	ErrOptimizerUnavailable = errors.New("optimizer service unavailable")

	// ErrInvalidOptimizerResponse indicates the solver answer failed normalization
	ErrInvalidOptimizerResponse = errors.New("invalid optimizer response")

	// ErrInvalidBudget indicates a budget that is not a positive multiple of the betting unit
	ErrInvalidBudget = errors.New("invalid budget")
)
