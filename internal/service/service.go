// Package service holds business logic orchestration across the store,
// the score calculator and the recommendation engine. Kept intentionally
// lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/athlete-performance-service/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures
// (maps to HTTP 400). Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field
// errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// MatchService defines the write path and the derived read views of the
// performance engine.
type MatchService interface {
	// SubmitMatch validates, scores, derives recommendations, persists the
	// match and updates the owning player's running aggregate.
	SubmitMatch(ctx context.Context, in model.MatchInput) (model.MatchRecord, error)
	GetMatch(ctx context.Context, id string) (model.MatchRecord, error)
	// DeleteMatch removes the record, then rebuilds the player aggregate from
	// the complete remaining set to avoid drift.
	DeleteMatch(ctx context.Context, id string) error
	ListRecentMatches(ctx context.Context, playerID string, limit int) ([]model.MatchRecord, error)
	GetPlayerAggregate(ctx context.Context, playerID string) (model.PlayerAggregate, error)
	// RecomputeAggregate rebuilds a player's statistics from scratch from all
	// of their persisted matches.
	RecomputeAggregate(ctx context.Context, playerID string) (model.PlayerAggregate, error)
	TeamOverview(ctx context.Context, coachID string) (model.TeamOverview, error)
}
