// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Sport enumerates the disciplines the engine knows how to score.
type Sport string

const (
	SportCricket    Sport = "cricket"
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
)

// Supported reports whether s is one of the three scored disciplines.
func (s Sport) Supported() bool {
	switch s {
	case SportCricket, SportFootball, SportBasketball:
		return true
	default:
		return false
	}
}

// Params is the sport-specific bag of raw numeric match parameters.
// Field names follow the per-sport schemas; unknown keys are ignored.
type Params map[string]float64

// SuggestionType classifies a coaching suggestion.
type SuggestionType string

const (
	SuggestionRest      SuggestionType = "rest"
	SuggestionTraining  SuggestionType = "training"
	SuggestionTechnique SuggestionType = "technique"
	SuggestionGeneral   SuggestionType = "general"
)

// Priority ranks how urgently a suggestion should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is a derived coaching hint. It is never persisted on its own;
// only the message strings survive into a MatchRecord.
type Suggestion struct {
	Type     SuggestionType `json:"type"`
	Message  string         `json:"message"`
	Priority Priority       `json:"priority"`
}

// RestRecommendation is a recommended recovery window derived from the score.
type RestRecommendation struct {
	Hours       int    `json:"hours"`
	Description string `json:"description"`
}

// MatchRecord is one observed performance event for a player.
// CalculatedScore, Suggestions and RestRecommendation are derived together
// from the same inputs and are never supplied by the caller.
type MatchRecord struct {
	ID                 string             `json:"id"`
	PlayerID           string             `json:"player_id"`
	PlayerEmail        string             `json:"player_email,omitempty"`
	CoachID            string             `json:"coach_id"`
	Sport              Sport              `json:"sport"`
	Parameters         Params             `json:"parameters"`
	Date               time.Time          `json:"date"`
	CalculatedScore    int                `json:"calculated_score"`
	Suggestions        []string           `json:"suggestions"`
	RestRecommendation RestRecommendation `json:"rest_recommendation"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// MatchInput is what a coach submits; everything derived is filled in later.
type MatchInput struct {
	PlayerID    string    `json:"player_id"`
	PlayerEmail string    `json:"player_email,omitempty"`
	PlayerName  string    `json:"player_name,omitempty"`
	CoachID     string    `json:"coach_id"`
	Sport       Sport     `json:"sport"`
	Parameters  Params    `json:"parameters"`
	Date        time.Time `json:"date"`
}

// PlayerAggregate holds running statistics for one player, one row per player.
// AverageScore is always TotalScore/MatchCount rounded to 2 decimal places.
type PlayerAggregate struct {
	PlayerID      string    `json:"player_id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Sport         Sport     `json:"sport"`
	CoachID       string    `json:"coach_id,omitempty"`
	CurrentScore  int       `json:"current_score"`
	MatchCount    int       `json:"match_count"`
	TotalScore    float64   `json:"total_score"`
	AverageScore  float64   `json:"average_score"`
	LastMatchDate time.Time `json:"last_match_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeamOverview is a read-only rollup across all players assigned to a coach.
type TeamOverview struct {
	CoachID       string            `json:"coach_id"`
	PlayerCount   int               `json:"player_count"`
	TeamAverage   float64           `json:"team_average"`
	TopPerformer  *PlayerAggregate  `json:"top_performer,omitempty"`
	Players       []PlayerAggregate `json:"players"`
	RecentMatches []MatchRecord     `json:"recent_matches"`
}
