package service

import (
	"time"

	"github.com/maxviazov/athlete-performance-service/internal/model"
	"github.com/maxviazov/athlete-performance-service/internal/store"
)

// Collection names in the document store.
const (
	CollectionMatches = "matches"
	CollectionPlayers = "players"
)

// Document field names shared between the write path and the sync manager's
// watch filters. Keep them in one place so queries and payloads never drift.
const (
	FieldPlayerID    = "player_id"
	FieldPlayerEmail = "player_email"
	FieldCoachID     = "coach_id"
	FieldDate        = "date"
	FieldScore       = "calculated_score"
)

func encodeMatch(m model.MatchRecord) map[string]any {
	return map[string]any{
		FieldPlayerID:    m.PlayerID,
		FieldPlayerEmail: m.PlayerEmail,
		FieldCoachID:     m.CoachID,
		"sport":          string(m.Sport),
		"parameters":     map[string]float64(m.Parameters),
		FieldDate:        m.Date,
		FieldScore:       m.CalculatedScore,
		"suggestions":    m.Suggestions,
		"rest_recommendation": map[string]any{
			"hours":       m.RestRecommendation.Hours,
			"description": m.RestRecommendation.Description,
		},
	}
}

func DecodeMatch(doc store.Document) model.MatchRecord {
	d := doc.Data
	m := model.MatchRecord{
		ID:              doc.ID,
		PlayerID:        asString(d[FieldPlayerID]),
		PlayerEmail:     asString(d[FieldPlayerEmail]),
		CoachID:         asString(d[FieldCoachID]),
		Sport:           model.Sport(asString(d["sport"])),
		Date:            asTime(d[FieldDate]),
		CalculatedScore: asInt(d[FieldScore]),
		Suggestions:     asStringSlice(d["suggestions"]),
		CreatedAt:       asTime(d["created_at"]),
		UpdatedAt:       asTime(d["updated_at"]),
	}
	if params, ok := d["parameters"].(map[string]float64); ok {
		m.Parameters = model.Params(params)
	}
	if rest, ok := d["rest_recommendation"].(map[string]any); ok {
		m.RestRecommendation = model.RestRecommendation{
			Hours:       asInt(rest["hours"]),
			Description: asString(rest["description"]),
		}
	}
	return m
}

func encodeAggregate(a model.PlayerAggregate) map[string]any {
	return map[string]any{
		FieldPlayerID:     a.PlayerID,
		"name":            a.Name,
		"email":           a.Email,
		"sport":           string(a.Sport),
		FieldCoachID:      a.CoachID,
		"current_score":   a.CurrentScore,
		"match_count":     a.MatchCount,
		"total_score":     a.TotalScore,
		"average_score":   a.AverageScore,
		"last_match_date": a.LastMatchDate,
	}
}

func DecodeAggregate(doc store.Document) model.PlayerAggregate {
	d := doc.Data
	return model.PlayerAggregate{
		PlayerID:      asString(d[FieldPlayerID]),
		Name:          asString(d["name"]),
		Email:         asString(d["email"]),
		Sport:         model.Sport(asString(d["sport"])),
		CoachID:       asString(d[FieldCoachID]),
		CurrentScore:  asInt(d["current_score"]),
		MatchCount:    asInt(d["match_count"]),
		TotalScore:    asFloat(d["total_score"]),
		AverageScore:  asFloat(d["average_score"]),
		LastMatchDate: asTime(d["last_match_date"]),
		CreatedAt:     asTime(d["created_at"]),
		UpdatedAt:     asTime(d["updated_at"]),
	}
}

// Decoded documents do not preserve the exact Go numeric type across store
// implementations, so these helpers coerce defensively instead of asserting.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			out = append(out, asString(e))
		}
		return out
	}
	return nil
}
