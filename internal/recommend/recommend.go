// Package recommend derives rest guidance and coaching suggestions from a
// performance score, the raw match parameters and the player's recent score
// history. Pure apart from the bounded random draw for rest hours; the band
// is contractual, the exact value is not.
package recommend

import (
	"math"
	"math/rand"
	"time"

	"github.com/maxviazov/athlete-performance-service/internal/model"
)

// Trend classifies the recent score history.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
	TrendUnknown   Trend = ""
)

// Result bundles everything derived from one (score, sport, params, history)
// input. Rest, Suggestions and Trend are always produced together.
type Result struct {
	Rest        model.RestRecommendation
	Suggestions []model.Suggestion
	Trend       Trend
}

// Engine produces recommendations. The random source is injectable so tests
// can pin the rest-hour draw while asserting the band.
type Engine struct {
	rnd *rand.Rand
}

// New builds an engine with a time-seeded random source.
func New() *Engine {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource builds an engine drawing rest hours from the given source.
func NewWithSource(src rand.Source) *Engine {
	return &Engine{rnd: rand.New(src)}
}

// Recommend derives the rest window and the ordered suggestion list.
// Ordering: general score bucket first, then sport-specific suggestions in
// generation order, then the trend suggestion last.
func (e *Engine) Recommend(score int, sport model.Sport, params model.Params, recentScores []int) Result {
	res := Result{Rest: e.restFor(score)}

	res.Suggestions = append(res.Suggestions, generalSuggestion(score))
	res.Suggestions = append(res.Suggestions, sportSuggestions(sport, params)...)

	trend, sug, ok := trendSuggestion(recentScores)
	res.Trend = trend
	if ok {
		res.Suggestions = append(res.Suggestions, sug)
	}
	return res
}

// restFor draws a recovery window from the score-dependent band:
// <60 -> 48-72h, 60-79 -> 24-48h, >=80 -> 12-24h.
func (e *Engine) restFor(score int) model.RestRecommendation {
	switch {
	case score < 60:
		return model.RestRecommendation{
			Hours:       48 + e.rnd.Intn(25),
			Description: "Extended rest recommended to recover from a demanding outing.",
		}
	case score < 80:
		return model.RestRecommendation{
			Hours:       24 + e.rnd.Intn(25),
			Description: "Moderate rest recommended before the next training session.",
		}
	default:
		return model.RestRecommendation{
			Hours:       12 + e.rnd.Intn(13),
			Description: "Light rest is enough; you are in great shape.",
		}
	}
}

func generalSuggestion(score int) model.Suggestion {
	switch {
	case score >= 90:
		return model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityLow,
			Message: "Outstanding performance! Keep up the excellent work."}
	case score >= 80:
		return model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityLow,
			Message: "Very good performance. Small refinements can make it exceptional."}
	case score >= 70:
		return model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityMedium,
			Message: "Good performance with clear room for improvement."}
	case score >= 60:
		return model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityMedium,
			Message: "Average performance. Focus on consistency in training."}
	default:
		return model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityHigh,
			Message: "Performance needs improvement. Consider increasing practice intensity."}
	}
}

// sportSuggestions emits zero or more per-metric suggestions. Each threshold
// check is independent; unsupported sports emit nothing here.
func sportSuggestions(sport model.Sport, params model.Params) []model.Suggestion {
	if params == nil {
		return nil
	}
	var out []model.Suggestion
	switch sport {
	case model.SportCricket:
		if balls := params["ballsFaced"]; balls > 0 {
			if strikeRate := params["runsScored"] / balls * 100; strikeRate < 80 {
				out = append(out, model.Suggestion{Type: model.SuggestionTechnique, Priority: model.PriorityMedium,
					Message: "Improve batting technique to lift your strike rate."})
			}
		}
		if overs := params["oversBowled"]; overs > 0 && params["wicketsTaken"]/overs < 0.2 {
			out = append(out, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityMedium,
				Message: "Work on bowling accuracy and line-length discipline."})
		}
		if params["catches"] == 0 {
			out = append(out, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityLow,
				Message: "Spend extra time on catching drills."})
		}
	case model.SportFootball:
		minutes := math.Max(params["minutesPlayed"], 1)
		if params["passesCompleted"]/minutes < 0.5 {
			out = append(out, model.Suggestion{Type: model.SuggestionTechnique, Priority: model.PriorityMedium,
				Message: "Improve passing accuracy and ball distribution."})
		}
		if params["goalsScored"] == 0 {
			out = append(out, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityMedium,
				Message: "Work on finishing in front of goal."})
		}
		if params["tacklesMade"]/minutes < 0.02 {
			out = append(out, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityLow,
				Message: "Sharpen defensive positioning and tackling."})
		}
	case model.SportBasketball:
		minutes := math.Max(params["minutesPlayed"], 1)
		if params["pointsScored"]/minutes < 0.5 {
			out = append(out, model.Suggestion{Type: model.SuggestionTechnique, Priority: model.PriorityMedium,
				Message: "Work on shooting drills to raise scoring output."})
		}
		if params["rebounds"]/minutes < 0.1 {
			out = append(out, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityLow,
				Message: "Practice box-outs to improve rebounding."})
		}
		if params["assists"]/minutes < 0.05 {
			out = append(out, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityLow,
				Message: "Develop court vision and playmaking."})
		}
	}
	return out
}

// trendSuggestion compares the mean of the 3 most recent scores against the
// mean of the 3 before them. recentScores is most-recent-first; fewer than 6
// scores yields no trend suggestion.
func trendSuggestion(recentScores []int) (Trend, model.Suggestion, bool) {
	if len(recentScores) < 6 {
		return TrendUnknown, model.Suggestion{}, false
	}
	diff := mean(recentScores[:3]) - mean(recentScores[3:6])
	switch {
	case diff > 10:
		return TrendImproving, model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityLow,
			Message: "Excellent improvement across recent matches! Keep the momentum going."}, true
	case diff > 5:
		return TrendImproving, model.Suggestion{Type: model.SuggestionGeneral, Priority: model.PriorityLow,
			Message: "Good improvement trend. Stay on the current plan."}, true
	case diff < -10:
		return TrendDeclining, model.Suggestion{Type: model.SuggestionRest, Priority: model.PriorityHigh,
			Message: "Significant decline in recent performances. Review workload and recovery."}, true
	case diff < -5:
		return TrendDeclining, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityMedium,
			Message: "Slight decline over recent matches. Watch for fatigue and revisit fundamentals."}, true
	default:
		return TrendStable, model.Suggestion{Type: model.SuggestionTraining, Priority: model.PriorityMedium,
			Message: "Performance is consistent. Add new challenges to keep progressing."}, true
	}
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
