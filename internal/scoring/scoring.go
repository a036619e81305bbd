// Package scoring converts sport-specific raw match parameters into a
// normalized 0-100 performance score. Pure functions, no dependencies;
// the coefficients are part of the engine's contract and are asserted
// by fixtures in the tests.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/maxviazov/athlete-performance-service/internal/model"
)

// ErrInvalidInput marks a missing parameter bag or an unsupported sport.
var ErrInvalidInput = errors.New("scoring: invalid input")

// Calculate returns the rounded, clamped performance score for one match.
func Calculate(sport model.Sport, params model.Params) (int, error) {
	if params == nil {
		return 0, fmt.Errorf("%w: parameters missing", ErrInvalidInput)
	}
	var total float64
	switch sport {
	case model.SportCricket:
		total = cricketScore(params)
	case model.SportFootball:
		total = footballScore(params)
	case model.SportBasketball:
		total = basketballScore(params)
	default:
		return 0, fmt.Errorf("%w: unsupported sport %q", ErrInvalidInput, sport)
	}
	return int(math.Round(clamp(total, 0, 100))), nil
}

// cricketScore weights batting 50%, bowling 30%, fielding 20%.
func cricketScore(p model.Params) float64 {
	runs := p["runsScored"]
	balls := p["ballsFaced"]
	wickets := p["wicketsTaken"]
	catches := p["catches"]
	overs := p["oversBowled"]

	var batting float64
	if balls > 0 {
		strikeRate := runs / balls * 100
		batting = math.Min(100, strikeRate)
	} else if runs > 0 {
		batting = math.Min(100, runs*10)
	}

	var bowling float64
	if overs > 0 {
		bowling = math.Min(100, wickets/overs*100)
	} else {
		bowling = math.Min(100, wickets*25)
	}

	fielding := math.Min(100, catches*20)

	return 0.5*batting + 0.3*bowling + 0.2*fielding
}

// footballScore normalizes everything to a 90-minute rate.
func footballScore(p model.Params) float64 {
	minutes := math.Max(p["minutesPlayed"], 1)
	goalScore := p["goalsScored"] / minutes * 90 * 20
	assistScore := p["assists"] / minutes * 90 * 15
	passAccuracy := math.Min(30, p["passesCompleted"]/minutes*30)
	defenseScore := math.Min(20, p["tacklesMade"]/minutes*90*0.22)
	return goalScore + assistScore + passAccuracy + defenseScore
}

// basketballScore normalizes everything to a 48-minute rate.
func basketballScore(p model.Params) float64 {
	minutes := math.Max(p["minutesPlayed"], 1)
	pointScore := math.Min(40, p["pointsScored"]/minutes*48*0.83)
	reboundScore := math.Min(25, p["rebounds"]/minutes*48*2.5)
	assistScore := math.Min(25, p["assists"]/minutes*48*3.125)
	stealScore := math.Min(10, p["steals"]/minutes*48*5)
	return pointScore + reboundScore + assistScore + stealScore
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
