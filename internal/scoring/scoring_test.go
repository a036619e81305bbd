package scoring

import (
	"errors"
	"testing"

	"github.com/maxviazov/athlete-performance-service/internal/model"
)

func TestCalculate_BoundsAndIntegrality(t *testing.T) {
	cases := []struct {
		name   string
		sport  model.Sport
		params model.Params
	}{
		{"cricket zeroes", model.SportCricket, model.Params{}},
		{"cricket big innings", model.SportCricket, model.Params{"runsScored": 200, "ballsFaced": 100, "wicketsTaken": 10, "catches": 20, "oversBowled": 10}},
		{"football quiet match", model.SportFootball, model.Params{"minutesPlayed": 90}},
		{"football hat-trick", model.SportFootball, model.Params{"goalsScored": 3, "assists": 2, "passesCompleted": 80, "tacklesMade": 4, "minutesPlayed": 90}},
		{"basketball bench minutes", model.SportBasketball, model.Params{"pointsScored": 4, "minutesPlayed": 8}},
		{"basketball full game", model.SportBasketball, model.Params{"pointsScored": 60, "rebounds": 20, "assists": 15, "steals": 6, "minutesPlayed": 48}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Calculate(tc.sport, tc.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got < 0 || got > 100 {
				t.Fatalf("score out of range: %d", got)
			}
		})
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	if _, err := Calculate(model.SportCricket, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for nil params, got %v", err)
	}
	if _, err := Calculate("tennis", model.Params{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for unsupported sport, got %v", err)
	}
}

func TestCalculate_Cricket(t *testing.T) {
	// Strike rate maxes the batting component; weights carry the rest.
	got, err := Calculate(model.SportCricket, model.Params{
		"runsScored": 100, "ballsFaced": 60, "wicketsTaken": 5, "catches": 5, "oversBowled": 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// batting 100, bowling 50, fielding 100 -> 0.5*100 + 0.3*50 + 0.2*100 = 85
	if got != 85 {
		t.Fatalf("want 85, got %d", got)
	}

	// Batting-only innings: only the 0.5 batting weight contributes.
	got, err = Calculate(model.SportCricket, model.Params{
		"runsScored": 100, "ballsFaced": 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 50 {
		t.Fatalf("want 50, got %d", got)
	}
}

func TestCalculate_Cricket_Fallbacks(t *testing.T) {
	// No balls faced but runs on the board: runsScored*10 fallback.
	got, err := Calculate(model.SportCricket, model.Params{"runsScored": 6, "ballsFaced": 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// batting = min(100, 60) = 60 -> 0.5*60 = 30
	if got != 30 {
		t.Fatalf("want 30, got %d", got)
	}

	// No overs bowled: wicketsTaken*25 fallback.
	got, err = Calculate(model.SportCricket, model.Params{"wicketsTaken": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bowling = min(100, 50) = 50 -> 0.3*50 = 15
	if got != 15 {
		t.Fatalf("want 15, got %d", got)
	}
}

func TestCalculate_Football(t *testing.T) {
	got, err := Calculate(model.SportFootball, model.Params{
		"goalsScored": 3, "assists": 0, "passesCompleted": 20, "tacklesMade": 0, "minutesPlayed": 90,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// goals 60 + passes 6.67 -> 67
	if got <= 50 {
		t.Fatalf("want > 50, got %d", got)
	}
	if got != 67 {
		t.Fatalf("want 67, got %d", got)
	}
}

func TestCalculate_Football_ZeroMinutes(t *testing.T) {
	// minutesPlayed falls back to 1 so nothing divides by zero.
	got, err := Calculate(model.SportFootball, model.Params{"passesCompleted": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0 || got > 100 {
		t.Fatalf("score out of range: %d", got)
	}
}

func TestCalculate_Basketball(t *testing.T) {
	got, err := Calculate(model.SportBasketball, model.Params{
		"pointsScored": 35, "rebounds": 2, "assists": 1, "steals": 0, "minutesPlayed": 36,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// points 38.73 + rebounds 6.67 + assists 4.17 -> 50
	if got <= 30 {
		t.Fatalf("want > 30, got %d", got)
	}
	if got != 50 {
		t.Fatalf("want 50, got %d", got)
	}
}
