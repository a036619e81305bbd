package recommend

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/maxviazov/athlete-performance-service/internal/model"
)

func newTestEngine() *Engine { return NewWithSource(rand.NewSource(1)) }

func TestRestBands(t *testing.T) {
	cases := []struct {
		name     string
		score    int
		min, max int
	}{
		{"low score extended rest", 45, 48, 72},
		{"boundary 59", 59, 48, 72},
		{"mid score moderate rest", 60, 24, 48},
		{"boundary 79", 79, 24, 48},
		{"high score light rest", 80, 12, 24},
		{"top score light rest", 100, 12, 24},
	}
	e := newTestEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// The draw is random by design; only the band is contractual.
			for i := 0; i < 50; i++ {
				rest := e.restFor(tc.score)
				if rest.Hours < tc.min || rest.Hours > tc.max {
					t.Fatalf("hours %d outside band [%d,%d]", rest.Hours, tc.min, tc.max)
				}
				if rest.Description == "" {
					t.Fatalf("empty rest description")
				}
			}
		})
	}
}

func TestGeneralBuckets(t *testing.T) {
	cases := []struct {
		score    int
		contains string
	}{
		{95, "Outstanding"},
		{85, "Very good"},
		{75, "Good performance"},
		{65, "Average"},
		{40, "needs improvement"},
	}
	for _, tc := range cases {
		sug := generalSuggestion(tc.score)
		if !strings.Contains(sug.Message, tc.contains) {
			t.Fatalf("score %d: message %q does not contain %q", tc.score, sug.Message, tc.contains)
		}
		if sug.Type != model.SuggestionGeneral {
			t.Fatalf("score %d: want general type, got %s", tc.score, sug.Type)
		}
	}
}

func TestSportSuggestions_Cricket(t *testing.T) {
	// Low strike rate, wicketless bowling, no catches: all three thresholds fire.
	sugs := sportSuggestions(model.SportCricket, model.Params{
		"runsScored": 30, "ballsFaced": 60, "wicketsTaken": 0, "oversBowled": 10, "catches": 0,
	})
	if len(sugs) != 3 {
		t.Fatalf("want 3 suggestions, got %d: %+v", len(sugs), sugs)
	}

	// Strong all-round numbers: nothing fires.
	sugs = sportSuggestions(model.SportCricket, model.Params{
		"runsScored": 120, "ballsFaced": 80, "wicketsTaken": 3, "oversBowled": 10, "catches": 2,
	})
	if len(sugs) != 0 {
		t.Fatalf("want no suggestions, got %+v", sugs)
	}
}

func TestSportSuggestions_UnsupportedSportEmitsNothing(t *testing.T) {
	if sugs := sportSuggestions("tennis", model.Params{"aces": 10}); len(sugs) != 0 {
		t.Fatalf("want no sport suggestions, got %+v", sugs)
	}
}

func TestTrend(t *testing.T) {
	cases := []struct {
		name     string
		scores   []int // most-recent-first
		trend    Trend
		priority model.Priority
	}{
		{"strong improvement", []int{85, 80, 75, 70, 65, 60, 55}, TrendImproving, model.PriorityLow},
		{"mild improvement", []int{72, 70, 71, 65, 64, 63}, TrendImproving, model.PriorityLow},
		{"significant decline", []int{50, 60, 70, 80, 90, 95}, TrendDeclining, model.PriorityHigh},
		{"slight decline", []int{63, 64, 65, 70, 71, 69}, TrendDeclining, model.PriorityMedium},
		{"stable", []int{70, 71, 69, 70, 70, 71}, TrendStable, model.PriorityMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trend, sug, ok := trendSuggestion(tc.scores)
			if !ok {
				t.Fatalf("expected a trend suggestion")
			}
			if trend != tc.trend {
				t.Fatalf("want trend %q, got %q", tc.trend, trend)
			}
			if sug.Priority != tc.priority {
				t.Fatalf("want priority %q, got %q", tc.priority, sug.Priority)
			}
		})
	}
}

func TestTrend_NeedsSixScores(t *testing.T) {
	if trend, _, ok := trendSuggestion([]int{80, 70, 60, 50, 40}); ok || trend != TrendUnknown {
		t.Fatalf("want no trend for short history, got %q ok=%v", trend, ok)
	}
}

func TestRecommend_Ordering(t *testing.T) {
	e := newTestEngine()
	res := e.Recommend(55, model.SportCricket,
		model.Params{"runsScored": 30, "ballsFaced": 60, "oversBowled": 10, "catches": 0},
		[]int{50, 60, 70, 80, 90, 95})

	if len(res.Suggestions) < 3 {
		t.Fatalf("want general + sport + trend suggestions, got %+v", res.Suggestions)
	}
	if res.Suggestions[0].Type != model.SuggestionGeneral {
		t.Fatalf("general suggestion must come first, got %s", res.Suggestions[0].Type)
	}
	last := res.Suggestions[len(res.Suggestions)-1]
	if !strings.Contains(last.Message, "decline") {
		t.Fatalf("trend suggestion must come last, got %q", last.Message)
	}
	if res.Trend != TrendDeclining {
		t.Fatalf("want declining trend, got %q", res.Trend)
	}
}

func TestRecommend_RestMatchesScoreBand(t *testing.T) {
	e := newTestEngine()
	res := e.Recommend(92, model.SportBasketball, model.Params{"pointsScored": 40, "minutesPlayed": 40}, nil)
	if res.Rest.Hours < 12 || res.Rest.Hours > 24 {
		t.Fatalf("rest hours %d outside 12-24 band", res.Rest.Hours)
	}
}
