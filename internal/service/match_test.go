package service

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/athlete-performance-service/internal/model"
	"github.com/maxviazov/athlete-performance-service/internal/recommend"
	"github.com/maxviazov/athlete-performance-service/internal/store"
	"github.com/maxviazov/athlete-performance-service/internal/store/memory"
)

func newTestService(t *testing.T) (MatchService, *memory.Store) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	st := memory.New(logger)
	svc := NewMatchService(st, recommend.NewWithSource(rand.NewSource(1)), logger)
	return svc, st
}

func validInput(playerID string) model.MatchInput {
	return model.MatchInput{
		PlayerID:    playerID,
		PlayerEmail: playerID + "@club.test",
		PlayerName:  "Test Player",
		CoachID:     "coach-1",
		Sport:       model.SportBasketball,
		Parameters:  model.Params{"pointsScored": 30, "rebounds": 5, "assists": 4, "steals": 2, "minutesPlayed": 36},
		Date:        time.Now().Add(-time.Hour),
	}
}

func TestSubmitMatch_StructuralValidation(t *testing.T) {
	svc, _ := newTestService(t)

	in := model.MatchInput{
		PlayerID:   "",
		CoachID:    "coach-1",
		Sport:      "tennis",
		Parameters: model.Params{},
		Date:       time.Now().Add(time.Hour),
	}
	_, err := svc.SubmitMatch(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want invalid input, got %v", err)
	}

	// All three violations reported simultaneously.
	fields := map[string]bool{}
	for _, fe := range FieldErrors(err) {
		fields[fe.Field] = true
	}
	for _, f := range []string{"player_id", "sport", "date"} {
		if !fields[f] {
			t.Fatalf("field %s not reported; got %v", f, FieldErrors(err))
		}
	}
}

func TestSubmitMatch_ParamRanges(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput("p1")
	in.Sport = model.SportCricket
	in.Parameters = model.Params{"runsScored": 600, "ballsFaced": 700, "wicketsTaken": 3}
	_, err := svc.SubmitMatch(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want invalid input, got %v", err)
	}
	fields := map[string]bool{}
	for _, fe := range FieldErrors(err) {
		fields[fe.Field] = true
	}
	if !fields["runsScored"] || !fields["ballsFaced"] {
		t.Fatalf("out-of-range params not all reported: %v", FieldErrors(err))
	}
}

func TestSubmitMatch_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	record, err := svc.SubmitMatch(ctx, validInput("p1"))
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.GreaterOrEqual(t, record.CalculatedScore, 0)
	require.LessOrEqual(t, record.CalculatedScore, 100)
	require.NotEmpty(t, record.Suggestions)
	require.NotZero(t, record.RestRecommendation.Hours)

	agg, err := svc.GetPlayerAggregate(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, agg.MatchCount)
	require.Equal(t, record.CalculatedScore, agg.CurrentScore)
	require.Equal(t, float64(record.CalculatedScore), agg.TotalScore)

	// A second submission increments the count by exactly one and recomputes
	// the average to 2-decimal precision.
	in2 := validInput("p1")
	in2.Parameters = model.Params{"pointsScored": 10, "rebounds": 1, "minutesPlayed": 20}
	record2, err := svc.SubmitMatch(ctx, in2)
	require.NoError(t, err)

	agg, err = svc.GetPlayerAggregate(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, agg.MatchCount)
	total := float64(record.CalculatedScore + record2.CalculatedScore)
	require.Equal(t, total, agg.TotalScore)
	require.InDelta(t, total/2, agg.AverageScore, 0.005)
	require.Equal(t, record2.CalculatedScore, agg.CurrentScore)
}

func TestSubmitMatch_DerivedFieldsComplete(t *testing.T) {
	svc, _ := newTestService(t)
	record, err := svc.SubmitMatch(context.Background(), validInput("p2"))
	require.NoError(t, err)

	got, err := svc.GetMatch(context.Background(), record.ID)
	require.NoError(t, err)
	// Score, suggestions and rest recommendation persist together.
	require.Equal(t, record.CalculatedScore, got.CalculatedScore)
	require.Equal(t, record.Suggestions, got.Suggestions)
	require.Equal(t, record.RestRecommendation, got.RestRecommendation)
}

func TestDeleteMatch_RecomputesFromScratch(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	var records []model.MatchRecord
	for _, pts := range []float64{30, 20, 10} {
		in := validInput("p3")
		in.Parameters = model.Params{"pointsScored": pts, "minutesPlayed": 30}
		r, err := svc.SubmitMatch(ctx, in)
		require.NoError(t, err)
		records = append(records, r)
	}

	// Inject drift into the aggregate; the delete-triggered recompute must
	// erase it regardless of prior state.
	require.NoError(t, st.Update(ctx, CollectionPlayers, "p3", map[string]any{
		"total_score": 9999.0, "match_count": 42,
	}))

	require.NoError(t, svc.DeleteMatch(ctx, records[1].ID))

	agg, err := svc.GetPlayerAggregate(ctx, "p3")
	require.NoError(t, err)
	require.Equal(t, 2, agg.MatchCount)
	want := float64(records[0].CalculatedScore + records[2].CalculatedScore)
	require.Equal(t, want, agg.TotalScore)
	require.InDelta(t, want/2, agg.AverageScore, 0.005)
}

func TestDeleteMatch_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.DeleteMatch(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecomputeAggregate_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitMatch(ctx, validInput("p4"))
		require.NoError(t, err)
	}
	first, err := svc.RecomputeAggregate(ctx, "p4")
	require.NoError(t, err)
	second, err := svc.RecomputeAggregate(ctx, "p4")
	require.NoError(t, err)

	require.Equal(t, first.MatchCount, second.MatchCount)
	require.Equal(t, first.TotalScore, second.TotalScore)
	require.Equal(t, first.AverageScore, second.AverageScore)
	require.Equal(t, first.CurrentScore, second.CurrentScore)
}

func TestRecomputeAggregate_CreatesMissingRow(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	// Matches seeded directly into the store, so no aggregate row exists yet.
	base := time.Now().Add(-time.Hour)
	for i, score := range []int{60, 80} {
		rec := model.MatchRecord{
			PlayerID:        "seeded",
			CoachID:         "coach-9",
			Sport:           model.SportBasketball,
			Date:            base.Add(time.Duration(i) * time.Minute),
			CalculatedScore: score,
		}
		_, err := st.Create(ctx, CollectionMatches, encodeMatch(rec), "")
		require.NoError(t, err)
	}

	agg, err := svc.RecomputeAggregate(ctx, "seeded")
	require.NoError(t, err)
	require.Equal(t, 2, agg.MatchCount)
	require.Equal(t, 140.0, agg.TotalScore)
	require.Equal(t, 70.0, agg.AverageScore)
	require.Equal(t, 80, agg.CurrentScore)
	require.Equal(t, "coach-9", agg.CoachID)

	// DeleteMatch rides on the same rebuild and must work on seeded data too.
	matches, err := svc.ListRecentMatches(ctx, "seeded", 10)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteMatch(ctx, matches[0].ID))

	agg, err = svc.GetPlayerAggregate(ctx, "seeded")
	require.NoError(t, err)
	require.Equal(t, 1, agg.MatchCount)
	require.Equal(t, 60, agg.CurrentScore)
}

func TestRecomputeAggregate_UnknownPlayer(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecomputeAggregate(context.Background(), "ghost")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound for player with no matches and no row, got %v", err)
	}
}

func TestListRecentMatches_OrderAndLimit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 12; i++ {
		in := validInput("p5")
		in.Date = base.Add(time.Duration(i) * time.Hour)
		_, err := svc.SubmitMatch(ctx, in)
		require.NoError(t, err)
	}

	got, err := svc.ListRecentMatches(ctx, "p5", 10)
	require.NoError(t, err)
	require.Len(t, got, 10)
	for i := 1; i < len(got); i++ {
		require.False(t, got[i].Date.After(got[i-1].Date), "matches must be date descending")
	}
}

func TestTeamOverview(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	submit := func(playerID string, pts float64) {
		in := validInput(playerID)
		in.Parameters = model.Params{"pointsScored": pts, "minutesPlayed": 40}
		_, err := svc.SubmitMatch(ctx, in)
		require.NoError(t, err)
	}
	submit("pa", 40)
	submit("pb", 10)
	submit("pc", 25)

	ov, err := svc.TeamOverview(ctx, "coach-1")
	require.NoError(t, err)
	require.Equal(t, 3, ov.PlayerCount)
	require.NotNil(t, ov.TopPerformer)
	require.Equal(t, "pa", ov.TopPerformer.PlayerID)
	require.NotEmpty(t, ov.RecentMatches)

	var sum float64
	for _, p := range ov.Players {
		sum += p.AverageScore
	}
	require.InDelta(t, sum/3, ov.TeamAverage, 0.005)
}

func TestTeamOverview_TieBreakIsStable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Identical parameters produce identical averages; the smaller id wins.
	for _, id := range []string{"pz", "pa", "pm"} {
		_, err := svc.SubmitMatch(ctx, validInput(id))
		require.NoError(t, err)
	}
	ov, err := svc.TeamOverview(ctx, "coach-1")
	require.NoError(t, err)
	require.NotNil(t, ov.TopPerformer)
	require.Equal(t, "pa", ov.TopPerformer.PlayerID)
}

func TestRecentScores_EmailFallbackToID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// First match carries no email; history lookup for the second must still
	// find it via the internal id fallback.
	in := validInput("p6")
	in.PlayerEmail = ""
	_, err := svc.SubmitMatch(ctx, in)
	require.NoError(t, err)

	in2 := validInput("p6")
	in2.PlayerEmail = "fresh@club.test"
	_, err = svc.SubmitMatch(ctx, in2)
	require.NoError(t, err)

	agg, err := svc.GetPlayerAggregate(ctx, "p6")
	require.NoError(t, err)
	require.Equal(t, 2, agg.MatchCount)
}

func TestGetMatch_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetMatch(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
