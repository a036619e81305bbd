package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/maxviazov/athlete-performance-service/internal/model"
	"github.com/maxviazov/athlete-performance-service/internal/recommend"
	"github.com/maxviazov/athlete-performance-service/internal/scoring"
	"github.com/maxviazov/athlete-performance-service/internal/store"
)

const (
	recentScoresWindow = 10
	overviewMatchLimit = 10
	overviewCacheTTL   = 5 * time.Second
)

type matchService struct {
	st     store.Store
	engine *recommend.Engine
	// Dashboards re-request the overview on every live update; a short TTL
	// absorbs those bursts without serving stale data for long.
	overviews *gocache.Cache
	log       zerolog.Logger
}

// NewMatchService wires the orchestrator with its collaborators.
func NewMatchService(st store.Store, engine *recommend.Engine, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{
		st:        st,
		engine:    engine,
		overviews: gocache.New(overviewCacheTTL, time.Minute),
		log:       l,
	}
}

func (s *matchService) SubmitMatch(ctx context.Context, in model.MatchInput) (model.MatchRecord, error) {
	start := time.Now()

	// Step 1: structural validation, every violation reported at once.
	if err := NewInvalidInputError(validateStructure(in, time.Now())); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Str("player_id", in.PlayerID).Msg("match validation failed")
		return model.MatchRecord{}, err
	}
	// Step 2: sport parameter ranges.
	if err := NewInvalidInputError(validateParams(in.Sport, in.Parameters)); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Str("sport", string(in.Sport)).Msg("parameter validation failed")
		return model.MatchRecord{}, err
	}

	// Step 3: score.
	score, err := scoring.Calculate(in.Sport, in.Parameters)
	if err != nil {
		return model.MatchRecord{}, NewInvalidInputError([]FieldError{{Field: "parameters", Message: err.Error()}})
	}

	// Step 4: recent score history for trend analysis.
	recent, err := s.recentScores(ctx, in)
	if err != nil {
		return model.MatchRecord{}, err
	}

	// Step 5: recommendations, derived together with the score.
	rec := s.engine.Recommend(score, in.Sport, in.Parameters, recent)

	record := model.MatchRecord{
		PlayerID:           in.PlayerID,
		PlayerEmail:        strings.TrimSpace(in.PlayerEmail),
		CoachID:            in.CoachID,
		Sport:              in.Sport,
		Parameters:         in.Parameters,
		Date:               in.Date,
		CalculatedScore:    score,
		Suggestions:        suggestionMessages(rec.Suggestions),
		RestRecommendation: rec.Rest,
	}

	// Step 6: persist the complete record.
	id, err := s.st.Create(ctx, CollectionMatches, encodeMatch(record), "")
	if err != nil {
		s.log.Error().Err(err).Str("player_id", in.PlayerID).Msg("persist match failed")
		return model.MatchRecord{}, err
	}
	record.ID = id

	// Step 7: incremental aggregate update. Not transactional with step 6;
	// on failure the match stays persisted and the aggregate can be rebuilt
	// via RecomputeAggregate.
	if err := s.bumpAggregate(ctx, in, score); err != nil {
		s.log.Error().Err(err).Str("player_id", in.PlayerID).Str("match_id", id).Msg("aggregate update failed after match persisted")
		return record, err
	}

	s.overviews.Delete(in.CoachID)
	s.log.Info().Dur("took", time.Since(start)).Str("match_id", id).Int("score", score).Msg("match submitted")
	return record, nil
}

// recentScores fetches up to the 10 most recent prior matches for the player,
// most recent first. Matching by the durable email address is preferred; an
// empty result falls back to the internal id.
func (s *matchService) recentScores(ctx context.Context, in model.MatchInput) ([]int, error) {
	opts := store.QueryOptions{OrderBy: FieldDate, Descending: true, Limit: recentScoresWindow}
	var docs []store.Document
	var err error
	if email := strings.TrimSpace(in.PlayerEmail); email != "" {
		docs, err = s.st.Query(ctx, CollectionMatches,
			[]store.Filter{{Field: FieldPlayerEmail, Op: store.OpEqual, Value: email}}, opts)
		if err != nil {
			return nil, err
		}
	}
	if len(docs) == 0 {
		docs, err = s.st.Query(ctx, CollectionMatches,
			[]store.Filter{{Field: FieldPlayerID, Op: store.OpEqual, Value: in.PlayerID}}, opts)
		if err != nil {
			return nil, err
		}
	}
	scores := make([]int, 0, len(docs))
	for _, d := range docs {
		scores = append(scores, asInt(d.Data[FieldScore]))
	}
	return scores, nil
}

// bumpAggregate applies the incremental statistics update for one new match,
// creating the aggregate row implicitly on a player's first match.
func (s *matchService) bumpAggregate(ctx context.Context, in model.MatchInput, score int) error {
	now := time.Now().UTC()
	doc, err := s.st.Read(ctx, CollectionPlayers, in.PlayerID)
	if errors.Is(err, store.ErrNotFound) {
		agg := model.PlayerAggregate{
			PlayerID:      in.PlayerID,
			Name:          in.PlayerName,
			Email:         strings.TrimSpace(in.PlayerEmail),
			Sport:         in.Sport,
			CoachID:       in.CoachID,
			CurrentScore:  score,
			MatchCount:    1,
			TotalScore:    float64(score),
			AverageScore:  round2(float64(score)),
			LastMatchDate: now,
		}
		_, err = s.st.Create(ctx, CollectionPlayers, encodeAggregate(agg), in.PlayerID)
		return err
	}
	if err != nil {
		return err
	}

	agg := DecodeAggregate(*doc)
	agg.MatchCount++
	agg.TotalScore += float64(score)
	agg.AverageScore = round2(agg.TotalScore / float64(agg.MatchCount))
	agg.CurrentScore = score
	agg.LastMatchDate = now

	patch := map[string]any{
		"current_score":   agg.CurrentScore,
		"match_count":     agg.MatchCount,
		"total_score":     agg.TotalScore,
		"average_score":   agg.AverageScore,
		"last_match_date": agg.LastMatchDate,
	}
	if agg.CoachID == "" && in.CoachID != "" {
		patch[FieldCoachID] = in.CoachID
	}
	return s.st.Update(ctx, CollectionPlayers, in.PlayerID, patch)
}

func (s *matchService) GetMatch(ctx context.Context, id string) (model.MatchRecord, error) {
	if strings.TrimSpace(id) == "" {
		return model.MatchRecord{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	doc, err := s.st.Read(ctx, CollectionMatches, id)
	if err != nil {
		return model.MatchRecord{}, err
	}
	return DecodeMatch(*doc), nil
}

// DeleteMatch removes the record and rebuilds the owning player's aggregate
// from the complete remaining set. A full recompute, not an incremental
// subtraction, so prior partial failures cannot accumulate drift.
func (s *matchService) DeleteMatch(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	doc, err := s.st.Read(ctx, CollectionMatches, id)
	if err != nil {
		return err
	}
	m := DecodeMatch(*doc)
	if err := s.st.Delete(ctx, CollectionMatches, id); err != nil {
		return err
	}
	if _, err := s.RecomputeAggregate(ctx, m.PlayerID); err != nil {
		s.log.Error().Err(err).Str("player_id", m.PlayerID).Msg("aggregate recompute failed after delete")
		return err
	}
	s.overviews.Delete(m.CoachID)
	s.log.Info().Str("match_id", id).Str("player_id", m.PlayerID).Msg("match deleted")
	return nil
}

func (s *matchService) ListRecentMatches(ctx context.Context, playerID string, limit int) ([]model.MatchRecord, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, NewInvalidInputError([]FieldError{{Field: "player_id", Message: "must not be empty"}})
	}
	if limit <= 0 {
		limit = recentScoresWindow
	}
	docs, err := s.st.Query(ctx, CollectionMatches,
		[]store.Filter{{Field: FieldPlayerID, Op: store.OpEqual, Value: playerID}},
		store.QueryOptions{OrderBy: FieldDate, Descending: true, Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]model.MatchRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, DecodeMatch(d))
	}
	return out, nil
}

func (s *matchService) GetPlayerAggregate(ctx context.Context, playerID string) (model.PlayerAggregate, error) {
	if strings.TrimSpace(playerID) == "" {
		return model.PlayerAggregate{}, NewInvalidInputError([]FieldError{{Field: "player_id", Message: "must not be empty"}})
	}
	doc, err := s.st.Read(ctx, CollectionPlayers, playerID)
	if err != nil {
		return model.PlayerAggregate{}, err
	}
	return DecodeAggregate(*doc), nil
}

// RecomputeAggregate rebuilds the running statistics from every persisted
// match of the player. The result depends only on the match set, never on
// the aggregate's prior state.
func (s *matchService) RecomputeAggregate(ctx context.Context, playerID string) (model.PlayerAggregate, error) {
	if strings.TrimSpace(playerID) == "" {
		return model.PlayerAggregate{}, NewInvalidInputError([]FieldError{{Field: "player_id", Message: "must not be empty"}})
	}
	docs, err := s.st.Query(ctx, CollectionMatches,
		[]store.Filter{{Field: FieldPlayerID, Op: store.OpEqual, Value: playerID}},
		store.QueryOptions{OrderBy: FieldDate, Descending: true})
	if err != nil {
		return model.PlayerAggregate{}, err
	}

	var total float64
	for _, d := range docs {
		total += float64(asInt(d.Data[FieldScore]))
	}
	patch := map[string]any{
		"match_count": len(docs),
		"total_score": total,
	}
	if len(docs) > 0 {
		latest := DecodeMatch(docs[0])
		patch["average_score"] = round2(total / float64(len(docs)))
		patch["current_score"] = latest.CalculatedScore
		patch["last_match_date"] = latest.Date
	} else {
		patch["average_score"] = 0.0
		patch["current_score"] = 0
		patch["last_match_date"] = time.Time{}
	}

	if err := s.st.Update(ctx, CollectionPlayers, playerID, patch); err != nil {
		// Matches can exist without an aggregate row when data was seeded
		// outside SubmitMatch; the rebuild creates the row instead of failing.
		if !errors.Is(err, store.ErrNotFound) || len(docs) == 0 {
			return model.PlayerAggregate{}, err
		}
		latest := DecodeMatch(docs[0])
		patch[FieldPlayerID] = playerID
		patch[FieldCoachID] = latest.CoachID
		patch["sport"] = string(latest.Sport)
		patch["email"] = latest.PlayerEmail
		if _, err := s.st.Create(ctx, CollectionPlayers, patch, playerID); err != nil {
			return model.PlayerAggregate{}, err
		}
	}
	doc, err := s.st.Read(ctx, CollectionPlayers, playerID)
	if err != nil {
		return model.PlayerAggregate{}, err
	}
	return DecodeAggregate(*doc), nil
}

// TeamOverview rolls up every player assigned to the coach. Ties on equal
// average scores resolve to the lexicographically smaller player id so the
// result does not depend on iteration order.
func (s *matchService) TeamOverview(ctx context.Context, coachID string) (model.TeamOverview, error) {
	if strings.TrimSpace(coachID) == "" {
		return model.TeamOverview{}, NewInvalidInputError([]FieldError{{Field: "coach_id", Message: "must not be empty"}})
	}
	if cached, ok := s.overviews.Get(coachID); ok {
		return cached.(model.TeamOverview), nil
	}

	playerDocs, err := s.st.Query(ctx, CollectionPlayers,
		[]store.Filter{{Field: FieldCoachID, Op: store.OpEqual, Value: coachID}},
		store.QueryOptions{})
	if err != nil {
		return model.TeamOverview{}, err
	}

	ov := model.TeamOverview{CoachID: coachID, Players: make([]model.PlayerAggregate, 0, len(playerDocs))}
	var sum float64
	for _, d := range playerDocs {
		agg := DecodeAggregate(d)
		ov.Players = append(ov.Players, agg)
		sum += agg.AverageScore
		if ov.TopPerformer == nil ||
			agg.AverageScore > ov.TopPerformer.AverageScore ||
			(agg.AverageScore == ov.TopPerformer.AverageScore && agg.PlayerID < ov.TopPerformer.PlayerID) {
			top := agg
			ov.TopPerformer = &top
		}
	}
	ov.PlayerCount = len(ov.Players)
	if ov.PlayerCount > 0 {
		ov.TeamAverage = round2(sum / float64(ov.PlayerCount))
	}

	matchDocs, err := s.st.Query(ctx, CollectionMatches,
		[]store.Filter{{Field: FieldCoachID, Op: store.OpEqual, Value: coachID}},
		store.QueryOptions{OrderBy: FieldDate, Descending: true, Limit: overviewMatchLimit})
	if err != nil {
		return model.TeamOverview{}, err
	}
	ov.RecentMatches = make([]model.MatchRecord, 0, len(matchDocs))
	for _, d := range matchDocs {
		ov.RecentMatches = append(ov.RecentMatches, DecodeMatch(d))
	}

	s.overviews.SetDefault(coachID, ov)
	return ov, nil
}

func suggestionMessages(sugs []model.Suggestion) []string {
	out := make([]string, 0, len(sugs))
	for _, sg := range sugs {
		out = append(out, sg.Message)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ MatchService = (*matchService)(nil)
