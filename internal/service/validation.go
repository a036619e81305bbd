package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/athlete-performance-service/internal/model"
)

// Per-sport parameter schemas. Range bounds live in validate tags; the param
// tag carries the wire name so violations are reported against the field the
// caller actually sent.
type cricketSchema struct {
	RunsScored   float64 `param:"runsScored" validate:"gte=0,lte=500"`
	BallsFaced   float64 `param:"ballsFaced" validate:"gte=0,lte=600"`
	WicketsTaken float64 `param:"wicketsTaken" validate:"gte=0,lte=10"`
	Catches      float64 `param:"catches" validate:"gte=0,lte=20"`
	OversBowled  float64 `param:"oversBowled" validate:"gte=0,lte=50"`
}

type footballSchema struct {
	GoalsScored     float64 `param:"goalsScored" validate:"gte=0,lte=20"`
	Assists         float64 `param:"assists" validate:"gte=0,lte=20"`
	PassesCompleted float64 `param:"passesCompleted" validate:"gte=0,lte=1000"`
	TacklesMade     float64 `param:"tacklesMade" validate:"gte=0,lte=50"`
	MinutesPlayed   float64 `param:"minutesPlayed" validate:"gte=0,lte=120"`
}

type basketballSchema struct {
	PointsScored  float64 `param:"pointsScored" validate:"gte=0,lte=100"`
	Rebounds      float64 `param:"rebounds" validate:"gte=0,lte=50"`
	Assists       float64 `param:"assists" validate:"gte=0,lte=30"`
	Steals        float64 `param:"steals" validate:"gte=0,lte=20"`
	MinutesPlayed float64 `param:"minutesPlayed" validate:"gte=0,lte=48"`
}

var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("param"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// validateStructure runs the precondition checks of match submission and
// reports every violation at once, not just the first.
func validateStructure(in model.MatchInput, now time.Time) []FieldError {
	var ferrs []FieldError
	if strings.TrimSpace(in.PlayerID) == "" {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must not be empty"})
	}
	if strings.TrimSpace(in.CoachID) == "" {
		ferrs = append(ferrs, FieldError{Field: "coach_id", Message: "must not be empty"})
	}
	if !in.Sport.Supported() {
		ferrs = append(ferrs, FieldError{Field: "sport", Message: "must be one of cricket, football, basketball"})
	}
	if in.Date.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must not be empty"})
	} else if in.Date.After(now) {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must not be in the future"})
	}
	if in.Parameters == nil {
		ferrs = append(ferrs, FieldError{Field: "parameters", Message: "must be present"})
	}
	return ferrs
}

// validateParams checks the parameter bag against the sport's numeric schema.
// Unknown keys are ignored; missing keys default to zero, which every schema
// accepts.
func validateParams(sport model.Sport, params model.Params) []FieldError {
	if params == nil {
		return nil // structural validation already reported this
	}
	var schema any
	switch sport {
	case model.SportCricket:
		schema = &cricketSchema{
			RunsScored:   params["runsScored"],
			BallsFaced:   params["ballsFaced"],
			WicketsTaken: params["wicketsTaken"],
			Catches:      params["catches"],
			OversBowled:  params["oversBowled"],
		}
	case model.SportFootball:
		schema = &footballSchema{
			GoalsScored:     params["goalsScored"],
			Assists:         params["assists"],
			PassesCompleted: params["passesCompleted"],
			TacklesMade:     params["tacklesMade"],
			MinutesPlayed:   params["minutesPlayed"],
		}
	case model.SportBasketball:
		schema = &basketballSchema{
			PointsScored:  params["pointsScored"],
			Rebounds:      params["rebounds"],
			Assists:       params["assists"],
			Steals:        params["steals"],
			MinutesPlayed: params["minutesPlayed"],
		}
	default:
		return nil // structural validation already reported this
	}

	err := schemaValidator.Struct(schema)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "parameters", Message: err.Error()}}
	}
	ferrs := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		ferrs = append(ferrs, FieldError{
			Field:   ve.Field(),
			Message: fmt.Sprintf("must satisfy %s=%s", ve.Tag(), ve.Param()),
		})
	}
	return ferrs
}
