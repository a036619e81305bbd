package store

import "time"

// Compare orders two document field values. It understands numbers, strings,
// booleans and timestamps; ok is false when the values are not comparable.
// Numeric values compare across int/int64/float64 representations because
// decoded documents do not preserve the original Go type.
func Compare(a, b any) (cmp int, ok bool) {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	switch av := a.(type) {
	case string:
		bv, bok := b.(string)
		if !bok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case bool:
		bv, bok := b.(bool)
		if !bok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		bv, bok := b.(time.Time)
		if !bok {
			return 0, false
		}
		switch {
		case av.Before(bv):
			return -1, true
		case av.After(bv):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Matches evaluates one filter predicate against a document's data.
// Missing fields and incomparable values never match.
func Matches(data map[string]any, f Filter) bool {
	v, present := data[f.Field]
	if !present {
		return false
	}
	cmp, ok := Compare(v, f.Value)
	if !ok {
		// Equality on incomparable types still has a sane answer for "!=".
		return f.Op == OpNotEqual
	}
	switch f.Op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	default:
		return false
	}
}

// MatchesAll evaluates a conjunction of filters.
func MatchesAll(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !Matches(data, f) {
			return false
		}
	}
	return true
}
