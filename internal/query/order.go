package query

import "sort"

// Sort orders items in place according to clauses (already parsed
// order_by entries) followed by tiebreak (deterministic tie-breakers
// appended after any user-specified ordering, e.g. experiment id ASC or
// run id ASC). Absent/null values always sort last regardless of
// direction, per the "Nulls sort last" rule.
func Sort[T any](items []T, clauses []OrderClause, tiebreak OrderClause, valueOf func(T, Field) Value) {
	all := make([]OrderClause, 0, len(clauses)+1)
	all = append(all, clauses...)
	all = append(all, tiebreak)

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		for _, c := range all {
			va := valueOf(a, c.Field)
			vb := valueOf(b, c.Field)
			cmp := compareValues(va, vb)
			if cmp == 0 {
				continue
			}
			if !va.Present || !vb.Present {
				// Absent sorts last regardless of direction: if
				// exactly one side is absent, compareValues already
				// placed it last ascending; flip only when the
				// present side needs to come first under DESC but the
				// absent side must still trail.
				if va.Present && !vb.Present {
					return true
				}
				if !va.Present && vb.Present {
					return false
				}
			}
			if c.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareValues returns -1/0/1 comparing a to b, treating an absent
// value as greater than any present value (so ascending sort naturally
// trails it, and the DESC branch above corrects for direction).
func compareValues(a, b Value) int {
	if !a.Present && !b.Present {
		return 0
	}
	if !a.Present {
		return 1
	}
	if !b.Present {
		return -1
	}
	if a.IsString != b.IsString {
		// Mixed types should not occur for a single field across a
		// result set; treat strings as greater for determinism.
		if a.IsString {
			return 1
		}
		return -1
	}
	if a.IsString {
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a.Num < b.Num:
		return -1
	case a.Num > b.Num:
		return 1
	default:
		return 0
	}
}
