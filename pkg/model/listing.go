package model

import "strings"

// Range is a half-open pagination window [Lo, Hi) over an ordered listing
// result; callers page by advancing Lo (spec §4.4).
type Range struct {
	Lo int
	Hi int
}

func (r Range) apply(ids []int64) []int64 {
	lo, hi := r.Lo, r.Hi
	if lo < 0 {
		lo = 0
	}
	if hi > len(ids) || hi == 0 {
		hi = len(ids)
	}
	if lo >= hi {
		return nil
	}
	return ids[lo:hi]
}

// OrderDirection is the direction a listing is sorted in.
type OrderDirection string

const (
	Asc  OrderDirection = "asc"
	Desc OrderDirection = "desc"
)

// maxCodepoint sorts last in ascending order; used as the stand-in for a
// missing secondary sort value (e.g. a Component with no ComponentVersion),
// per spec §4.4.
const maxCodepoint = "\U0010FFFF"

// ComponentFilter is one disjunct of a Component listing filter: all three
// fields are ANDed together, empty string means "do not constrain". The
// overall filters argument to GetList/GetCount is a slice of these,
// OR'd together; a nil/empty slice means "no constraint" (spec §4.4).
type ComponentFilter struct {
	NameSubstring string
	TypeName      string
	VersionName   string
}

func (f ComponentFilter) matches(name, typeName, versionName string) bool {
	if f.NameSubstring != "" && !strings.Contains(name, f.NameSubstring) {
		return false
	}
	if f.TypeName != "" && typeName != f.TypeName {
		return false
	}
	if f.VersionName != "" && versionName != f.VersionName {
		return false
	}
	return true
}

func matchesAnyFilter(filters []ComponentFilter, name, typeName, versionName string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if f.matches(name, typeName, versionName) {
			return true
		}
	}
	return false
}
