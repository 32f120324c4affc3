package model

import "github.com/instrumentgraph/layoutdb/pkg/gateway"

// Timestamp is the four-field record attached to the start and end of every
// temporal edge: when the fact became true, who recorded it, when it was
// recorded, and free-text context.
type Timestamp struct {
	Time     int64
	UID      string
	EditTime int64
	Comments string
}

// OpenEnd is the sentinel end Timestamp for an interval that has not been
// closed yet.
func OpenEnd() Timestamp {
	return Timestamp{Time: gateway.IntervalOpen, EditTime: gateway.EditOpen}
}

// isOpenEdit reports whether this Timestamp represents an end that has
// never been recorded (as opposed to one later closed by a subsequent
// edit). Only open-edit rel_property edges are considered current history
// by get_all_properties_of_type.
func (t Timestamp) isOpenEdit() bool { return t.EditTime == gateway.EditOpen }

// after reports whether instant reaches this Timestamp when used as an
// upper bound, i.e. instant < t.Time, with IntervalOpen always satisfying it.
func (t Timestamp) after(instant int64) bool {
	return t.Time == gateway.IntervalOpen || instant < t.Time
}

func (t Timestamp) toAttrs(prefix string) map[string]any {
	return map[string]any{
		prefix + "_time":      t.Time,
		prefix + "_uid":       t.UID,
		prefix + "_edit_time": t.EditTime,
		prefix + "_comments":  t.Comments,
	}
}

func timestampFromAttrs(attrs map[string]any, prefix string) Timestamp {
	return Timestamp{
		Time:     toInt64Attr(attrs[prefix+"_time"]),
		UID:      toStringAttr(attrs[prefix+"_uid"]),
		EditTime: toInt64Attr(attrs[prefix+"_edit_time"]),
		Comments: toStringAttr(attrs[prefix+"_comments"]),
	}
}

func toInt64Attr(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toStringAttr(v any) string {
	s, _ := v.(string)
	return s
}

func toBoolAttr(v any) bool {
	b, _ := v.(bool)
	return b
}
