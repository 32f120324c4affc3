package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// PropertyEdge pairs a Property instance with the temporal interval over
// which a rel_property edge attached it to a Component.
type PropertyEdge struct {
	EdgeID   int64
	Property *Property
	Start    Timestamp
	End      Timestamp
	Active   bool
}

func (pe *PropertyEdge) contains(instant int64) bool {
	return pe.Start.Time <= instant && pe.End.after(instant)
}

// propertyEdges is fetched fresh from the gateway on every call rather than
// cached alongside the Component, since the edge set changes on every
// SetProperty/UnsetProperty/ReplaceProperty call.
func (comp *Component) propertyEdges(ctx context.Context, gw gateway.Gateway, c *cache.Cache, includeInactive bool) ([]*PropertyEdge, error) {
	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return nil, err
	}

	var out []*PropertyEdge
	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelProperty {
			continue
		}
		active := toBoolAttr(e.Attrs["active"])
		if !active && !includeInactive {
			continue
		}
		prop, err := PropertyFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		out = append(out, &PropertyEdge{
			EdgeID:   e.ID,
			Property: prop,
			Start:    timestampFromAttrs(e.Attrs, "start"),
			End:      timestampFromAttrs(e.Attrs, "end"),
			Active:   active,
		})
	}
	return out, nil
}

// GetProperty returns the at-most-one Property active at instant time for
// propType on this component, or nil if none. Returns an error if the
// uniqueness invariant (testable property 1) is violated.
func (comp *Component) GetProperty(ctx context.Context, gw gateway.Gateway, c *cache.Cache, propType *PropertyType, time int64) (*Property, error) {
	edges, err := comp.propertyEdges(ctx, gw, c, false)
	if err != nil {
		return nil, err
	}

	var matches []*PropertyEdge
	for _, pe := range edges {
		if pe.Property.Type.ID() != propType.ID() {
			continue
		}
		if pe.contains(time) {
			matches = append(matches, pe)
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("model: invariant violated: component %d has %d active properties of type %q at %d", comp.id, len(matches), propType.Name, time)
	}
	return matches[0].Property, nil
}

// GetAllPropertiesOfType returns every rel_property edge of propType
// overlapping [fromTime, toTime), ordered by start time ascending, whose
// end has not been superseded by a later edit (end_edit_time == EDIT_OPEN,
// spec §4.5 and glossary "Superseded edit").
func (comp *Component) GetAllPropertiesOfType(ctx context.Context, gw gateway.Gateway, c *cache.Cache, propType *PropertyType, fromTime, toTime int64) ([]*PropertyEdge, error) {
	edges, err := comp.propertyEdges(ctx, gw, c, false)
	if err != nil {
		return nil, err
	}

	var out []*PropertyEdge
	for _, pe := range edges {
		if pe.Property.Type.ID() != propType.ID() {
			continue
		}
		if !pe.End.isOpenEdit() {
			continue
		}
		if !intervalsOverlap(pe.Start.Time, pe.End.Time, fromTime, toTime) {
			continue
		}
		out = append(out, pe)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Time < out[j].Start.Time })
	return out, nil
}

// GetAllProperties returns every rel_property edge ever attached to this
// component, across all types and including history, for use by AsDict.
func (comp *Component) GetAllProperties(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*PropertyEdge, error) {
	return comp.propertyEdges(ctx, gw, c, true)
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && bStart < aEnd
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetProperty attaches a new Property vertex (a deep copy of prop) to this
// component starting at time, per the overlap policy in spec §4.5.
func (comp *Component) SetProperty(ctx context.Context, gw gateway.Gateway, c *cache.Cache, prop *Property, time int64, uid string, endTime int64, editTime int64, comments string, force bool) error {
	if !comp.Element.AddedToDB() {
		return ErrComponentNotAdded
	}
	if err := prop.Validate(); err != nil {
		return err
	}

	edges, err := comp.propertyEdges(ctx, gw, c, false)
	if err != nil {
		return err
	}

	var current *PropertyEdge
	var futures []*PropertyEdge
	for _, pe := range edges {
		if pe.Property.Type.ID() != prop.Type.ID() {
			continue
		}
		if pe.contains(time) {
			current = pe
		} else if pe.Start.Time > time {
			futures = append(futures, pe)
		}
	}

	switch {
	case current != nil:
		if stringSlicesEqual(current.Property.Values, prop.Values) {
			return ErrPropertyIsSame
		}
		closeEnd := Timestamp{Time: time, UID: uid, EditTime: editTime, Comments: comments}
		if err := gw.SetEdgeProperties(ctx, current.EdgeID, closeEnd.toAttrs("end")); err != nil {
			return err
		}

	case len(futures) > 0:
		sort.Slice(futures, func(i, j int) bool { return futures[i].Start.Time < futures[j].Start.Time })
		earliest := futures[0]

		if !force {
			return ErrSetPropertyBeforeExistingProperty
		}
		if endTime != gateway.IntervalOpen {
			return ErrPropertiesOverlapping
		}
		endTime = earliest.Start.Time
	}

	newProp := prop.Clone()
	if err := newProp.add(ctx, gw, c); err != nil {
		return err
	}

	startTS := Timestamp{Time: time, UID: uid, EditTime: editTime, Comments: comments}
	endTS := Timestamp{Time: endTime, UID: uid, EditTime: gateway.EditOpen}

	attrs := map[string]any{"category": gateway.CategoryRelProperty}
	for k, v := range startTS.toAttrs("start") {
		attrs[k] = v
	}
	for k, v := range endTS.toAttrs("end") {
		attrs[k] = v
	}
	for k, v := range lifecycleAttrsAt(nowUnix()) {
		attrs[k] = v
	}

	_, err = gw.AddEdge(ctx, gateway.CategoryRelProperty, comp.id, newProp.ID(), attrs)
	return err
}

// UnsetProperty closes the currently open rel_property edge of propType
// active at time.
func (comp *Component) UnsetProperty(ctx context.Context, gw gateway.Gateway, c *cache.Cache, propType *PropertyType, time int64, uid string, editTime int64, comments string) error {
	if !comp.Element.AddedToDB() {
		return ErrComponentNotAdded
	}

	edges, err := comp.propertyEdges(ctx, gw, c, false)
	if err != nil {
		return err
	}

	var current *PropertyEdge
	for _, pe := range edges {
		if pe.Property.Type.ID() != propType.ID() {
			continue
		}
		if pe.contains(time) {
			current = pe
			break
		}
	}

	if current == nil {
		return ErrPropertyNotAdded
	}
	if current.End.Time != gateway.IntervalOpen {
		return ErrPropertyIsSame
	}

	endTS := Timestamp{Time: time, UID: uid, EditTime: editTime, Comments: comments}
	return gw.SetEdgeProperties(ctx, current.EdgeID, endTS.toAttrs("end"))
}

// ReplaceProperty retires the currently active property of propType (marks
// its Property vertex inactive) and then attaches newProp via SetProperty.
// Distinct from UnsetProperty, which only closes the interval without
// retiring the vertex (spec §4.5).
func (comp *Component) ReplaceProperty(ctx context.Context, gw gateway.Gateway, c *cache.Cache, propType *PropertyType, newProp *Property, time int64, uid, comments string) error {
	if !comp.Element.AddedToDB() {
		return ErrComponentNotAdded
	}

	edges, err := comp.propertyEdges(ctx, gw, c, false)
	if err != nil {
		return err
	}

	var current *PropertyEdge
	for _, pe := range edges {
		if pe.Property.Type.ID() != propType.ID() || !pe.contains(time) {
			continue
		}
		current = pe
		break
	}

	// Check for a no-op replacement before mutating anything: SetProperty
	// below would reject it with ErrPropertyIsSame anyway, but only after
	// the current Property vertex had already been disabled, leaving a
	// disabled vertex with its rel_property edge still open.
	if current != nil && stringSlicesEqual(current.Property.Values, newProp.Values) {
		return ErrPropertyIsSame
	}

	if current != nil {
		if err := gw.SetVertexProperties(ctx, current.Property.ID(), map[string]any{
			"active":        false,
			"time_disabled": time,
		}); err != nil {
			return err
		}
		current.Property.markDisabled(time)
	}

	return comp.SetProperty(ctx, gw, c, newProp, time, uid, gateway.IntervalOpen, nowUnix(), comments, false)
}
