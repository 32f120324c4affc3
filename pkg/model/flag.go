package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// Flag is a first-class vertex (not an edge) because it can target
// multiple Components and carries its own (start, end) interval, closed by
// EndFlag (spec §4.6).
type Flag struct {
	Element
	Name       string
	Comments   string
	Start      Timestamp
	End        Timestamp
	Type       *FlagType
	Severity   *FlagSeverity
	Components []*Component
}

func NewFlag(name, comments string, start Timestamp, flagType *FlagType, severity *FlagSeverity, components []*Component) *Flag {
	return &Flag{
		Element:    newElement(),
		Name:       name,
		Comments:   comments,
		Start:      start,
		End:        OpenEnd(),
		Type:       flagType,
		Severity:   severity,
		Components: components,
	}
}

func FlagFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*Flag, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*Flag), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("Flag", err)
	}

	f := &Flag{
		Element:  elementFromAttrs(v.Attrs),
		Name:     toStringAttr(v.Attrs["name"]),
		Comments: toStringAttr(v.Attrs["comments"]),
		Start:    timestampFromAttrs(v.Attrs, "start"),
		End:      timestampFromAttrs(v.Attrs, "end"),
	}
	f.id = id

	for _, e := range v.OutEdges {
		switch e.Category {
		case gateway.CategoryRelFlagType:
			ft, err := FlagTypeFromID(ctx, gw, c, e.OtherID)
			if err != nil {
				return nil, err
			}
			f.Type = ft
		case gateway.CategoryRelFlagSeverity:
			fs, err := FlagSeverityFromID(ctx, gw, c, e.OtherID)
			if err != nil {
				return nil, err
			}
			f.Severity = fs
		case gateway.CategoryRelFlagComponent:
			comp, err := ComponentFromID(ctx, gw, c, e.OtherID)
			if err != nil {
				return nil, err
			}
			f.Components = append(f.Components, comp)
		}
	}

	cached := c.GetOrCreate(id, func() any { return f })
	return cached.(*Flag), nil
}

func (f *Flag) AddedToDB() bool { return f.Element.AddedToDB() }

// Add persists the Flag, its type/severity edges, and a rel_flag_component
// edge to each targeted Component. Type and Severity must already be
// persisted; unlike ComponentType/ComponentVersion these are not
// auto-added, since a Flag without a deliberately chosen type or severity
// is a modeling error rather than a convenience to paper over.
func (f *Flag) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	if f.AddedToDB() {
		return fmt.Errorf("Flag %q: %w", f.Name, ErrVertexAlreadyAdded)
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryFlag,
		"name":     f.Name,
		"comments": f.Comments,
	}
	for k, v := range f.Start.toAttrs("start") {
		attrs[k] = v
	}
	for k, v := range f.End.toAttrs("end") {
		attrs[k] = v
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryFlag, attrs)
	if err != nil {
		return err
	}

	if _, err := gw.AddEdge(ctx, gateway.CategoryRelFlagType, id, f.Type.ID(), lifecycleAttrsAt(now)); err != nil {
		return err
	}
	if _, err := gw.AddEdge(ctx, gateway.CategoryRelFlagSeverity, id, f.Severity.ID(), lifecycleAttrsAt(now)); err != nil {
		return err
	}
	for _, comp := range f.Components {
		if _, err := gw.AddEdge(ctx, gateway.CategoryRelFlagComponent, id, comp.ID(), lifecycleAttrsAt(now)); err != nil {
			return err
		}
	}

	f.markAdded(id, now)
	c.Set(id, f)
	return nil
}

// EndFlag closes the Flag's interval. Fails with ErrFlagNotAdded if the
// Flag has not been persisted.
func (f *Flag) EndFlag(ctx context.Context, gw gateway.Gateway, endTime int64, endUID string, endEditTime int64, endComments string) error {
	if !f.AddedToDB() {
		return ErrFlagNotAdded
	}

	end := Timestamp{Time: endTime, UID: endUID, EditTime: endEditTime, Comments: endComments}
	if err := gw.SetVertexProperties(ctx, f.id, end.toAttrs("end")); err != nil {
		return err
	}
	f.End = end
	return nil
}

func (f *Flag) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !f.AddedToDB() {
		return ErrFlagNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, f.id, disableTime); err != nil {
		return err
	}
	f.markDisabled(disableTime)
	return nil
}

// Replace supersedes f with newF: disables f, adds newF, rewrites f's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3), including its rel_flag_component edges. newF must not already be
// added.
func (f *Flag) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newF *Flag, disableTime int64) error {
	if !f.AddedToDB() {
		return ErrFlagNotAdded
	}

	v, err := gw.GetVertex(ctx, f.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, f.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	f.markDisabled(disableTime)

	if err := newF.Add(ctx, gw, c); err != nil {
		return err
	}

	f.Replacement = newF.ID()
	if err := gw.SetVertexProperties(ctx, f.id, map[string]any{"replacement": newF.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newF.ID())
}

// GetAllFlags returns every Flag targeting comp, active or historical.
func (comp *Component) GetAllFlags(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*Flag, error) {
	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return nil, err
	}
	var out []*Flag
	for _, e := range v.InEdges {
		if e.Category != gateway.CategoryRelFlagComponent {
			continue
		}
		f, err := FlagFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
