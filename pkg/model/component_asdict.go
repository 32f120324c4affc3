package model

import (
	"context"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// AsDict builds the composite snapshot of comp used by read APIs: its own
// attributes, type, version, every property and connection (with
// counterpart names), every flag, and direct sub/super-components. When
// time is non-nil, temporal collections are filtered to intervals
// containing it; when nil, the full history is returned (spec §4.5).
func (comp *Component) AsDict(ctx context.Context, gw gateway.Gateway, c *cache.Cache, time *int64) (map[string]any, error) {
	out := map[string]any{
		"id":         comp.ID(),
		"name":       comp.Name,
		"time_added": comp.TimeAdded,
	}

	if comp.Type != nil {
		out["type"] = map[string]any{"id": comp.Type.ID(), "name": comp.Type.Name, "comments": comp.Type.Comments}
	}
	if comp.Version != nil {
		out["version"] = map[string]any{"id": comp.Version.ID(), "name": comp.Version.Name, "comments": comp.Version.Comments}
	} else {
		out["version"] = map[string]any{}
	}

	propEdges, err := comp.GetAllProperties(ctx, gw, c)
	if err != nil {
		return nil, err
	}
	var properties []map[string]any
	for _, pe := range propEdges {
		if time != nil && !pe.contains(*time) {
			continue
		}
		properties = append(properties, map[string]any{
			"id":         pe.Property.ID(),
			"type":       pe.Property.Type.Name,
			"values":     pe.Property.Values,
			"start_time": pe.Start.Time,
			"end_time":   pe.End.Time,
		})
	}
	out["properties"] = properties

	connEdges, err := comp.GetAllConnections(ctx, gw, c)
	if err != nil {
		return nil, err
	}
	var connections []map[string]any
	for _, ce := range connEdges {
		if time != nil && !ce.contains(*time) {
			continue
		}
		connections = append(connections, map[string]any{
			"name":       ce.Other.Name,
			"id":         ce.Other.ID(),
			"start_time": ce.Start.Time,
			"end_time":   ce.End.Time,
		})
	}
	out["connections"] = connections

	flags, err := comp.GetAllFlags(ctx, gw, c)
	if err != nil {
		return nil, err
	}
	var flagDicts []map[string]any
	for _, f := range flags {
		if time != nil && !(f.Start.Time <= *time && f.End.after(*time)) {
			continue
		}
		flagDicts = append(flagDicts, map[string]any{
			"id":       f.ID(),
			"name":     f.Name,
			"comments": f.Comments,
		})
	}
	out["flags"] = flagDicts

	subs, err := comp.GetAllSubcomponents(ctx, gw, c)
	if err != nil {
		return nil, err
	}
	var subNames []map[string]any
	for _, s := range subs {
		subNames = append(subNames, map[string]any{"name": s.Name})
	}
	out["subcomponents"] = subNames

	supers, err := comp.GetAllSupercomponents(ctx, gw, c)
	if err != nil {
		return nil, err
	}
	var superNames []map[string]any
	for _, s := range supers {
		superNames = append(superNames, map[string]any{"name": s.Name})
	}
	out["supercomponents"] = superNames

	return out, nil
}
