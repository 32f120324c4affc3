package model

import (
	"context"
	"fmt"
	"sort"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// ConnectionEdge pairs the counterpart Component with the temporal interval
// over which a rel_connection edge joined it to this component.
type ConnectionEdge struct {
	EdgeID int64
	Other  *Component
	Start  Timestamp
	End    Timestamp
	Active bool
}

func (ce *ConnectionEdge) contains(instant int64) bool {
	return ce.Start.Time <= instant && ce.End.after(instant)
}

// connectionEdges returns every rel_connection edge incident to comp,
// undirected: both OutEdges and InEdges are consulted since connect picks
// an arbitrary orientation (spec §3).
func (comp *Component) connectionEdges(ctx context.Context, gw gateway.Gateway, c *cache.Cache, includeInactive bool) ([]*ConnectionEdge, error) {
	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return nil, err
	}

	var out []*ConnectionEdge
	seen := make(map[int64]bool)
	for _, refs := range [][]gateway.EdgeRef{v.OutEdges, v.InEdges} {
		for _, e := range refs {
			if e.Category != gateway.CategoryRelConnection {
				continue
			}
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true

			active := toBoolAttr(e.Attrs["active"])
			if !active && !includeInactive {
				continue
			}
			other, err := ComponentFromID(ctx, gw, c, e.OtherID)
			if err != nil {
				return nil, err
			}
			out = append(out, &ConnectionEdge{
				EdgeID: e.ID,
				Other:  other,
				Start:  timestampFromAttrs(e.Attrs, "start"),
				End:    timestampFromAttrs(e.Attrs, "end"),
				Active: active,
			})
		}
	}
	return out, nil
}

// GetConnection returns the at-most-one active connection between comp and
// other containing instant time, or nil if none. More than one match is an
// invariant violation and is returned as an error.
func (comp *Component) GetConnection(ctx context.Context, gw gateway.Gateway, c *cache.Cache, other *Component, time int64) (*ConnectionEdge, error) {
	edges, err := comp.connectionEdges(ctx, gw, c, false)
	if err != nil {
		return nil, err
	}
	var matches []*ConnectionEdge
	for _, ce := range edges {
		if ce.Other.ID() == other.ID() && ce.contains(time) {
			matches = append(matches, ce)
		}
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("model: invariant violated: components %d and %d have %d active connections at %d", comp.id, other.ID(), len(matches), time)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return nil, nil
}

// GetAllConnectionsAtTime returns every active connection of comp
// containing instant time.
func (comp *Component) GetAllConnectionsAtTime(ctx context.Context, gw gateway.Gateway, c *cache.Cache, time int64) ([]*ConnectionEdge, error) {
	edges, err := comp.connectionEdges(ctx, gw, c, false)
	if err != nil {
		return nil, err
	}
	var out []*ConnectionEdge
	for _, ce := range edges {
		if ce.contains(time) {
			out = append(out, ce)
		}
	}
	return out, nil
}

// GetAllConnectionsWith returns every connection (active or historical)
// between comp and other, ordered by start time ascending.
func (comp *Component) GetAllConnectionsWith(ctx context.Context, gw gateway.Gateway, c *cache.Cache, other *Component) ([]*ConnectionEdge, error) {
	edges, err := comp.connectionEdges(ctx, gw, c, true)
	if err != nil {
		return nil, err
	}
	var out []*ConnectionEdge
	for _, ce := range edges {
		if ce.Other.ID() == other.ID() {
			out = append(out, ce)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Time < out[j].Start.Time })
	return out, nil
}

// GetAllConnections returns every connection (active or historical) of
// comp, for use by AsDict.
func (comp *Component) GetAllConnections(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*ConnectionEdge, error) {
	return comp.connectionEdges(ctx, gw, c, true)
}

// Connect joins comp and other with a rel_connection edge starting at time,
// following the same overlap policy as SetProperty (spec §4.5).
func (comp *Component) Connect(ctx context.Context, gw gateway.Gateway, c *cache.Cache, other *Component, time int64, uid string, endTime int64, editTime int64, comments string, force bool) error {
	if comp.ID() == other.ID() {
		return ErrConnectToSelf
	}

	edges, err := comp.connectionEdges(ctx, gw, c, false)
	if err != nil {
		return err
	}

	var current *ConnectionEdge
	var futures []*ConnectionEdge
	for _, ce := range edges {
		if ce.Other.ID() != other.ID() {
			continue
		}
		if ce.contains(time) {
			current = ce
		} else if ce.Start.Time > time {
			futures = append(futures, ce)
		}
	}

	switch {
	case current != nil:
		return ErrComponentsAlreadyConnected

	case len(futures) > 0:
		sort.Slice(futures, func(i, j int) bool { return futures[i].Start.Time < futures[j].Start.Time })
		earliest := futures[0]

		if !force {
			return ErrConnectBeforeExistingConnection
		}
		if endTime != gateway.IntervalOpen {
			return ErrConnectionsOverlapping
		}
		endTime = earliest.Start.Time
	}

	startTS := Timestamp{Time: time, UID: uid, EditTime: editTime, Comments: comments}
	endTS := Timestamp{Time: endTime, UID: uid, EditTime: gateway.EditOpen}

	attrs := map[string]any{"category": gateway.CategoryRelConnection}
	for k, v := range startTS.toAttrs("start") {
		attrs[k] = v
	}
	for k, v := range endTS.toAttrs("end") {
		attrs[k] = v
	}
	for k, v := range lifecycleAttrsAt(nowUnix()) {
		attrs[k] = v
	}

	_, err = gw.AddEdge(ctx, gateway.CategoryRelConnection, comp.id, other.ID(), attrs)
	return err
}

// Disconnect closes the currently open connection between comp and other
// at time.
func (comp *Component) Disconnect(ctx context.Context, gw gateway.Gateway, c *cache.Cache, other *Component, time int64, uid string, editTime int64, comments string) error {
	edges, err := comp.connectionEdges(ctx, gw, c, false)
	if err != nil {
		return err
	}

	var current *ConnectionEdge
	for _, ce := range edges {
		if ce.Other.ID() == other.ID() && ce.contains(time) {
			current = ce
			break
		}
	}
	if current == nil || current.End.Time != gateway.IntervalOpen {
		return ErrComponentsAlreadyDisconnected
	}

	endTS := Timestamp{Time: time, UID: uid, EditTime: editTime, Comments: comments}
	return gw.SetEdgeProperties(ctx, current.EdgeID, endTS.toAttrs("end"))
}

// DisableConnection retires a single connection edge outright (sets
// active=false on just that edge), distinct from Disconnect which only
// closes its temporal interval.
func (comp *Component) DisableConnection(ctx context.Context, gw gateway.Gateway, c *cache.Cache, other *Component, disableTime int64) error {
	edges, err := comp.connectionEdges(ctx, gw, c, false)
	if err != nil {
		return err
	}
	for _, ce := range edges {
		if ce.Other.ID() != other.ID() || !ce.contains(disableTime) {
			continue
		}
		return gw.SetEdgeProperties(ctx, ce.EdgeID, map[string]any{
			"active":        false,
			"time_disabled": disableTime,
		})
	}
	return ErrComponentsAlreadyDisconnected
}

// ReplaceConnection retires the currently active connection to other and
// reconnects at time, mirroring ReplaceProperty.
func (comp *Component) ReplaceConnection(ctx context.Context, gw gateway.Gateway, c *cache.Cache, other *Component, time int64, uid, comments string) error {
	if err := comp.DisableConnection(ctx, gw, c, other, time); err != nil && err != ErrComponentsAlreadyDisconnected {
		return err
	}
	return comp.Connect(ctx, gw, c, other, time, uid, gateway.IntervalOpen, nowUnix(), comments, false)
}
