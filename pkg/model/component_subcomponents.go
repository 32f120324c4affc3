package model

import (
	"context"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// SubcomponentConnect adds a directed rel_subcomponent edge comp -> child,
// marking child as a subcomponent of comp. Fails with ErrSubcomponentToSelf
// if child is comp, ErrIsSubcomponentOfOther if the inverse edge already
// exists, ErrAlreadySubcomponent if this edge already exists (spec §4.5).
func (comp *Component) SubcomponentConnect(ctx context.Context, gw gateway.Gateway, c *cache.Cache, child *Component) error {
	if comp.ID() == child.ID() {
		return ErrSubcomponentToSelf
	}

	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return err
	}

	for _, e := range v.OutEdges {
		if e.Category == gateway.CategoryRelSubcomponent && e.OtherID == child.ID() && toBoolAttr(e.Attrs["active"]) {
			return ErrAlreadySubcomponent
		}
	}
	for _, e := range v.InEdges {
		if e.Category == gateway.CategoryRelSubcomponent && e.OtherID == child.ID() && toBoolAttr(e.Attrs["active"]) {
			return ErrIsSubcomponentOfOther
		}
	}

	now := nowUnix()
	_, err = gw.AddEdge(ctx, gateway.CategoryRelSubcomponent, comp.id, child.ID(), lifecycleAttrsAt(now))
	return err
}

// DisableSubcomponent retires the rel_subcomponent edge comp -> child.
func (comp *Component) DisableSubcomponent(ctx context.Context, gw gateway.Gateway, c *cache.Cache, child *Component, disableTime int64) error {
	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return err
	}
	for _, e := range v.OutEdges {
		if e.Category == gateway.CategoryRelSubcomponent && e.OtherID == child.ID() && toBoolAttr(e.Attrs["active"]) {
			return gw.SetEdgeProperties(ctx, e.ID, map[string]any{
				"active":        false,
				"time_disabled": disableTime,
			})
		}
	}
	return ErrComponentNotAdded
}

// GetAllSubcomponents returns the Components directly beneath comp in the
// sub/super-component hierarchy.
func (comp *Component) GetAllSubcomponents(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*Component, error) {
	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return nil, err
	}
	var out []*Component
	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelSubcomponent || !toBoolAttr(e.Attrs["active"]) {
			continue
		}
		child, err := ComponentFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// GetAllSupercomponents returns the Components directly above comp in the
// sub/super-component hierarchy.
func (comp *Component) GetAllSupercomponents(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*Component, error) {
	v, err := gw.GetVertex(ctx, comp.id)
	if err != nil {
		return nil, err
	}
	var out []*Component
	for _, e := range v.InEdges {
		if e.Category != gateway.CategoryRelSubcomponent || !toBoolAttr(e.Attrs["active"]) {
			continue
		}
		parent, err := ComponentFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		out = append(out, parent)
	}
	return out, nil
}
