package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// ComponentType names a kind of component (e.g. "antenna"). Names are
// unique among active ComponentTypes.
type ComponentType struct {
	Element
	Name     string
	Comments string
}

// NewComponentType constructs a not-yet-added ComponentType. Call Add to
// persist it.
func NewComponentType(name, comments string) *ComponentType {
	return &ComponentType{Element: newElement(), Name: name, Comments: comments}
}

// ComponentTypeFromID returns the cached ComponentType for id, loading it
// from gw if not already cached.
func ComponentTypeFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*ComponentType, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*ComponentType), nil
	}

	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("ComponentType", err)
	}

	ct := &ComponentType{
		Element:  elementFromAttrs(v.Attrs),
		Name:     toStringAttr(v.Attrs["name"]),
		Comments: toStringAttr(v.Attrs["comments"]),
	}
	ct.id = id

	cached := c.GetOrCreate(id, func() any { return ct })
	return cached.(*ComponentType), nil
}

// ComponentTypeFromName loads the active ComponentType with the given name.
// Returns ErrComponentTypeNotAdded if none exists.
func ComponentTypeFromName(ctx context.Context, gw gateway.Gateway, c *cache.Cache, name string) (*ComponentType, error) {
	id, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryComponentType, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrComponentTypeNotAdded
	}
	return ComponentTypeFromID(ctx, gw, c, id)
}

// AddedToDB reports whether this ComponentType has been persisted, either
// because it already carries an ID or because an active vertex with the
// same name exists.
func (ct *ComponentType) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if ct.Element.AddedToDB() {
		return true, nil
	}
	_, found, err := findActiveVertexByName(ctx, gw, gateway.CategoryComponentType, ct.Name)
	return found, err
}

// Add persists the ComponentType. Fails with ErrVertexAlreadyAdded if an
// active ComponentType with the same name already exists.
func (ct *ComponentType) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := ct.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("ComponentType %q: %w", ct.Name, ErrVertexAlreadyAdded)
	}

	now := nowUnix()
	attrs := map[string]any{
		"category": gateway.CategoryComponentType,
		"name":     ct.Name,
		"comments": ct.Comments,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryComponentType, attrs)
	if err != nil {
		return err
	}
	ct.markAdded(id, now)
	c.Set(id, ct)
	return nil
}

// Disable retires the ComponentType and all its incident edges. No
// successor is created.
func (ct *ComponentType) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !ct.Element.AddedToDB() {
		return ErrComponentTypeNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, ct.id, disableTime); err != nil {
		return err
	}
	ct.markDisabled(disableTime)
	return nil
}

// Replace supersedes ct with newCT: disables ct, adds newCT, rewrites ct's
// replacement pointer, and migrates every eligible incident edge (spec
// §4.3). newCT must not already be added.
func (ct *ComponentType) Replace(ctx context.Context, gw gateway.Gateway, c *cache.Cache, newCT *ComponentType, disableTime int64) error {
	if !ct.Element.AddedToDB() {
		return ErrComponentTypeNotAdded
	}

	v, err := gw.GetVertex(ctx, ct.id)
	if err != nil {
		return err
	}

	if err := gw.SetVertexProperties(ctx, ct.id, map[string]any{
		"active":        false,
		"time_disabled": disableTime,
	}); err != nil {
		return err
	}
	ct.markDisabled(disableTime)

	if err := newCT.Add(ctx, gw, c); err != nil {
		return err
	}

	ct.Replacement = newCT.ID()
	if err := gw.SetVertexProperties(ctx, ct.id, map[string]any{"replacement": newCT.ID()}); err != nil {
		return err
	}

	return migrateTransferableEdges(ctx, gw, v, newCT.ID())
}

// ListComponentTypes returns every active ComponentType.
func ListComponentTypes(ctx context.Context, gw gateway.Gateway, c *cache.Cache) ([]*ComponentType, error) {
	ids, err := listActiveIDs(ctx, gw, gateway.CategoryComponentType)
	if err != nil {
		return nil, err
	}
	out := make([]*ComponentType, 0, len(ids))
	for _, id := range ids {
		ct, err := ComponentTypeFromID(ctx, gw, c, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, nil
}

func lifecycleAttrsAt(now int64) map[string]any {
	return map[string]any{
		"time_added":    now,
		"time_disabled": gateway.DisabledNever,
		"active":        true,
		"replacement":   int64(0),
	}
}
